package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
)

// OrderHandler handles POS order requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Sync stores an order pushed by the POS client
// @Summary Sync order
// @Description Store an order with its payment lines and refresh the foreign currency summaries
// @Tags pos-orders
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param Idempotency-Key header string true "Client generated key"
// @Param request body request.SyncOrderRequest true "Order"
// @Success 201 {object} response.APIResponse
// @Success 200 {object} response.APIResponse "Order already synced"
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /pos/sessions/{id}/orders [post]
func (h *OrderHandler) Sync(c *gin.Context) {
	sessionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.SyncOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	input := &service.SyncOrderInput{
		SessionID:   sessionID,
		Name:        req.Name,
		AmountTotal: req.AmountTotal,
		DateOrder:   now,
		Payments:    make([]service.PaymentInput, 0, len(req.Payments)),
	}
	if req.DateOrder != nil {
		input.DateOrder = req.DateOrder.UTC()
	}
	for _, p := range req.Payments {
		paymentDate := input.DateOrder
		if p.PaymentDate != nil {
			paymentDate = p.PaymentDate.UTC()
		}
		input.Payments = append(input.Payments, service.PaymentInput{
			PaymentMethodID:       p.PaymentMethodID,
			Amount:                p.Amount,
			PaymentDate:           paymentDate,
			PaymentCurrencyID:     p.PaymentCurrencyID,
			PaymentCurrencyAmount: p.PaymentCurrencyAmount,
			ExchangeRate:          p.ExchangeRate,
			RateManuallyEdited:    p.RateManuallyEdited,
		})
	}

	order, created, err := h.orderService.SyncOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := order.ExportForUI()
	if !created {
		response.OK(c, "Order already synced", payload)
		return
	}
	response.Created(c, "Order synced", payload)
}

// ExportForUI returns the order payload with its foreign currency summary
// @Summary Order UI payload
// @Tags pos-orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/orders/{id}/ui [get]
func (h *OrderHandler) ExportForUI(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payload, err := h.orderService.ExportForUI(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", payload)
}

// ForeignPayments lists the order's foreign currency payments
// @Summary Order foreign currency payments
// @Tags pos-orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/orders/{id}/foreign-payments [get]
func (h *OrderHandler) ForeignPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	action, err := h.orderService.ViewForeignCurrencyDetails(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Foreign currency payments retrieved", action)
}

// CurrencyBreakdown returns a notification with the order's per-currency totals
// @Summary Order currency breakdown
// @Tags pos-orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/orders/{id}/currency-breakdown [get]
func (h *OrderHandler) CurrencyBreakdown(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	action, err := h.orderService.ViewCurrencyBreakdown(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Currency breakdown retrieved", action)
}

// Receipt returns the printable receipt of an order
// @Summary Order receipt
// @Tags pos-orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.orderService.Receipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved", receipt)
}
