package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
)

// PaymentHandler handles POS payment requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Get returns a payment line
// @Summary Get payment
// @Tags pos-payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved", payment.Serialize())
}

// Update changes the amount or the currency fields of a payment
// @Summary Update payment
// @Tags pos-payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body request.UpdatePaymentRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /pos/payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), id, &service.UpdatePaymentInput{
		Amount:                req.Amount,
		PaymentCurrencyID:     req.PaymentCurrencyID,
		ClearCurrency:         req.ClearCurrency,
		PaymentCurrencyAmount: req.PaymentCurrencyAmount,
		ExchangeRate:          req.ExchangeRate,
		RateManuallyEdited:    req.RateManuallyEdited,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated", payment.Serialize())
}

// Delete removes a payment line
// @Summary Delete payment
// @Tags pos-payments
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 409 {object} response.APIResponse
// @Router /pos/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
