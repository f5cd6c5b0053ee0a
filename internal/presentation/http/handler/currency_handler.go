package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
)

// CurrencyHandler handles currency and exchange rate requests
type CurrencyHandler struct {
	rateService *service.RateService
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(rateService *service.RateService) *CurrencyHandler {
	return &CurrencyHandler{rateService: rateService}
}

// List returns currencies with their current company rate
// @Summary List currencies
// @Tags currencies
// @Produce json
// @Param active query bool false "Only active currencies (default true)"
// @Success 200 {object} response.APIResponse
// @Router /currencies [get]
func (h *CurrencyHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"

	currencies, err := h.rateService.ListCurrencies(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Currencies retrieved", currencies)
}

// AddRate records a dated company rate for a currency
// @Summary Add exchange rate
// @Tags currencies
// @Accept json
// @Produce json
// @Param id path int true "Currency ID"
// @Param request body request.AddRateRequest true "Rate"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /currencies/{id}/rates [post]
func (h *CurrencyHandler) AddRate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.AddRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	effective := time.Now().UTC()
	if req.EffectiveDate != nil {
		effective = req.EffectiveDate.UTC()
	}

	rate, err := h.rateService.AddRate(c.Request.Context(), &service.AddRateInput{
		CurrencyID:    id,
		Rate:          req.Rate,
		EffectiveDate: effective,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Rate created", rate)
}

// Conversion returns the rate converting one currency into another
// @Summary Conversion rate
// @Tags currencies
// @Produce json
// @Param from query int true "Source currency ID"
// @Param to query int true "Target currency ID"
// @Success 200 {object} response.APIResponse
// @Router /currencies/conversion [get]
func (h *CurrencyHandler) Conversion(c *gin.Context) {
	var q request.ConversionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "from and to are required")
		return
	}

	result, err := h.rateService.ConversionRate(c.Request.Context(), q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Conversion rate retrieved", result)
}
