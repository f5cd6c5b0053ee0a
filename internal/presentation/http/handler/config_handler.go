package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
)

// ConfigHandler handles POS configuration requests
type ConfigHandler struct {
	configService *service.ConfigService
	rateService   *service.RateService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configService *service.ConfigService, rateService *service.RateService) *ConfigHandler {
	return &ConfigHandler{configService: configService, rateService: rateService}
}

// Get returns a POS configuration
// @Summary Get POS configuration
// @Tags pos-config
// @Produce json
// @Param id path int true "Configuration ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /pos/configs/{id} [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	cfg, err := h.configService.GetConfig(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Configuration retrieved", cfg)
}

// UpdateMultiCurrency changes the multi-currency settings of a configuration
// @Summary Update multi-currency settings
// @Tags pos-config
// @Accept json
// @Produce json
// @Param id path int true "Configuration ID"
// @Param request body request.UpdateMultiCurrencyRequest true "Settings"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /pos/configs/{id}/multi_currency [put]
func (h *ConfigHandler) UpdateMultiCurrency(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateMultiCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cfg, err := h.configService.UpdateMultiCurrency(c.Request.Context(), id, &service.UpdateMultiCurrencyInput{
		Enabled:         req.Enabled,
		CurrencyIDs:     req.CurrencyIDs,
		AllowRateEdit:   req.AllowRateEdit,
		RateEditGroupID: req.RateEditGroupID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Multi-currency settings updated", cfg)
}

// LoadPosData returns the configuration and currencies a POS client needs on start-up
// @Summary Load POS session data
// @Tags pos-config
// @Accept json
// @Produce json
// @Param id path int true "Configuration ID"
// @Param request body request.LoadPosDataRequest false "Currencies already loaded"
// @Success 200 {object} response.APIResponse
// @Router /pos/configs/{id}/load [post]
func (h *ConfigHandler) LoadPosData(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.LoadPosDataRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	data, err := h.configService.LoadPosData(c.Request.Context(), id, *userID, req.LoadedCurrencyIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "POS data loaded", data)
}

// MultiCurrencyConfig answers the configuration's get_multi_currency_config call.
// The payload is not wrapped in the API envelope.
func (h *ConfigHandler) MultiCurrencyConfig(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.configService.GetMultiCurrencyConfig(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rates answers the configuration's get_multi_currency_rates call.
func (h *ConfigHandler) Rates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.configService.GetConfig(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.rateService.Rates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Statistics answers the configuration's get_multi_currency_statistics call.
// A missing or unknown session yields the empty result rather than an error.
func (h *ConfigHandler) Statistics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.configService.GetConfig(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	req := bindStatisticsRequest(c)

	result, err := h.rateService.Statistics(c.Request.Context(), req.SessionID)
	if err != nil {
		c.Set("rpc_error", err.Error())
	}

	c.JSON(http.StatusOK, result)
}
