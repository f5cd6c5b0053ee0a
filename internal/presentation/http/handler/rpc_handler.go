package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
)

// RPCHandler serves the POS client's multi-currency calls. Payloads are
// returned as is and failures are reported as {"error": message} with 200.
type RPCHandler struct {
	rateService *service.RateService
}

// NewRPCHandler creates a new RPC handler
func NewRPCHandler(rateService *service.RateService) *RPCHandler {
	return &RPCHandler{rateService: rateService}
}

func rpcError(c *gin.Context, err error) {
	msg := apperror.GetAppError(err).Message
	c.Set("rpc_error", msg)
	c.JSON(http.StatusOK, gin.H{"error": msg})
}

// Rates returns the company rates of every currency and the base currency.
func (h *RPCHandler) Rates(c *gin.Context) {
	result, err := h.rateService.Rates(c.Request.Context())
	if err != nil {
		rpcError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Statistics returns the per-currency statistics of a session.
func (h *RPCHandler) Statistics(c *gin.Context) {
	req := bindStatisticsRequest(c)

	result, err := h.rateService.Statistics(c.Request.Context(), req.SessionID)
	if err != nil {
		rpcError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
