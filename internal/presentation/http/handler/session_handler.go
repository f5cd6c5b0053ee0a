package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
)

// SessionHandler handles POS session requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Get returns a session with its foreign currency summary
// @Summary Get session
// @Tags pos-sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /pos/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved", session)
}

// Open starts a session for a configuration
// @Summary Open session
// @Tags pos-sessions
// @Produce json
// @Param id path int true "Configuration ID"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /pos/configs/{id}/sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	configID, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), configID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened", session)
}

// Close closes a session after refreshing its summary
// @Summary Close session
// @Tags pos-sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /pos/sessions/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.CloseSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed", session)
}

// ForeignPayments lists the session's payments that carry a currency
// @Summary Session foreign currency breakdown
// @Tags pos-sessions
// @Produce json
// @Param id path int true "Session ID"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /pos/sessions/{id}/foreign-payments [get]
func (h *SessionHandler) ForeignPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	action, page, err := h.sessionService.ViewForeignCurrencyBreakdown(c.Request.Context(), id, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Foreign currency breakdown retrieved", gin.H{
		"action":     action,
		"pagination": page,
	})
}
