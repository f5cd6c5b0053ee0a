package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-multicurrency/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserGroups extracts the user's permission group names from the Gin context
func GetUserGroups(c *gin.Context) []string {
	groups, exists := c.Get("user_groups")
	if !exists {
		return nil
	}
	names, _ := groups.([]string)
	return names
}

// paramID parses a positive numeric path parameter. It writes a 400
// response and returns false when the parameter is invalid.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageParams reads page and per_page from the query string.
func pageParams(c *gin.Context) pagination.Params {
	var p pagination.Params
	_ = c.ShouldBindQuery(&p)
	p.Normalize()
	return p
}

// bindStatisticsRequest reads the optional session_id. A body that does not
// decode leaves it at zero, so a malformed id is answered like a missing one.
// The bind error is attached to the context for the request log.
func bindStatisticsRequest(c *gin.Context) request.StatisticsRequest {
	var req request.StatisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
	}
	return req
}
