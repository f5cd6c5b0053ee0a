package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
)

// CompanyMiddleware moves the authenticated company into the request context
// so repositories scope their queries to it. Log lines of the request carry
// the user and company.
func CompanyMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := GetCompanyID(c)
		if companyID == 0 {
			response.BadRequest(c, "Company context required")
			c.Abort()
			return
		}

		ctx := repository.WithCompany(c.Request.Context(), companyID)
		ctx = log.WithCompanyID(ctx, companyID)
		if userID, ok := c.Get("user_id"); ok {
			if id, ok := userID.(uuid.UUID); ok {
				ctx = log.WithUserID(ctx, id.String())
			}
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCompanyID retrieves the company ID from gin context
func GetCompanyID(c *gin.Context) uint {
	companyID, exists := c.Get("company_id")
	if !exists {
		return 0
	}
	id, ok := companyID.(uint)
	if !ok {
		return 0
	}
	return id
}
