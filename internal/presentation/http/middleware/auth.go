package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("company_id", claims.CompanyID)
		c.Set("user_groups", claims.Groups)

		c.Next()
	}
}

// RequireGroup creates a middleware that requires membership of one of the groups
func RequireGroup(groups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userGroups, ok := c.Get("user_groups")
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		names, ok := userGroups.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, name := range names {
			for _, required := range groups {
				if name == required {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "You do not have permission to perform this action")
		c.Abort()
	}
}
