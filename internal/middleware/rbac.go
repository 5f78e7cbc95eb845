package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// Require gates a route on the central role policy for an action. Every
// protected route names its action here; no handler checks roles on its
// own.
func Require(action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if !models.Allowed(claims.Role, action) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
