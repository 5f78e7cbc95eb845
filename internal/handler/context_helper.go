package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/middleware"
	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func identityFromContext(c *gin.Context) service.Identity {
	claims := claimsFromContext(c)
	if claims == nil {
		return service.Identity{}
	}
	return service.Identity{UserID: claims.UserID, Role: claims.Role}
}
