package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// maintenanceBypassFragments are path substrings that stay reachable in
// maintenance mode so operators can log in and turn the flag back off.
var maintenanceBypassFragments = []string{"/login", "/auth", "/admin/maintenance"}

// MaintenanceFlag reports the current maintenance state. Implementations
// must not block the request path on the settings store.
type MaintenanceFlag interface {
	MaintenanceSnapshot(ctx context.Context) bool
}

// Maintenance rejects requests with 503 while the platform is gated.
// Admin and superadmin callers pass, as do the bypass paths. An
// undeterminable flag lets traffic through.
func Maintenance(flag MaintenanceFlag, metrics gateMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !flag.MaintenanceSnapshot(c.Request.Context()) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, fragment := range maintenanceBypassFragments {
			if strings.Contains(path, fragment) {
				c.Next()
				return
			}
		}

		if claimsValue, exists := c.Get(ContextUserKey); exists {
			claims := claimsValue.(*models.JWTClaims)
			if claims.Role == models.RoleAdmin || claims.Role == models.RoleSuperAdmin {
				c.Next()
				return
			}
		}

		if metrics != nil {
			metrics.RecordGateRejection()
		}
		response.Unavailable(c, "plataforma en mantenimiento")
		c.Abort()
	}
}

type gateMetrics interface {
	RecordGateRejection()
}
