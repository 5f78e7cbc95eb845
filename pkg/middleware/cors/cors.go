package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	maxAge       = "600"
)

// New builds the CORS middleware from the configured origin allow-list.
// An empty list allows every origin; credentials are only offered to
// origins named explicitly.
func New(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[normalize(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		headers := c.Writer.Header()
		origin := c.GetHeader("Origin")

		switch {
		case origin == "":
			if len(allowed) == 0 {
				headers.Set("Access-Control-Allow-Origin", "*")
			}
		case len(allowed) == 0:
			headers.Set("Access-Control-Allow-Origin", origin)
		default:
			if _, ok := allowed[normalize(origin)]; ok {
				headers.Set("Access-Control-Allow-Origin", origin)
				headers.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		headers.Add("Vary", "Origin")
		headers.Set("Access-Control-Allow-Methods", allowMethods)
		headers.Set("Access-Control-Allow-Headers", allowHeaders)
		headers.Set("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
