package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func idRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) {
		*captured = Value(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var captured string
	router := idRouter(&captured)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, recorder.Header().Get(Header))
}

func TestMiddlewareKeepsUpstreamID(t *testing.T) {
	var captured string
	router := idRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "proxy-abc-123")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, "proxy-abc-123", captured)
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	var captured string
	router := idRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, strings.Repeat("x", maxIDLength+1))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.NotEmpty(t, captured)
	assert.NotContains(t, captured, "xxx")
}
