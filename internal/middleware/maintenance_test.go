package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

type staticFlag bool

func (f staticFlag) MaintenanceSnapshot(ctx context.Context) bool { return bool(f) }

type countingMetrics struct {
	rejections int
}

func (m *countingMetrics) RecordGateRejection() { m.rejections++ }

func maintenanceRouter(flag MaintenanceFlag, metrics *countingMetrics, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, claims)
			c.Next()
		})
	}
	router.Use(Maintenance(flag, metrics))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/api/cursos", ok)
	router.POST("/api/auth/login", ok)
	router.PUT("/api/admin/maintenance", ok)
	return router
}

func TestMaintenanceGatePassesWhenDisabled(t *testing.T) {
	router := maintenanceRouter(staticFlag(false), &countingMetrics{}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/cursos", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMaintenanceGateRejectsWith503Contract(t *testing.T) {
	metrics := &countingMetrics{}
	router := maintenanceRouter(staticFlag(true), metrics, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/cursos", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["maintenance"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, 1, metrics.rejections)
}

func TestMaintenanceGateBypassPaths(t *testing.T) {
	router := maintenanceRouter(staticFlag(true), &countingMetrics{}, nil)

	for _, path := range []string{"/api/auth/login", "/api/admin/maintenance"} {
		recorder := httptest.NewRecorder()
		method := http.MethodPost
		if path == "/api/admin/maintenance" {
			method = http.MethodPut
		}
		router.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}

func TestMaintenanceGateAdminOverride(t *testing.T) {
	admin := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	router := maintenanceRouter(staticFlag(true), &countingMetrics{}, admin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/cursos", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMaintenanceGateBlocksStudent(t *testing.T) {
	student := &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent}
	router := maintenanceRouter(staticFlag(true), &countingMetrics{}, student)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/cursos", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
