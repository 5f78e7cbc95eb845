package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/middleware"
	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/internal/service"
	"github.com/aulamarket/aulamarket-api/pkg/export"
)

type enrollmentDetailStub struct {
	detail *models.EnrollmentDetail
}

func (s *enrollmentDetailStub) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if s.detail == nil || s.detail.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.detail, nil
}

func completedDetail() *models.EnrollmentDetail {
	done := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	return &models.EnrollmentDetail{
		Enrollment: models.Enrollment{
			ID:          "enr-1",
			UserID:      "user-1",
			CourseID:    "course-1",
			Progress:    100,
			CompletedAt: &done,
		},
		CourseTitle:    "Go desde cero",
		StudentName:    "Ana Diaz",
		InstructorName: "Luis Mora",
	}
}

func certificateHandlerWith(detail *models.EnrollmentDetail) *CertificateHandler {
	svc := service.NewCertificateService(&enrollmentDetailStub{detail: detail}, export.NewCertificateRenderer("AulaMarket"), zap.NewNop())
	return NewCertificateHandler(svc)
}

func TestCertificateHandlerVerifyValid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := certificateHandlerWith(completedDetail())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/certificados/enr-1/verificar", nil)
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.Verify(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.CertificateView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Valido)
	assert.Equal(t, "Ana Diaz", envelope.Data.Estudiante)
	assert.Equal(t, "enr-1", envelope.Data.EnrollmentID)
}

func TestCertificateHandlerVerifyIncomplete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	detail := completedDetail()
	detail.Progress = 60
	handler := certificateHandlerWith(detail)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/certificados/enr-1/verificar", nil)
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.Verify(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INCOMPLETE_COURSE")
}

func TestCertificateHandlerVerifyUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := certificateHandlerWith(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/certificados/missing/verificar", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Verify(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCertificateHandlerDownloadServesPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := certificateHandlerWith(completedDetail())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/certificados/enr-1/pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "certificado-enr-1.pdf")
	assert.True(t, len(w.Body.Bytes()) > 0)
}

func TestCertificateHandlerDownloadForeignOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := certificateHandlerWith(completedDetail())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/certificados/enr-1/pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-2", Role: models.RoleStudent})

	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
