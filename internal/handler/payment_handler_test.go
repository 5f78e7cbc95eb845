package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/gateway"
	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/internal/service"
)

type paymentTxStub struct {
	tx        *models.Transaction
	finalized bool
}

func (s *paymentTxStub) Create(ctx context.Context, tx *models.Transaction) error { return nil }

func (s *paymentTxStub) FindByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	if s.tx == nil || s.tx.Reference != reference {
		return nil, sql.ErrNoRows
	}
	return s.tx, nil
}

func (s *paymentTxStub) MarkFinal(ctx context.Context, reference string, status models.TransactionStatus) (bool, error) {
	if s.tx.Status != models.TransactionPending {
		return false, nil
	}
	s.tx.Status = status
	s.finalized = true
	return true, nil
}

type paymentCourseStub struct{}

func (paymentCourseStub) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	return nil, sql.ErrNoRows
}

type paymentEnrollerStub struct {
	enrolled int
}

func (s *paymentEnrollerStub) Upsert(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	s.enrolled++
	return &models.Enrollment{ID: "enr-1", UserID: userID, CourseID: courseID}, nil
}

func (s *paymentEnrollerStub) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	return nil, sql.ErrNoRows
}

type paymentGatewayStub struct{}

func (paymentGatewayStub) IntegrityToken(reference string, amount float64) string {
	return "sig-" + reference
}

func (paymentGatewayStub) CreateOrder(ctx context.Context, reference string, amount float64, currency, description string) (*gateway.CheckoutSession, error) {
	return &gateway.CheckoutSession{CheckoutURL: "https://checkout.example.com/s/" + reference}, nil
}

func paymentHandlerWith(tx *models.Transaction) (*PaymentHandler, *paymentTxStub, *paymentEnrollerStub) {
	txs := &paymentTxStub{tx: tx}
	enroller := &paymentEnrollerStub{}
	svc := service.NewPaymentService(txs, paymentCourseStub{}, enroller, paymentGatewayStub{}, "COP", nil, zap.NewNop())
	return NewPaymentHandler(svc, service.NewMetricsService()), txs, enroller
}

func postJSON(handler gin.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler(c)
	return w
}

func TestPaymentHandlerConfirmAcknowledgesPaid(t *testing.T) {
	handler, txs, enroller := paymentHandlerWith(&models.Transaction{
		Reference: "ORD-1", UserID: "user-1", CourseID: "course-1", Amount: 49.99, Status: models.TransactionPending,
	})

	w := postJSON(handler.Confirm, "/pagos/confirmar", dto.PaymentWebhookRequest{
		Reference: "ORD-1", Status: "pagado", Amount: 49.99, IntegrityToken: "sig-ORD-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, txs.finalized)
	assert.Equal(t, 1, enroller.enrolled)
}

func TestPaymentHandlerConfirmRejectsForgedSignature(t *testing.T) {
	handler, _, enroller := paymentHandlerWith(&models.Transaction{
		Reference: "ORD-1", UserID: "user-1", CourseID: "course-1", Amount: 49.99, Status: models.TransactionPending,
	})

	w := postJSON(handler.Confirm, "/pagos/confirmar", dto.PaymentWebhookRequest{
		Reference: "ORD-1", Status: "pagado", Amount: 49.99, IntegrityToken: "forged",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, enroller.enrolled)
}

func TestPaymentHandlerConfirmRejectsMalformedBody(t *testing.T) {
	handler, _, _ := paymentHandlerWith(&models.Transaction{Reference: "ORD-1", Status: models.TransactionPending})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/pagos/confirmar", bytes.NewReader([]byte("not-json")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Confirm(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandlerConfirmUnknownReference(t *testing.T) {
	handler, _, _ := paymentHandlerWith(&models.Transaction{Reference: "ORD-1", Status: models.TransactionPending})

	w := postJSON(handler.Confirm, "/pagos/confirmar", dto.PaymentWebhookRequest{
		Reference: "ORD-ghost", Status: "pagado", Amount: 10, IntegrityToken: "sig-ORD-ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
