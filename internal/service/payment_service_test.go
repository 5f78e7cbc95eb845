package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/gateway"
	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type mockTransactionRepo struct {
	byReference map[string]*models.Transaction
	created     []*models.Transaction
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	if m.byReference == nil {
		m.byReference = make(map[string]*models.Transaction)
	}
	tx.ID = "tx-1"
	m.byReference[tx.Reference] = tx
	m.created = append(m.created, tx)
	return nil
}

func (m *mockTransactionRepo) FindByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	tx, ok := m.byReference[reference]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return tx, nil
}

func (m *mockTransactionRepo) MarkFinal(ctx context.Context, reference string, status models.TransactionStatus) (bool, error) {
	tx, ok := m.byReference[reference]
	if !ok || tx.Status != models.TransactionPending {
		return false, nil
	}
	tx.Status = status
	return true, nil
}

type mockEnroller struct {
	upserts  []string
	enrolled bool
}

func (m *mockEnroller) Upsert(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	m.upserts = append(m.upserts, userID+":"+courseID)
	return &models.Enrollment{ID: "enr-1", UserID: userID, CourseID: courseID}, nil
}

func (m *mockEnroller) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if !m.enrolled {
		return nil, sql.ErrNoRows
	}
	return &models.Enrollment{ID: "enr-1", UserID: userID, CourseID: courseID}, nil
}

type mockGateway struct {
	orderErr error
	orders   int
}

func (m *mockGateway) IntegrityToken(reference string, amount float64) string {
	return "sig-" + reference
}

func (m *mockGateway) CreateOrder(ctx context.Context, reference string, amount float64, currency, description string) (*gateway.CheckoutSession, error) {
	m.orders++
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return &gateway.CheckoutSession{CheckoutURL: "https://checkout.example.com/s/" + reference}, nil
}

func paidCourseReader() *mockCourseReader {
	course := publishedCourse()
	course.Precio = 49.99
	course.Titulo = "Go desde cero"
	return &mockCourseReader{course: course}
}

func newPaymentService(txs *mockTransactionRepo, courses *mockCourseReader, enroller *mockEnroller, gw *mockGateway) *PaymentService {
	return NewPaymentService(txs, courses, enroller, gw, "COP", nil, zap.NewNop())
}

func validCourseID() string { return "3e0aa6f0-0c8f-4b06-9e6d-0d3de76c2b11" }

func TestPaymentServiceInitiateCreatesPendingTransaction(t *testing.T) {
	txs := &mockTransactionRepo{}
	courses := paidCourseReader()
	courses.course.ID = validCourseID()
	gw := &mockGateway{}
	svc := newPaymentService(txs, courses, &mockEnroller{}, gw)

	resp, err := svc.Initiate(context.Background(), Identity{UserID: "user-1", Role: models.RoleStudent}, dto.InitiatePaymentRequest{CourseID: validCourseID()})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, 49.99, resp.Amount)
	assert.Equal(t, "sig-"+resp.Reference, resp.IntegrityToken)
	assert.Contains(t, resp.CheckoutURL, resp.Reference)

	require.Len(t, txs.created, 1)
	assert.Equal(t, models.TransactionPending, txs.created[0].Status)
}

func TestPaymentServiceInitiateFreeCourseEnrollsDirectly(t *testing.T) {
	courses := paidCourseReader()
	courses.course.ID = validCourseID()
	courses.course.Precio = 0
	enroller := &mockEnroller{}
	gw := &mockGateway{}
	svc := newPaymentService(&mockTransactionRepo{}, courses, enroller, gw)

	resp, err := svc.Initiate(context.Background(), Identity{UserID: "user-1", Role: models.RoleStudent}, dto.InitiatePaymentRequest{CourseID: validCourseID()})
	require.NoError(t, err)
	assert.Empty(t, resp.Reference)
	assert.Len(t, enroller.upserts, 1)
	assert.Zero(t, gw.orders)
}

func TestPaymentServiceInitiateRejectsAlreadyEnrolled(t *testing.T) {
	courses := paidCourseReader()
	courses.course.ID = validCourseID()
	gw := &mockGateway{}
	svc := newPaymentService(&mockTransactionRepo{}, courses, &mockEnroller{enrolled: true}, gw)

	_, err := svc.Initiate(context.Background(), Identity{UserID: "user-1", Role: models.RoleStudent}, dto.InitiatePaymentRequest{CourseID: validCourseID()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Zero(t, gw.orders)
}

func TestPaymentServiceInitiateHidesUnpublishedCourse(t *testing.T) {
	courses := paidCourseReader()
	courses.course.ID = validCourseID()
	courses.course.Estado = models.CourseStateDraft
	svc := newPaymentService(&mockTransactionRepo{}, courses, &mockEnroller{}, &mockGateway{})

	_, err := svc.Initiate(context.Background(), Identity{UserID: "user-1"}, dto.InitiatePaymentRequest{CourseID: validCourseID()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceConfirmPaidEnrollsOnce(t *testing.T) {
	txs := &mockTransactionRepo{byReference: map[string]*models.Transaction{
		"ORD-1": {ID: "tx-1", Reference: "ORD-1", UserID: "user-1", CourseID: "course-1", Amount: 49.99, Status: models.TransactionPending},
	}}
	enroller := &mockEnroller{}
	svc := newPaymentService(txs, paidCourseReader(), enroller, &mockGateway{})

	req := dto.PaymentWebhookRequest{Reference: "ORD-1", Status: "pagado", Amount: 49.99, IntegrityToken: "sig-ORD-1"}
	require.NoError(t, svc.Confirm(context.Background(), req))
	assert.Len(t, enroller.upserts, 1)
	assert.Equal(t, models.TransactionPaid, txs.byReference["ORD-1"].Status)

	// replayed delivery acknowledges without a second enrollment
	require.NoError(t, svc.Confirm(context.Background(), req))
	assert.Len(t, enroller.upserts, 1)
}

func TestPaymentServiceConfirmRejectsBadSignature(t *testing.T) {
	txs := &mockTransactionRepo{byReference: map[string]*models.Transaction{
		"ORD-1": {Reference: "ORD-1", UserID: "user-1", CourseID: "course-1", Amount: 49.99, Status: models.TransactionPending},
	}}
	enroller := &mockEnroller{}
	svc := newPaymentService(txs, paidCourseReader(), enroller, &mockGateway{})

	err := svc.Confirm(context.Background(), dto.PaymentWebhookRequest{
		Reference: "ORD-1", Status: "pagado", Amount: 49.99, IntegrityToken: "forged",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	assert.Empty(t, enroller.upserts)
	assert.Equal(t, models.TransactionPending, txs.byReference["ORD-1"].Status)
}

func TestPaymentServiceConfirmFailedDoesNotEnroll(t *testing.T) {
	txs := &mockTransactionRepo{byReference: map[string]*models.Transaction{
		"ORD-1": {Reference: "ORD-1", UserID: "user-1", CourseID: "course-1", Amount: 49.99, Status: models.TransactionPending},
	}}
	enroller := &mockEnroller{}
	svc := newPaymentService(txs, paidCourseReader(), enroller, &mockGateway{})

	require.NoError(t, svc.Confirm(context.Background(), dto.PaymentWebhookRequest{
		Reference: "ORD-1", Status: "fallido", Amount: 49.99, IntegrityToken: "sig-ORD-1",
	}))
	assert.Empty(t, enroller.upserts)
	assert.Equal(t, models.TransactionFailed, txs.byReference["ORD-1"].Status)
}

func TestPaymentServiceConfirmUnknownReference(t *testing.T) {
	svc := newPaymentService(&mockTransactionRepo{}, paidCourseReader(), &mockEnroller{}, &mockGateway{})

	err := svc.Confirm(context.Background(), dto.PaymentWebhookRequest{
		Reference: "ORD-missing", Status: "pagado", IntegrityToken: "sig-ORD-missing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
