package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/gateway"
	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type transactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByReference(ctx context.Context, reference string) (*models.Transaction, error)
	MarkFinal(ctx context.Context, reference string, status models.TransactionStatus) (bool, error)
}

type paymentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

type paymentEnroller interface {
	Upsert(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
}

type paymentGateway interface {
	IntegrityToken(reference string, amount float64) string
	CreateOrder(ctx context.Context, reference string, amount float64, currency, description string) (*gateway.CheckoutSession, error)
}

// PaymentService drives the checkout and confirmation flow. The gateway
// callback is at-least-once; everything here tolerates replays.
type PaymentService struct {
	transactions transactionRepository
	courses      paymentCourseReader
	enrollments  paymentEnroller
	gateway      paymentGateway
	currency     string
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(transactions transactionRepository, courses paymentCourseReader, enrollments paymentEnroller, gw paymentGateway, currency string, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		transactions: transactions,
		courses:      courses,
		enrollments:  enrollments,
		gateway:      gw,
		currency:     currency,
		validator:    validate,
		logger:       logger,
	}
}

// Initiate creates a pending transaction for a published course and
// registers the order with the gateway. A free course enrolls the buyer
// directly without touching the gateway.
func (s *PaymentService) Initiate(ctx context.Context, caller Identity, req dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.Estado != models.CourseStatePublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	if _, err := s.enrollments.FindByUserAndCourse(ctx, caller.UserID, course.ID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	if course.Precio == 0 {
		if _, err := s.enrollments.Upsert(ctx, caller.UserID, course.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
		}
		return &dto.InitiatePaymentResponse{Amount: 0, Currency: s.currency}, nil
	}

	reference := fmt.Sprintf("ORD-%s", uuid.NewString())
	tx := &models.Transaction{
		Reference: reference,
		UserID:    caller.UserID,
		CourseID:  course.ID,
		Amount:    course.Precio,
		Currency:  s.currency,
		Status:    models.TransactionPending,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create transaction")
	}

	session, err := s.gateway.CreateOrder(ctx, reference, course.Precio, s.currency, course.Titulo)
	if err != nil {
		// The pending row stays; the buyer retries with a fresh order.
		s.logger.Warn("gateway order failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}

	return &dto.InitiatePaymentResponse{
		Reference:      reference,
		Amount:         course.Precio,
		Currency:       s.currency,
		IntegrityToken: s.gateway.IntegrityToken(reference, course.Precio),
		CheckoutURL:    session.CheckoutURL,
	}, nil
}

// Confirm processes the gateway callback. The signature is verified
// against the stored amount, then the pending row transitions at most
// once; a paid transaction enrolls the buyer. Replays of an already
// final transaction acknowledge without side effects.
func (s *PaymentService) Confirm(ctx context.Context, req dto.PaymentWebhookRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid webhook payload")
	}

	tx, err := s.transactions.FindByReference(ctx, req.Reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "transaction not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transaction")
	}

	expected := s.gateway.IntegrityToken(tx.Reference, tx.Amount)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.IntegrityToken)) != 1 {
		s.logger.Warn("webhook signature mismatch", zap.String("reference", req.Reference))
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid signature")
	}

	status := models.TransactionStatus(req.Status)
	if !status.Final() {
		return appErrors.Clone(appErrors.ErrValidation, "status is not final")
	}

	transitioned, err := s.transactions.MarkFinal(ctx, tx.Reference, status)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize transaction")
	}
	if !transitioned {
		s.logger.Info("webhook replay ignored", zap.String("reference", tx.Reference), zap.String("status", string(tx.Status)))
		return nil
	}

	if status == models.TransactionPaid {
		if _, err := s.enrollments.Upsert(ctx, tx.UserID, tx.CourseID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll buyer")
		}
		s.logger.Info("payment confirmed",
			zap.String("reference", tx.Reference),
			zap.String("user_id", tx.UserID),
			zap.String("course_id", tx.CourseID))
	}
	return nil
}
