package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/export"
)

type certificateEnrollmentReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
}

type certificateRenderer interface {
	Render(data export.CertificateData) ([]byte, error)
}

// CertificateService verifies course completion and renders the PDF
// certificate. Certificates are keyed by enrollment ID and exist purely
// as a function of progress; there is no separate issuance step.
type CertificateService struct {
	enrollments certificateEnrollmentReader
	renderer    certificateRenderer
	logger      *zap.Logger
}

// NewCertificateService constructs CertificateService.
func NewCertificateService(enrollments certificateEnrollmentReader, renderer certificateRenderer, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{enrollments: enrollments, renderer: renderer, logger: logger}
}

// Verify returns the public certificate view for an enrollment. An
// enrollment under 100 percent yields an incomplete-course error so the
// verifier can distinguish "not finished" from "does not exist".
func (s *CertificateService) Verify(ctx context.Context, enrollmentID string) (*models.CertificateView, error) {
	detail, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if detail.Progress < 100 {
		return nil, appErrors.ErrIncompleteCourse
	}
	return &models.CertificateView{
		Valido:       true,
		Estudiante:   detail.StudentName,
		Curso:        detail.CourseTitle,
		Instructor:   detail.InstructorName,
		Completado:   detail.CompletedAt,
		EnrollmentID: detail.ID,
	}, nil
}

// Download renders the certificate PDF for the owner of a completed
// enrollment.
func (s *CertificateService) Download(ctx context.Context, caller Identity, enrollmentID string) ([]byte, error) {
	detail, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != caller.UserID && caller.Role != models.RoleAdmin && caller.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "certificate belongs to another student")
	}
	if detail.Progress < 100 {
		return nil, appErrors.ErrIncompleteCourse
	}

	var completed = detail.CreatedAt
	if detail.CompletedAt != nil {
		completed = *detail.CompletedAt
	}
	pdf, err := s.renderer.Render(export.CertificateData{
		CertificateID: detail.ID,
		StudentName:   detail.StudentName,
		CourseTitle:   detail.CourseTitle,
		Instructor:    detail.InstructorName,
		CompletedAt:   completed,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return pdf, nil
}

func (s *CertificateService) find(ctx context.Context, enrollmentID string) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollments.FindDetailByID(ctx, enrollmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}
