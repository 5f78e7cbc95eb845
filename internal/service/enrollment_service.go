package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type enrollmentRepository interface {
	Upsert(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	MarkLessonCompleted(ctx context.Context, enrollmentID, lessonID string) error
	CountCompletedLessons(ctx context.Context, enrollmentID, courseID string) (int, error)
	UpdateProgress(ctx context.Context, enrollmentID string, progress int, completedAt *time.Time) error
}

type enrollmentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
	LessonBelongsToCourse(ctx context.Context, lessonID, courseID string) (bool, error)
}

// EnrollmentService handles enrollment and lesson progress tracking.
type EnrollmentService struct {
	repo    enrollmentRepository
	courses enrollmentCourseReader
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, logger: logger}
}

// Enroll registers the caller on a published course. Enrolling twice
// returns the existing row instead of failing. Admin callers may enroll
// regardless of course state.
func (s *EnrollmentService) Enroll(ctx context.Context, caller Identity, courseID string) (*models.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	admin := caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperAdmin
	if course.Estado != models.CourseStatePublished && !admin {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	enrollment, err := s.repo.Upsert(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	return enrollment, nil
}

// Grant enrolls a named user on a course on behalf of an
// administrator. Course state is not checked so support staff can
// repair accounts before a course is published.
func (s *EnrollmentService) Grant(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	enrollment, err := s.repo.Upsert(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	s.logger.Info("enrollment granted", zap.String("user_id", userID), zap.String("course_id", courseID))
	return enrollment, nil
}

// ListMine returns the caller's enrollments.
func (s *EnrollmentService) ListMine(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// ListCompleted returns the caller's finished enrollments, each of
// which backs a downloadable certificate.
func (s *EnrollmentService) ListCompleted(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	completed := make([]models.EnrollmentDetail, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Progress >= 100 {
			completed = append(completed, e)
		}
	}
	return completed, nil
}

// MarkLessonComplete records lesson completion and recomputes progress
// from the persisted completion set. Marking the same lesson again does
// not move the percentage.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment required")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	belongs, err := s.courses.LessonBelongsToCourse(ctx, lessonID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson")
	}
	if !belongs {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found in course")
	}

	if err := s.repo.MarkLessonCompleted(ctx, enrollment.ID, lessonID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}

	total, err := s.courses.CountLessons(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}
	completed, err := s.repo.CountCompletedLessons(ctx, enrollment.ID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completions")
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(completed) / float64(total) * 100))
	}
	var completedAt *time.Time
	if progress >= 100 {
		progress = 100
		now := time.Now().UTC()
		completedAt = &now
	}
	if err := s.repo.UpdateProgress(ctx, enrollment.ID, progress, completedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}

	enrollment.Progress = progress
	if completedAt != nil && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = completedAt
	}
	s.logger.Debug("lesson completed",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("lesson_id", lessonID),
		zap.Int("progress", progress))
	return enrollment, nil
}
