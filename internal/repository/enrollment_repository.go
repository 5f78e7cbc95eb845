package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

// EnrollmentRepository handles enrollment and lesson completion rows.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentDetailColumns = `e.id, e.user_id, e.course_id, e.progress_porcentaje, e.completed_at, e.created_at,
        c.titulo AS course_title, c.imagen_url AS course_image_url,
        s.full_name AS student_name, i.full_name AS instructor_name`

// Upsert inserts an enrollment, absorbing duplicates on (user_id,
// course_id). Returns the persisted row either way.
func (r *EnrollmentRepository) Upsert(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	const query = `INSERT INTO enrollments (id, user_id, course_id, progress_porcentaje, created_at)
        VALUES ($1, $2, $3, 0, $4)
        ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, courseID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert enrollment: %w", err)
	}
	return r.FindByUserAndCourse(ctx, userID, courseID)
}

// FindByUserAndCourse returns the enrollment linking a user to a course.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, progress_porcentaje, completed_at, created_at
        FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindDetailByID returns one enrollment with course and people context,
// used by certificate issuance and verification.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        JOIN users s ON s.id = e.user_id
        LEFT JOIN users i ON i.id = c.instructor_id
        WHERE e.id = $1`, enrollmentDetailColumns)
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment detail: %w", err)
	}
	return &detail, nil
}

// ListByUser returns all enrollments for a student, newest first.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        JOIN users s ON s.id = e.user_id
        LEFT JOIN users i ON i.id = c.instructor_id
        WHERE e.user_id = $1 ORDER BY e.created_at DESC`, enrollmentDetailColumns)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// MarkLessonCompleted records one lesson as done for an enrollment.
// Repeating the same lesson is a no-op via the composite primary key.
func (r *EnrollmentRepository) MarkLessonCompleted(ctx context.Context, enrollmentID, lessonID string) error {
	const query = `INSERT INTO completed_lessons (enrollment_id, lesson_id, completed_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (enrollment_id, lesson_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID, lessonID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	return nil
}

// CountCompletedLessons returns how many of the course's current
// lessons an enrollment finished. Completion rows pointing at lessons
// that were since removed from the course do not count.
func (r *EnrollmentRepository) CountCompletedLessons(ctx context.Context, enrollmentID, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM completed_lessons cl
        JOIN lessons l ON l.id = cl.lesson_id
        JOIN modules m ON m.id = l.module_id
        WHERE cl.enrollment_id = $1 AND m.course_id = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, enrollmentID, courseID); err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return total, nil
}

// UpdateProgress stores the recomputed percentage. completedAt is set
// only on the transition to 100 and never cleared afterwards.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, enrollmentID string, progress int, completedAt *time.Time) error {
	if completedAt != nil {
		const query = `UPDATE enrollments SET progress_porcentaje = $2, completed_at = COALESCE(completed_at, $3) WHERE id = $1`
		if _, err := r.db.ExecContext(ctx, query, enrollmentID, progress, *completedAt); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		return nil
	}
	const query = `UPDATE enrollments SET progress_porcentaje = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID, progress); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}
