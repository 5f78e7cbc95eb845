package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryUpsertReturnsExistingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments (id, user_id, course_id, progress_porcentaje, created_at)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "progress_porcentaje", "completed_at", "created_at"}).
		AddRow("enr-1", "user-1", "course-1", 40, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course_id, progress_porcentaje, completed_at, created_at")).
		WithArgs("user-1", "course-1").
		WillReturnRows(rows)

	enrollment, err := repo.Upsert(context.Background(), "user-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, "enr-1", enrollment.ID)
	require.Equal(t, 40, enrollment.Progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryMarkLessonCompletedIsIdempotent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO completed_lessons (enrollment_id, lesson_id, completed_at)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkLessonCompleted(context.Background(), "enr-1", "lesson-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountCompletedLessonsScopedToCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	// The count joins through lessons and modules so completion rows
	// for lessons removed from the course are left out.
	rows := sqlmock.NewRows([]string{"count"}).AddRow(7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM completed_lessons cl")).
		WithArgs("enr-1", "course-1").
		WillReturnRows(rows)

	total, err := repo.CountCompletedLessons(context.Background(), "enr-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateProgressKeepsFirstCompletion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	completed := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET progress_porcentaje = $2, completed_at = COALESCE(completed_at, $3) WHERE id = $1")).
		WithArgs("enr-1", 100, completed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProgress(context.Background(), "enr-1", 100, &completed)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindDetailByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT e.id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetailByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
