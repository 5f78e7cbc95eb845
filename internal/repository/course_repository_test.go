package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "instructor_id", "titulo", "descripcion", "categoria", "precio", "imagen_url", "estado", "created_at", "updated_at", "instructor_name"})
}

func TestCourseRepositoryListFiltersByEstado(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseRows().
		AddRow("course-1", "inst-1", "Go desde cero", "Curso introductorio", "programacion", 29.99, "", models.CourseStatePublished, time.Now(), time.Now(), "Ana Diaz")
	mock.ExpectQuery("SELECT c.id").
		WithArgs(models.CourseStatePublished).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(models.CourseStatePublished).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Estado: models.CourseStatePublished})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, courses, 1)
	require.Equal(t, "Ana Diaz", courses[0].InstructorName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReviewOnlyTransitionsPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	transitioned, err := repo.Review(context.Background(), "course-1", models.CourseStatePublished)
	require.NoError(t, err)
	require.False(t, transitioned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryModulesWithLessonsBuildsTree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	moduleRows := sqlmock.NewRows([]string{"id", "course_id", "titulo", "orden"}).
		AddRow("mod-1", "course-1", "Introduccion", 1).
		AddRow("mod-2", "course-1", "Avanzado", 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, titulo, orden FROM modules WHERE course_id = $1 ORDER BY orden ASC")).
		WithArgs("course-1").
		WillReturnRows(moduleRows)

	lessonRows := sqlmock.NewRows([]string{"id", "module_id", "titulo", "tipo", "contenido", "video_url", "orden"}).
		AddRow("les-1", "mod-1", "Bienvenida", models.LessonTypeVideo, "", "https://cdn.example.com/v/1", 1).
		AddRow("les-2", "mod-1", "Setup", models.LessonTypeText, "Instala las herramientas", "", 2)
	mock.ExpectQuery("SELECT l.id").
		WithArgs("course-1").
		WillReturnRows(lessonRows)

	tree, err := repo.ModulesWithLessons(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Lessons, 2)
	require.Empty(t, tree[1].Lessons)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCountLessons(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons l JOIN modules m ON m.id = l.module_id WHERE m.course_id = $1")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	total, err := repo.CountLessons(context.Background(), "course-1")
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
