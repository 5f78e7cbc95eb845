package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type mockCourseRepo struct {
	courses      map[string]*models.CourseDetail
	modules      map[string]*models.Module
	lessons      map[string]*models.Lesson
	reviewResult bool
	reviewed     models.CourseState
	created      *models.Course
	deleted      []string
	tree         []models.ModuleWithLessons
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	var out []models.CourseDetail
	for _, c := range m.courses {
		if filter.Estado != "" && c.Estado != filter.Estado {
			continue
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-new"
	m.created = course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if detail, ok := m.courses[course.ID]; ok {
		detail.Course = *course
	}
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepo) Review(ctx context.Context, id string, estado models.CourseState) (bool, error) {
	if m.reviewResult {
		m.reviewed = estado
		if detail, ok := m.courses[id]; ok {
			detail.Estado = estado
		}
	}
	return m.reviewResult, nil
}

func (m *mockCourseRepo) ModulesWithLessons(ctx context.Context, courseID string) ([]models.ModuleWithLessons, error) {
	return m.tree, nil
}

func (m *mockCourseRepo) CreateModule(ctx context.Context, module *models.Module) error {
	module.ID = "module-new"
	return nil
}

func (m *mockCourseRepo) FindModule(ctx context.Context, id string) (*models.Module, error) {
	module, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return module, nil
}

func (m *mockCourseRepo) UpdateModule(ctx context.Context, module *models.Module) error { return nil }
func (m *mockCourseRepo) DeleteModule(ctx context.Context, id string) error             { return nil }

func (m *mockCourseRepo) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	lesson.ID = "lesson-new"
	return nil
}

func (m *mockCourseRepo) FindLesson(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, ok := m.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return lesson, nil
}

func (m *mockCourseRepo) UpdateLesson(ctx context.Context, lesson *models.Lesson) error { return nil }
func (m *mockCourseRepo) DeleteLesson(ctx context.Context, id string) error             { return nil }

type mockCourseEnrollments struct {
	enrolled bool
}

func (m *mockCourseEnrollments) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if !m.enrolled {
		return nil, sql.ErrNoRows
	}
	return &models.Enrollment{ID: "enr-1", UserID: userID, CourseID: courseID}, nil
}

type recordingCache struct {
	invalidations int
}

func (c *recordingCache) InvalidateCatalog(ctx context.Context) { c.invalidations++ }

func instructorIdentity() Identity { return Identity{UserID: "inst-1", Role: models.RoleInstructor} }
func studentIdentity() Identity    { return Identity{UserID: "user-1", Role: models.RoleStudent} }

func newCourseService(repo *mockCourseRepo, enrollments *mockCourseEnrollments, cache *recordingCache) *CourseService {
	return NewCourseService(repo, enrollments, cache, nil, zap.NewNop())
}

func pendingCourse(id, instructorID string) *models.CourseDetail {
	return &models.CourseDetail{Course: models.Course{
		ID:           id,
		InstructorID: instructorID,
		Titulo:       "Go desde cero",
		Descripcion:  "Curso introductorio de Go",
		Categoria:    "programacion",
		Precio:       29.99,
		Estado:       models.CourseStatePending,
	}}
}

func TestCourseServiceCreateEntersReviewQueue(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{}}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	course, err := svc.Create(context.Background(), instructorIdentity(), dto.CreateCourseRequest{
		Titulo:      "Go desde cero",
		Descripcion: "Curso introductorio de Go",
		Categoria:   "programacion",
		Precio:      29.99,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatePending, course.Estado)
	assert.Equal(t, "inst-1", course.InstructorID)
}

func TestCourseServiceUpdateEnforcesOwnership(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{
		"course-1": pendingCourse("course-1", "inst-1"),
	}}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	req := dto.UpdateCourseRequest{Titulo: "Go avanzado", Descripcion: "Curso avanzado de Go", Categoria: "programacion", Precio: 59.99}

	_, err := svc.Update(context.Background(), Identity{UserID: "inst-2", Role: models.RoleInstructor}, "course-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	course, err := svc.Update(context.Background(), instructorIdentity(), "course-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Go avanzado", course.Titulo)
}

func TestCourseServiceAdminMayEditAnyCourse(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{
		"course-1": pendingCourse("course-1", "inst-1"),
	}}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	_, err := svc.Update(context.Background(), Identity{UserID: "admin-1", Role: models.RoleAdmin}, "course-1",
		dto.UpdateCourseRequest{Titulo: "Go avanzado", Descripcion: "Curso avanzado de Go", Categoria: "programacion", Precio: 59.99})
	require.NoError(t, err)
}

func TestCourseServiceReviewPublishesPendingCourse(t *testing.T) {
	cache := &recordingCache{}
	repo := &mockCourseRepo{
		courses:      map[string]*models.CourseDetail{"course-1": pendingCourse("course-1", "inst-1")},
		reviewResult: true,
	}
	svc := newCourseService(repo, &mockCourseEnrollments{}, cache)

	course, err := svc.Review(context.Background(), "course-1", dto.ReviewCourseRequest{Estado: "publicado"})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatePublished, course.Estado)
	assert.Equal(t, 1, cache.invalidations)
}

func TestCourseServiceReviewRejectsNonPendingCourse(t *testing.T) {
	published := pendingCourse("course-1", "inst-1")
	published.Estado = models.CourseStatePublished
	repo := &mockCourseRepo{
		courses:      map[string]*models.CourseDetail{"course-1": published},
		reviewResult: false,
	}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	_, err := svc.Review(context.Background(), "course-1", dto.ReviewCourseRequest{Estado: "rechazado"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetPublicHidesUnpublished(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{
		"course-1": pendingCourse("course-1", "inst-1"),
	}}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	_, err := svc.GetPublic(context.Background(), Identity{UserID: "student-1", Role: models.RoleStudent}, "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetPublicOwnerSeesPending(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{
		"course-1": pendingCourse("course-1", "inst-1"),
	}}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	course, err := svc.GetPublic(context.Background(), Identity{UserID: "inst-1", Role: models.RoleInstructor}, "course-1")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatePending, course.Estado)

	_, err = svc.GetPublic(context.Background(), Identity{}, "course-1")
	require.Error(t, err)
}

func TestCourseServiceContentRequiresEnrollment(t *testing.T) {
	published := pendingCourse("course-1", "inst-1")
	published.Estado = models.CourseStatePublished
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{"course-1": published}}

	svc := newCourseService(repo, &mockCourseEnrollments{enrolled: false}, &recordingCache{})
	_, err := svc.Content(context.Background(), studentIdentity(), "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	svc = newCourseService(repo, &mockCourseEnrollments{enrolled: true}, &recordingCache{})
	content, err := svc.Content(context.Background(), studentIdentity(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, "course-1", content.ID)
}

func TestCourseServiceContentOwnerAndAdminBypassEnrollment(t *testing.T) {
	published := pendingCourse("course-1", "inst-1")
	published.Estado = models.CourseStatePublished
	repo := &mockCourseRepo{courses: map[string]*models.CourseDetail{"course-1": published}}
	svc := newCourseService(repo, &mockCourseEnrollments{enrolled: false}, &recordingCache{})

	_, err := svc.Content(context.Background(), instructorIdentity(), "course-1")
	require.NoError(t, err)

	_, err = svc.Content(context.Background(), Identity{UserID: "admin-1", Role: models.RoleAdmin}, "course-1")
	require.NoError(t, err)
}

func TestCourseServiceModuleOwnershipChecksCourse(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]*models.CourseDetail{"course-1": pendingCourse("course-1", "inst-1")},
		modules: map[string]*models.Module{"mod-1": {ID: "mod-1", CourseID: "course-1", Titulo: "Intro", Orden: 1}},
	}
	svc := newCourseService(repo, &mockCourseEnrollments{}, &recordingCache{})

	_, err := svc.UpdateModule(context.Background(), Identity{UserID: "inst-2", Role: models.RoleInstructor}, "mod-1",
		dto.UpdateModuleRequest{Titulo: "Intro renovada", Orden: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	module, err := svc.UpdateModule(context.Background(), instructorIdentity(), "mod-1",
		dto.UpdateModuleRequest{Titulo: "Intro renovada", Orden: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, module.Orden)
}
