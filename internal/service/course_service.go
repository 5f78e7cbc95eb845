package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Review(ctx context.Context, id string, estado models.CourseState) (bool, error)
	ModulesWithLessons(ctx context.Context, courseID string) ([]models.ModuleWithLessons, error)
	CreateModule(ctx context.Context, module *models.Module) error
	FindModule(ctx context.Context, id string) (*models.Module, error)
	UpdateModule(ctx context.Context, module *models.Module) error
	DeleteModule(ctx context.Context, id string) error
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	FindLesson(ctx context.Context, id string) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id string) error
}

type courseEnrollmentReader interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
}

type catalogCache interface {
	InvalidateCatalog(ctx context.Context)
}

// Identity is the authenticated caller as seen by services.
type Identity struct {
	UserID string
	Role   models.UserRole
}

// CourseService orchestrates catalog listing, course authoring and the
// review workflow.
type CourseService struct {
	repo        courseRepository
	enrollments courseEnrollmentReader
	cache       catalogCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, enrollments courseEnrollmentReader, cache catalogCache, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, enrollments: enrollments, cache: cache, validator: validate, logger: logger}
}

// ListPublished serves the public catalog. Only published courses are
// visible regardless of the caller.
func (s *CourseService) ListPublished(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	filter.Estado = models.CourseStatePublished
	return s.list(ctx, filter)
}

// ListMine returns every course owned by the instructor in any state.
func (s *CourseService) ListMine(ctx context.Context, caller Identity, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	filter.InstructorID = caller.UserID
	return s.list(ctx, filter)
}

// ListAll is the unrestricted admin listing.
func (s *CourseService) ListAll(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	return s.list(ctx, filter)
}

func (s *CourseService) list(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetPublic returns a course detail for the catalog. Outside the
// published state the course stays visible to its owner and to admins
// and is indistinguishable from a missing one for everybody else.
func (s *CourseService) GetPublic(ctx context.Context, caller Identity, id string) (*models.CourseDetail, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Estado != models.CourseStatePublished && !canManage(caller, course.InstructorID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

// Create registers a new course owned by the caller. New courses enter
// the review queue directly.
func (s *CourseService) Create(ctx context.Context, caller Identity, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		InstructorID: caller.UserID,
		Titulo:       req.Titulo,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		Precio:       req.Precio,
		ImagenURL:    req.ImagenURL,
		Estado:       models.CourseStatePending,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("instructor_id", caller.UserID))
	return course, nil
}

// Update mutates an owned course. Admins may edit any course.
func (s *CourseService) Update(ctx context.Context, caller Identity, id string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	detail, err := s.ownedCourse(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	course := detail.Course
	course.Titulo = req.Titulo
	course.Descripcion = req.Descripcion
	course.Categoria = req.Categoria
	course.Precio = req.Precio
	course.ImagenURL = req.ImagenURL
	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateCatalog(ctx)
	return &course, nil
}

// Delete removes an owned course and its content tree.
func (s *CourseService) Delete(ctx context.Context, caller Identity, id string) error {
	if _, err := s.ownedCourse(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateCatalog(ctx)
	s.logger.Info("course deleted", zap.String("course_id", id), zap.String("by", caller.UserID))
	return nil
}

// Review resolves a pending course to publicado or rechazado. Reviewing
// a course in any other state is a conflict, not a silent overwrite.
func (s *CourseService) Review(ctx context.Context, id string, req dto.ReviewCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if _, err := s.findCourse(ctx, id); err != nil {
		return nil, err
	}

	transitioned, err := s.repo.Review(ctx, id, models.CourseState(req.Estado))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review course")
	}
	if !transitioned {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "course is not pending review")
	}
	s.invalidateCatalog(ctx)

	return s.findCourse(ctx, id)
}

// Content returns the full module/lesson tree. Students must be
// enrolled; the owner and admins always pass.
func (s *CourseService) Content(ctx context.Context, caller Identity, courseID string) (*dto.CourseContentResponse, error) {
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !s.canReadContent(ctx, caller, course) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment required")
	}

	modules, err := s.repo.ModulesWithLessons(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content")
	}
	return &dto.CourseContentResponse{CourseDetail: *course, Modulos: modules}, nil
}

func (s *CourseService) canReadContent(ctx context.Context, caller Identity, course *models.CourseDetail) bool {
	if caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperAdmin {
		return true
	}
	if caller.UserID == course.InstructorID {
		return true
	}
	if _, err := s.enrollments.FindByUserAndCourse(ctx, caller.UserID, course.ID); err == nil {
		return true
	}
	return false
}

// CreateModule adds a module to an owned course.
func (s *CourseService) CreateModule(ctx context.Context, caller Identity, courseID string, req dto.CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	if _, err := s.ownedCourse(ctx, caller, courseID); err != nil {
		return nil, err
	}

	module := &models.Module{CourseID: courseID, Titulo: req.Titulo, Orden: req.Orden}
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// UpdateModule renames or reorders a module of an owned course.
func (s *CourseService) UpdateModule(ctx context.Context, caller Identity, moduleID string, req dto.UpdateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	module, err := s.ownedModule(ctx, caller, moduleID)
	if err != nil {
		return nil, err
	}

	module.Titulo = req.Titulo
	module.Orden = req.Orden
	if err := s.repo.UpdateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}
	return module, nil
}

// DeleteModule removes a module and its lessons from an owned course.
func (s *CourseService) DeleteModule(ctx context.Context, caller Identity, moduleID string) error {
	if _, err := s.ownedModule(ctx, caller, moduleID); err != nil {
		return err
	}
	if err := s.repo.DeleteModule(ctx, moduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete module")
	}
	return nil
}

// CreateLesson adds a lesson to a module of an owned course.
func (s *CourseService) CreateLesson(ctx context.Context, caller Identity, moduleID string, req dto.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if _, err := s.ownedModule(ctx, caller, moduleID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		ModuleID:  moduleID,
		Titulo:    req.Titulo,
		Tipo:      models.LessonType(req.Tipo),
		Contenido: req.Contenido,
		VideoURL:  req.VideoURL,
		Orden:     req.Orden,
	}
	if err := s.repo.CreateLesson(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	return lesson, nil
}

// UpdateLesson mutates a lesson of an owned course.
func (s *CourseService) UpdateLesson(ctx context.Context, caller Identity, lessonID string, req dto.UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	lesson, err := s.findLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedModule(ctx, caller, lesson.ModuleID); err != nil {
		return nil, err
	}

	lesson.Titulo = req.Titulo
	lesson.Tipo = models.LessonType(req.Tipo)
	lesson.Contenido = req.Contenido
	lesson.VideoURL = req.VideoURL
	lesson.Orden = req.Orden
	if err := s.repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return lesson, nil
}

// DeleteLesson removes a lesson from an owned course.
func (s *CourseService) DeleteLesson(ctx context.Context, caller Identity, lessonID string) error {
	lesson, err := s.findLesson(ctx, lessonID)
	if err != nil {
		return err
	}
	if _, err := s.ownedModule(ctx, caller, lesson.ModuleID); err != nil {
		return err
	}
	if err := s.repo.DeleteLesson(ctx, lessonID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	return nil
}

func (s *CourseService) findCourse(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) findLesson(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.repo.FindLesson(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// ownedCourse loads a course and enforces ownership. Admin roles may
// act on any course.
func (s *CourseService) ownedCourse(ctx context.Context, caller Identity, id string) (*models.CourseDetail, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperAdmin {
		return course, nil
	}
	if course.InstructorID != caller.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("course %s is not owned by caller", id))
	}
	return course, nil
}

func canManage(caller Identity, instructorID string) bool {
	if caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperAdmin {
		return true
	}
	return caller.UserID != "" && caller.UserID == instructorID
}

func (s *CourseService) ownedModule(ctx context.Context, caller Identity, moduleID string) (*models.Module, error) {
	module, err := s.repo.FindModule(ctx, moduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	if _, err := s.ownedCourse(ctx, caller, module.CourseID); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCatalog(ctx)
	}
}
