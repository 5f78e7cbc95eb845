package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/internal/service"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// CourseHandler exposes the catalog and authoring endpoints.
type CourseHandler struct {
	courses *service.CourseService
	cache   *service.CacheService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService, cache *service.CacheService) *CourseHandler {
	return &CourseHandler{courses: courses, cache: cache}
}

func courseFilterFromQuery(c *gin.Context) models.CourseFilter {
	var filter models.CourseFilter
	filter.Categoria = c.Query("categoria")
	filter.Search = strings.TrimSpace(c.Query("buscar"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

type cachedCatalogPage struct {
	Courses    []models.CourseDetail `json:"courses"`
	Pagination *models.Pagination    `json:"pagination"`
}

// ListPublished godoc
// @Summary List published courses
// @Tags Courses
// @Produce json
// @Param categoria query string false "Filter by category"
// @Param buscar query string false "Search title and description"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /cursos [get]
func (h *CourseHandler) ListPublished(c *gin.Context) {
	filter := courseFilterFromQuery(c)

	key := fmt.Sprintf("catalog:%s:%s:%d:%d:%s:%s",
		filter.Categoria, filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
	var cached cachedCatalogPage
	if hit, _ := h.cache.Get(c.Request.Context(), key, &cached); hit {
		response.JSON(c, http.StatusOK, cached.Courses, cached.Pagination)
		return
	}

	courses, pagination, err := h.courses.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Set(c.Request.Context(), key, cachedCatalogPage{Courses: courses, Pagination: pagination}, 0)
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get a published course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.GetPublic(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// ListMine godoc
// @Summary List courses owned by the caller
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /cursos/mis-cursos [get]
func (h *CourseHandler) ListMine(c *gin.Context) {
	courses, pagination, err := h.courses.ListMine(c.Request.Context(), identityFromContext(c), courseFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /cursos [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update an owned course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body dto.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /cursos/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete an owned course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Router /cursos/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Content godoc
// @Summary Get the module and lesson tree of a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /cursos/{id}/contenido [get]
func (h *CourseHandler) Content(c *gin.Context) {
	content, err := h.courses.Content(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content, nil)
}

// CreateModule godoc
// @Summary Add a module to an owned course
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body dto.CreateModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /cursos/{id}/modulos [post]
func (h *CourseHandler) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.courses.CreateModule(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param payload body dto.UpdateModuleRequest true "Module payload"
// @Success 200 {object} response.Envelope
// @Router /modulos/{id} [put]
func (h *CourseHandler) UpdateModule(c *gin.Context) {
	var req dto.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.courses.UpdateModule(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// DeleteModule godoc
// @Summary Delete a module
// @Tags Content
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 204
// @Router /modulos/{id} [delete]
func (h *CourseHandler) DeleteModule(c *gin.Context) {
	if err := h.courses.DeleteModule(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateLesson godoc
// @Summary Add a lesson to a module
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param payload body dto.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /modulos/{id}/lecciones [post]
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.courses.CreateLesson(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param payload body dto.UpdateLessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Router /lecciones/{id} [put]
func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.courses.UpdateLesson(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags Content
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lecciones/{id} [delete]
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	if err := h.courses.DeleteLesson(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
