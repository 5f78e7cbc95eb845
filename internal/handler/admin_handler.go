package handler

import (
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

// AdminHandler exposes the administration panel endpoints.
type AdminHandler struct {
	admin    *service.AdminService
	courses  *service.CourseService
	settings *service.SettingsService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *service.AdminService, courses *service.CourseService, settings *service.SettingsService) *AdminHandler {
	return &AdminHandler{admin: admin, courses: courses, settings: settings}
}

// Stats godoc
// @Summary Platform dashboard counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/estadisticas [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Earnings godoc
// @Summary Instructor earnings for a month
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param mes query string false "Month in YYYY-MM form, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /admin/ganancias [get]
func (h *AdminHandler) Earnings(c *gin.Context) {
	earnings, err := h.admin.InstructorEarnings(c.Request.Context(), identityFromContext(c), c.Query("mes"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, earnings, nil)
}

// ListUsers godoc
// @Summary List all accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param buscar query string false "Search email and name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/usuarios [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter models.UserFilter
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	if active := c.Query("active"); active == "true" || active == "false" {
		v := active == "true"
		filter.Active = &v
	}
	filter.Search = strings.TrimSpace(c.Query("buscar"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	users, pagination, err := h.admin.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// ChangeRole godoc
// @Summary Force-change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body dto.ChangeRoleRequest true "New role"
// @Success 200 {object} response.Envelope
// @Router /admin/usuarios/{id}/rol [put]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.admin.ChangeRole(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// DeleteUser godoc
// @Summary Delete an account
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Router /admin/usuarios/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCourses godoc
// @Summary List courses in any state
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param estado query string false "Filter by state"
// @Success 200 {object} response.Envelope
// @Router /admin/cursos [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	filter := courseFilterFromQuery(c)
	filter.Estado = models.CourseState(c.Query("estado"))
	courses, pagination, err := h.courses.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// ReviewCourse godoc
// @Summary Resolve a pending course review
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body dto.ReviewCourseRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/cursos/{id}/revisar [put]
func (h *AdminHandler) ReviewCourse(c *gin.Context) {
	var req dto.ReviewCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// DeleteCourse godoc
// @Summary Force-delete any course
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Router /admin/cursos/{id} [delete]
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetMaintenance godoc
// @Summary Read the maintenance flag
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/maintenance [get]
func (h *AdminHandler) GetMaintenance(c *gin.Context) {
	enabled, err := h.settings.MaintenanceEnabled(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MaintenanceResponse{Enabled: enabled}, nil)
}

// SetMaintenance godoc
// @Summary Toggle the maintenance flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MaintenanceRequest true "Flag value"
// @Success 200 {object} response.Envelope
// @Router /admin/maintenance [put]
func (h *AdminHandler) SetMaintenance(c *gin.Context) {
	var req dto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.settings.SetMaintenance(c.Request.Context(), identityFromContext(c), req.Enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MaintenanceResponse{Enabled: req.Enabled}, nil)
}
