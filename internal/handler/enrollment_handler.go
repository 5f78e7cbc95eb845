package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/service"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// EnrollmentHandler exposes enrollment and progress endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// Enroll godoc
// @Summary Enroll the caller in a published course
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Router /cursos/{id}/inscripcion [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	caller := identityFromContext(c)
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEnrollment()
	response.Created(c, enrollment)
}

// Grant godoc
// @Summary Enroll a named user in a course (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body dto.GrantEnrollmentRequest true "Target user"
// @Success 201 {object} response.Envelope
// @Router /admin/cursos/{id}/inscripciones [post]
func (h *EnrollmentHandler) Grant(c *gin.Context) {
	var req dto.GrantEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Grant(c.Request.Context(), req.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEnrollment()
	response.Created(c, enrollment)
}

// ListMine godoc
// @Summary List the caller's enrollments
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /usuario/inscripciones [get]
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	caller := identityFromContext(c)
	enrollments, err := h.enrollments.ListMine(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// ListCertificates godoc
// @Summary List the caller's completed courses
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /usuario/certificados [get]
func (h *EnrollmentHandler) ListCertificates(c *gin.Context) {
	caller := identityFromContext(c)
	enrollments, err := h.enrollments.ListCompleted(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// CompleteLesson godoc
// @Summary Mark a lesson as completed
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param leccionId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /cursos/{id}/lecciones/{leccionId}/completar [post]
func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	caller := identityFromContext(c)
	enrollment, err := h.enrollments.MarkLessonComplete(c.Request.Context(), caller.UserID, c.Param("id"), c.Param("leccionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
