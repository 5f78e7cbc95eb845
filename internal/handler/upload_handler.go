package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/service"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// UploadHandler exposes the presigned upload endpoints.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// PresignVideo godoc
// @Summary Request a direct-upload URL for a lesson video
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PresignVideoRequest true "Original filename"
// @Success 200 {object} response.Envelope
// @Router /upload/video/presign [post]
func (h *UploadHandler) PresignVideo(c *gin.Context) {
	var req dto.PresignVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	upload, err := h.uploads.PresignVideo(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, upload, nil)
}

// PresignImage godoc
// @Summary Request a direct-upload URL for a course cover image
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PresignImageRequest true "Original filename"
// @Success 200 {object} response.Envelope
// @Router /upload/imagen/presign [post]
func (h *UploadHandler) PresignImage(c *gin.Context) {
	var req dto.PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	upload, err := h.uploads.PresignImage(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, upload, nil)
}
