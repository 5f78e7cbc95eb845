package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/service"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// CertificateHandler exposes certificate verification and download.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs CertificateHandler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// Verify godoc
// @Summary Verify a certificate publicly
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificados/{id}/verificar [get]
func (h *CertificateHandler) Verify(c *gin.Context) {
	view, err := h.certificates.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Download godoc
// @Summary Download the certificate PDF
// @Tags Certificates
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Certificate ID"
// @Success 200 {file} binary
// @Router /certificados/{id}/pdf [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.certificates.Download(c.Request.Context(), identityFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificado-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
