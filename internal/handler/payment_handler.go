package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/service"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
	"github.com/aulamarket/aulamarket-api/pkg/response"
)

// PaymentHandler exposes checkout initiation and the gateway callback.
type PaymentHandler struct {
	payments *service.PaymentService
	metrics  *service.MetricsService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService, metrics *service.MetricsService) *PaymentHandler {
	return &PaymentHandler{payments: payments, metrics: metrics}
}

// Initiate godoc
// @Summary Start a checkout for a course
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.InitiatePaymentRequest true "Course to buy"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /pagos/iniciar [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.payments.Initiate(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Confirm godoc
// @Summary Gateway confirmation callback
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.PaymentWebhookRequest true "Gateway callback"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /pagos/confirmar [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.payments.Confirm(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordPayment(req.Status)
	response.JSON(c, http.StatusOK, gin.H{"recibido": true}, nil)
}
