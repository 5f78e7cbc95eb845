package dto

// InitiatePaymentRequest starts a checkout for a published course.
type InitiatePaymentRequest struct {
	CourseID string `json:"curso_id" validate:"required,uuid4"`
}

// InitiatePaymentResponse returns what the front end needs to redirect
// the buyer to the gateway.
type InitiatePaymentResponse struct {
	Reference      string  `json:"referencia"`
	Amount         float64 `json:"monto"`
	Currency       string  `json:"moneda"`
	IntegrityToken string  `json:"firma_integridad"`
	CheckoutURL    string  `json:"checkout_url"`
}

// PaymentWebhookRequest is the gateway callback payload. Delivery is
// at-least-once; processing must be replay safe.
type PaymentWebhookRequest struct {
	Reference      string  `json:"referencia" validate:"required"`
	Status         string  `json:"estado" validate:"required,oneof=pagado fallido cancelado"`
	Amount         float64 `json:"monto" validate:"gte=0"`
	IntegrityToken string  `json:"firma_integridad" validate:"required"`
}
