package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/pkg/config"
	apperrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

// CheckoutSession is what the gateway hands back for a created order.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
}

// PaymentGateway talks to the external payment provider. Calls are
// synchronous with a bounded timeout and a single attempt; a failed
// call surfaces as an upstream error and the caller retries by
// initiating a new payment.
type PaymentGateway struct {
	client          *http.Client
	baseURL         string
	merchantID      string
	callbackURL     string
	integritySecret string
	logger          *zap.Logger
}

// NewPaymentGateway constructs the gateway client from configuration.
func NewPaymentGateway(cfg config.PaymentConfig, logger *zap.Logger) *PaymentGateway {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PaymentGateway{
		client:          &http.Client{Timeout: timeout},
		baseURL:         cfg.GatewayURL,
		merchantID:      cfg.MerchantID,
		callbackURL:     cfg.CallbackURL,
		integritySecret: cfg.IntegritySecret,
		logger:          logger,
	}
}

// IntegrityToken derives the order signature the provider verifies on
// checkout and echoes back on the confirmation callback. The digest
// covers secret, order reference and the amount formatted with two
// decimals, concatenated in that order with no separator.
func (g *PaymentGateway) IntegrityToken(reference string, amount float64) string {
	amountStr := strconv.FormatFloat(amount, 'f', 2, 64)
	sum := sha256.Sum256([]byte(g.integritySecret + reference + amountStr))
	return hex.EncodeToString(sum[:])
}

type createOrderRequest struct {
	MerchantID  string  `json:"merchant_id"`
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Signature   string  `json:"signature"`
	CallbackURL string  `json:"callback_url"`
	Description string  `json:"description"`
}

// CreateOrder registers the order with the provider and returns the
// hosted checkout session.
func (g *PaymentGateway) CreateOrder(ctx context.Context, reference string, amount float64, currency, description string) (*CheckoutSession, error) {
	payload := createOrderRequest{
		MerchantID:  g.merchantID,
		Reference:   reference,
		Amount:      amount,
		Currency:    currency,
		Signature:   g.IntegrityToken(reference, amount),
		CallbackURL: g.callbackURL,
		Description: description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("payment gateway unreachable", zap.String("reference", reference), zap.Error(err))
		return nil, apperrors.ErrUpstream.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("payment gateway rejected order",
			zap.String("reference", reference),
			zap.Int("status", resp.StatusCode))
		return nil, apperrors.ErrUpstream.Wrap(fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, apperrors.ErrUpstream.Wrap(fmt.Errorf("decode gateway response: %w", err))
	}
	return &session, nil
}
