package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/pkg/config"
	apperrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

func newTestGateway(t *testing.T, baseURL string) *PaymentGateway {
	t.Helper()
	return NewPaymentGateway(config.PaymentConfig{
		GatewayURL:      baseURL,
		IntegritySecret: "secret",
		MerchantID:      "merchant-1",
		Currency:        "COP",
		CallbackURL:     "http://localhost:8080/api/pagos/confirmar",
		RequestTimeout:  2 * time.Second,
	}, zap.NewNop())
}

func TestIntegrityTokenCoversSecretReferenceAndAmount(t *testing.T) {
	g := newTestGateway(t, "http://unused")

	sum := sha256.Sum256([]byte("secret" + "ORD-123" + "49.99"))
	want := hex.EncodeToString(sum[:])
	require.Equal(t, want, g.IntegrityToken("ORD-123", 49.99))
}

func TestIntegrityTokenFormatsAmountWithTwoDecimals(t *testing.T) {
	g := newTestGateway(t, "http://unused")

	sum := sha256.Sum256([]byte("secret" + "ORD-1" + "50.00"))
	want := hex.EncodeToString(sum[:])
	require.Equal(t, want, g.IntegrityToken("ORD-1", 50))
}

func TestCreateOrderSendsSignedPayload(t *testing.T) {
	var got createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(CheckoutSession{CheckoutURL: "https://checkout.example.com/s/abc"})
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)
	session, err := g.CreateOrder(context.Background(), "ORD-123", 49.99, "COP", "Go desde cero")
	require.NoError(t, err)
	require.Equal(t, "https://checkout.example.com/s/abc", session.CheckoutURL)
	require.Equal(t, "merchant-1", got.MerchantID)
	require.Equal(t, g.IntegrityToken("ORD-123", 49.99), got.Signature)
}

func TestCreateOrderMapsGatewayFailureToUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)
	_, err := g.CreateOrder(context.Background(), "ORD-123", 49.99, "COP", "Go desde cero")
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	require.Equal(t, apperrors.ErrUpstream.Code, appErr.Code)
}
