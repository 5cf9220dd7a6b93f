package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wildhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPBackendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPBackendClient(srv.URL, "test-key", zap.NewNop())
}

func TestCheckAvailability(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check-availability", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "prop-1", payload["propertyId"])

		json.NewEncoder(w).Encode(map[string]bool{"available": true})
	})

	available, err := client.CheckAvailability(context.Background(), "prop-1", "2025-06-01", "2025-06-04")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCreateBooking_ErrorBodyDecoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "dates taken", "code": "CONFLICT"})
	})

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{PropertyID: "prop-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dates taken")
}

func TestCreateBooking_RejectsEmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.BookingRecord{Status: models.BookingStatusPending})
	})

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{PropertyID: "prop-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no booking id")
}

func TestCreatePaymentIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-payment-intent", r.URL.Path)
		json.NewEncoder(w).Encode(models.PaymentIntentHandle{
			IntentID:     "pi_123",
			ClientSecret: "pi_123_secret_abc",
			Status:       "requires_confirmation",
		})
	})

	intent, err := client.CreatePaymentIntent(context.Background(), "bk_1", 361, "GBP")
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.IntentID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
}

func TestConfirmPayment_StatusMustBeConfirmed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
	})

	err := client.ConfirmPayment(context.Background(), "pay_1", "bk_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pending"`)

	client = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "confirmed"})
	})
	assert.NoError(t, client.ConfirmPayment(context.Background(), "pay_1", "bk_1"))
}

func TestIntentIDFromClientSecret(t *testing.T) {
	assert.Equal(t, "pi_123", intentIDFromClientSecret("pi_123_secret_abc"))
	assert.Equal(t, "pi_123", intentIDFromClientSecret("pi_123"))
}
