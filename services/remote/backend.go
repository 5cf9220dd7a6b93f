package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"wildhaven/models"

	"go.uber.org/zap"
)

// BackendClient is the contract consumed from the remote booking platform.
// The platform is the source of truth for availability and bookings; this
// side only holds proxies of what it returns.
type BackendClient interface {
	CheckAvailability(ctx context.Context, propertyID, startDate, endDate string) (bool, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingRecord, error)
	CreatePaymentIntent(ctx context.Context, bookingID string, amount int64, currency string) (*models.PaymentIntentHandle, error)
	ConfirmPayment(ctx context.Context, paymentID, bookingID string) error
}

// CreateBookingRequest is the create-booking payload. The breakdown is
// recomputed at submission time; the platform may recompute it again
// server-side before charging (its contract, not assumed here).
type CreateBookingRequest struct {
	PropertyID      string                `json:"propertyId"`
	UserID          string                `json:"userId"`
	StartDate       string                `json:"startDate"`
	EndDate         string                `json:"endDate"`
	Occupancy       models.Occupancy      `json:"occupancy"`
	SpecialRequests string                `json:"specialRequests,omitempty"`
	Pricing         models.PriceBreakdown `json:"pricing"`
}

// HTTPBackendClient talks to the platform's function endpoints over JSON.
type HTTPBackendClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPBackendClient(baseURL, apiKey string, logger *zap.Logger) *HTTPBackendClient {
	return &HTTPBackendClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
		logger:  logger,
	}
}

type backendError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// post executes a JSON function call and decodes the response into out.
func (c *HTTPBackendClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend call %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var be backendError
		if err := json.Unmarshal(raw, &be); err == nil && be.Message != "" {
			c.logger.Warn("backend rejected call",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("message", be.Message))
			return fmt.Errorf("backend %s returned %d: %s", path, resp.StatusCode, be.Message)
		}
		return fmt.Errorf("backend %s returned %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPBackendClient) CheckAvailability(ctx context.Context, propertyID, startDate, endDate string) (bool, error) {
	payload := map[string]string{
		"propertyId": propertyID,
		"startDate":  startDate,
		"endDate":    endDate,
	}
	var out struct {
		Available bool `json:"available"`
	}
	if err := c.post(ctx, "/check-availability", payload, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *HTTPBackendClient) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingRecord, error) {
	var out models.BookingRecord
	if err := c.post(ctx, "/create-booking", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create-booking returned no booking id")
	}
	return &out, nil
}

func (c *HTTPBackendClient) CreatePaymentIntent(ctx context.Context, bookingID string, amount int64, currency string) (*models.PaymentIntentHandle, error) {
	payload := map[string]any{
		"bookingId": bookingID,
		"amount":    amount,
		"currency":  currency,
	}
	var out models.PaymentIntentHandle
	if err := c.post(ctx, "/create-payment-intent", payload, &out); err != nil {
		return nil, err
	}
	if out.ClientSecret == "" {
		return nil, fmt.Errorf("create-payment-intent returned no client secret")
	}
	return &out, nil
}

func (c *HTTPBackendClient) ConfirmPayment(ctx context.Context, paymentID, bookingID string) error {
	payload := map[string]string{
		"paymentId": paymentID,
		"bookingId": bookingID,
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/confirm-payment", payload, &out); err != nil {
		return err
	}
	if out.Status != models.BookingStatusConfirmed {
		return fmt.Errorf("confirm-payment returned status %q", out.Status)
	}
	return nil
}
