package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wildhaven/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"go.uber.org/zap"
)

// PaymentProvider confirms a card against an intent's client secret.
type PaymentProvider interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card models.CardDetails) (*CardPaymentResult, error)
}

// CardPaymentResult reports a successful provider-side authorization.
type CardPaymentResult struct {
	Status    string
	PaymentID string
}

// DeclineError carries the provider's decline message verbatim so it can be
// surfaced to the guest unchanged.
type DeclineError struct {
	Message string
}

func (e *DeclineError) Error() string {
	return e.Message
}

// ErrProviderUnavailable marks provider-down transport failures, distinct
// from a decline.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// StripePaymentProvider implements PaymentProvider with Stripe.
type StripePaymentProvider struct {
	logger *zap.Logger
}

func NewStripePaymentProvider(logger *zap.Logger) *StripePaymentProvider {
	return &StripePaymentProvider{logger: logger}
}

// intentIDFromClientSecret recovers the intent ID from a "pi_xxx_secret_yyy" secret.
func intentIDFromClientSecret(secret string) string {
	return strings.SplitN(secret, "_secret", 2)[0]
}

func (p *StripePaymentProvider) ConfirmCardPayment(ctx context.Context, clientSecret string, card models.CardDetails) (*CardPaymentResult, error) {
	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	pmParams.Context = ctx

	pm, err := paymentmethod.New(pmParams)
	if err != nil {
		return nil, p.mapError(err)
	}

	intentID := intentIDFromClientSecret(clientSecret)
	confirmParams := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(pm.ID),
	}
	confirmParams.Context = ctx

	pi, err := paymentintent.Confirm(intentID, confirmParams)
	if err != nil {
		return nil, p.mapError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return &CardPaymentResult{Status: string(pi.Status), PaymentID: pi.ID}, nil
	default:
		p.logger.Warn("payment intent in unexpected state after confirm",
			zap.String("intentID", pi.ID),
			zap.String("status", string(pi.Status)))
		return nil, fmt.Errorf("payment not authorized, intent status %q", pi.Status)
	}
}

// mapError splits provider failures into declines and provider-down.
func (p *StripePaymentProvider) mapError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard || stripeErr.Code == stripe.ErrorCodeCardDeclined {
			msg := stripeErr.Msg
			if msg == "" {
				msg = "Your card was declined."
			}
			return &DeclineError{Message: msg}
		}
		return fmt.Errorf("%w: %s", ErrProviderUnavailable, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
