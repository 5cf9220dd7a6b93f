package flow

import (
	"context"
	"errors"

	"wildhaven/models"
	"wildhaven/services/remote"

	"go.uber.org/zap"
)

// PaymentProcessor drives the payment authorization sub-machine:
//
//	NoIntent → IntentCreated → Authorizing → Confirmed | Failed
//
// It reconciles three round-trips (intent creation, card confirmation,
// booking-side confirmation) into one committed state on the session.
type PaymentProcessor struct {
	Backend  remote.BackendClient
	Provider remote.PaymentProvider
	Logger   *zap.Logger
}

// Authorize attempts to take payment for the session's booking. It mutates
// the session's payment fields in place; the caller persists the session
// afterwards regardless of outcome so every failure lands in a defined state.
func (p *PaymentProcessor) Authorize(ctx context.Context, session *models.FlowSession, card models.CardDetails) error {
	if session.Booking == nil || session.Booking.ID == "" {
		// Structurally unreachable through the controller; kept as a guard.
		return NewFlowError(CodeFlowState, "payment attempted without a booking", nil)
	}

	if PaymentTerminallyFailed(session) {
		return NewFlowError(CodeConfirmationMismatch,
			"a previous payment may have completed; contact support before retrying", nil)
	}

	if err := p.ensureIntent(ctx, session); err != nil {
		return err
	}

	session.Payment = models.PaymentAuthorizing

	result, err := p.Provider.ConfirmCardPayment(ctx, session.Intent.ClientSecret, card)
	if err != nil {
		// The intent survives a failed confirmation attempt: the retry
		// reuses it rather than creating a duplicate.
		session.Payment = models.PaymentIntentCreated

		var decline *remote.DeclineError
		if errors.As(err, &decline) {
			p.Logger.Info("card declined",
				zap.String("bookingID", session.Booking.ID),
				zap.String("intentID", session.Intent.IntentID))
			return NewFlowError(CodeCardDeclined, decline.Message, err)
		}
		p.Logger.Warn("payment provider unavailable",
			zap.String("bookingID", session.Booking.ID),
			zap.Error(err))
		return NewFlowError(CodeProviderUnavailable, "payment service unavailable, please retry", err)
	}

	// Money has moved. If the booking side now fails to acknowledge, this
	// is not retryable: a blind retry could double-charge.
	if err := p.Backend.ConfirmPayment(ctx, result.PaymentID, session.Booking.ID); err != nil {
		session.Payment = models.PaymentFailed
		session.FailureCode = CodeConfirmationMismatch
		session.PaymentID = result.PaymentID
		p.Logger.Error("payment authorized but booking confirmation failed",
			zap.String("bookingID", session.Booking.ID),
			zap.String("paymentID", result.PaymentID),
			zap.Error(err))
		return NewFlowError(CodeConfirmationMismatch,
			"payment was taken but the booking could not be confirmed; contact support", err)
	}

	session.Payment = models.PaymentConfirmed
	session.PaymentID = result.PaymentID
	session.Booking.Status = models.BookingStatusConfirmed
	return nil
}

// ensureIntent creates the payment intent on first attempt and reuses the
// stored handle on retries. At most one active intent exists per booking.
func (p *PaymentProcessor) ensureIntent(ctx context.Context, session *models.FlowSession) error {
	if session.Intent != nil {
		return nil
	}

	if session.Quote == nil {
		return NewFlowError(CodeFlowState, "no priced quote on session", nil)
	}

	intent, err := p.Backend.CreatePaymentIntent(ctx, session.Booking.ID, session.Quote.Total, session.Quote.Currency)
	if err != nil {
		session.Payment = models.PaymentNoIntent
		p.Logger.Warn("payment intent creation failed",
			zap.String("bookingID", session.Booking.ID),
			zap.Error(err))
		return NewFlowError(CodeIntentCreationFailed, "could not start payment, please retry", err)
	}

	session.Intent = intent
	session.Payment = models.PaymentIntentCreated
	return nil
}

// PaymentTerminallyFailed reports whether the session's payment machine is
// in its terminal failed state (confirmation mismatch). Exhausted flows are
// directed to support, never silently retried.
func PaymentTerminallyFailed(session *models.FlowSession) bool {
	return session.Payment == models.PaymentFailed && session.FailureCode == CodeConfirmationMismatch
}
