package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wildhaven/models"
	"wildhaven/services/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paymentFixture() (*PaymentProcessor, *fakeBackend, *fakeProvider, *models.FlowSession) {
	backend := newFakeBackend()
	provider := &fakeProvider{}
	processor := &PaymentProcessor{Backend: backend, Provider: provider, Logger: zap.NewNop()}

	session := testSession()
	session.Step = models.StepPaying
	session.Booking = &models.BookingRecord{ID: "bk_1", Status: models.BookingStatusPending}
	submitted := session.Stay
	session.SubmittedStay = &submitted
	session.Quote = &models.PriceBreakdown{
		Nights: 3, BasePrice: 300, CleaningFee: 25, ServiceFee: 36, Total: 361, Currency: "GBP",
	}
	return processor, backend, provider, session
}

func TestAuthorize_Success(t *testing.T) {
	processor, backend, provider, session := paymentFixture()

	err := processor.Authorize(context.Background(), session, testCard())
	require.NoError(t, err)

	assert.Equal(t, models.PaymentConfirmed, session.Payment)
	assert.Equal(t, "pay_1", session.PaymentID)
	assert.Equal(t, models.BookingStatusConfirmed, session.Booking.Status)
	assert.Equal(t, 1, backend.intentsCreated)
	assert.Equal(t, 1, backend.confirmCalls)
	assert.Equal(t, 1, provider.calls)
}

func TestAuthorize_IntentCreationFailure(t *testing.T) {
	processor, backend, provider, session := paymentFixture()
	backend.intentErr = errors.New("502")

	err := processor.Authorize(context.Background(), session, testCard())
	require.Error(t, err)
	assert.Equal(t, CodeIntentCreationFailed, ErrCode(err))
	assert.Equal(t, models.PaymentNoIntent, session.Payment)
	assert.Nil(t, session.Intent)
	assert.Equal(t, 0, provider.calls)

	// The next attempt starts clean and succeeds.
	backend.intentErr = nil
	require.NoError(t, processor.Authorize(context.Background(), session, testCard()))
	assert.Equal(t, models.PaymentConfirmed, session.Payment)
}

func TestAuthorize_IntentReusedAcrossDeclines(t *testing.T) {
	processor, backend, provider, session := paymentFixture()
	provider.err = &remote.DeclineError{Message: "Your card was declined."}

	for attempt := 0; attempt < 3; attempt++ {
		err := processor.Authorize(context.Background(), session, testCard())
		require.Error(t, err)
		assert.Equal(t, CodeCardDeclined, ErrCode(err))
		assert.Equal(t, models.PaymentIntentCreated, session.Payment)
	}

	// One intent serves every retry; no duplicates pile up remotely.
	assert.Equal(t, 1, backend.intentsCreated)
	require.NotNil(t, session.Intent)

	provider.err = nil
	require.NoError(t, processor.Authorize(context.Background(), session, testCard()))
	assert.Equal(t, models.PaymentConfirmed, session.Payment)
	assert.Equal(t, 1, backend.intentsCreated)
}

func TestAuthorize_DeclineMessagePassedThrough(t *testing.T) {
	processor, _, provider, session := paymentFixture()
	provider.err = &remote.DeclineError{Message: "Insufficient funds."}

	err := processor.Authorize(context.Background(), session, testCard())
	require.Error(t, err)
	fe, ok := AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, "Insufficient funds.", fe.Message)
}

func TestAuthorize_ProviderDownIsNotADecline(t *testing.T) {
	processor, _, provider, session := paymentFixture()
	provider.err = fmt.Errorf("%w: connection reset", remote.ErrProviderUnavailable)

	err := processor.Authorize(context.Background(), session, testCard())
	require.Error(t, err)
	assert.Equal(t, CodeProviderUnavailable, ErrCode(err))
	assert.Equal(t, models.PaymentIntentCreated, session.Payment)
	assert.True(t, IsRetryable(ErrCode(err)))
}

func TestAuthorize_ConfirmationMismatch(t *testing.T) {
	processor, backend, provider, session := paymentFixture()
	backend.confirmErr = errors.New("booking released")

	err := processor.Authorize(context.Background(), session, testCard())
	require.Error(t, err)
	assert.Equal(t, CodeConfirmationMismatch, ErrCode(err))
	assert.Equal(t, models.PaymentFailed, session.Payment)
	assert.Equal(t, "pay_1", session.PaymentID) // retained for support
	assert.False(t, IsRetryable(CodeConfirmationMismatch))
	assert.True(t, PaymentTerminallyFailed(session))

	// A further attempt is refused before touching the provider again.
	backend.confirmErr = nil
	err = processor.Authorize(context.Background(), session, testCard())
	require.Error(t, err)
	assert.Equal(t, CodeConfirmationMismatch, ErrCode(err))
	assert.Equal(t, 1, provider.calls)
}

func TestAuthorize_RequiresBooking(t *testing.T) {
	processor, _, _, session := paymentFixture()
	session.Booking = nil

	err := processor.Authorize(context.Background(), session, testCard())
	assert.Equal(t, CodeFlowState, ErrCode(err))
}
