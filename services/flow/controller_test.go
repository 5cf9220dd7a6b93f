package flow

import (
	"context"
	"errors"
	"testing"

	"wildhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFlow_SnapshotsProperty(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.FlowID)
	assert.Equal(t, models.StepSelectingDates, session.Step)
	assert.Equal(t, "Seaview Retreat", session.PropertyName)
	assert.Equal(t, 4, session.MaxOccupancy)
	assert.True(t, session.PetFriendly)
	assert.Equal(t, models.PaymentNoIntent, session.Payment)

	stored, err := h.store.Get(ctx, session.FlowID)
	require.NoError(t, err)
	assert.Equal(t, session.FlowID, stored.FlowID)
}

func TestStartFlow_UnknownOrInactiveProperty(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.svc.StartFlow(ctx, "user-1", "prop-missing")
	assert.Equal(t, CodeSessionNotFound, ErrCode(err))

	h2 := newTestHarness()
	prop := testProperty()
	prop.Active = false
	h2.svc.Properties = &fakePropertyRepo{property: prop}
	_, err = h2.svc.StartFlow(ctx, "user-1", "prop-1")
	assert.Equal(t, CodeFlowState, ErrCode(err))
}

func TestGetFlow_ScopedToOwner(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	_, err = h.svc.GetFlow(ctx, "user-2", session.FlowID)
	assert.Equal(t, CodeSessionNotFound, ErrCode(err))

	_, err = h.svc.GetFlow(ctx, "user-1", "no-such-flow")
	assert.Equal(t, CodeSessionNotFound, ErrCode(err))
}

func TestUpdateStay_RequotesOnEveryEdit(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	// Only a start date so far: not an error, just an unpriced session.
	start := "2025-06-01"
	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start})
	require.NoError(t, err)
	assert.Nil(t, session.Quote)
	assert.Equal(t, CodeMissingDates, session.QuoteError)

	end := "2025-06-04"
	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{EndDate: &end})
	require.NoError(t, err)
	require.NotNil(t, session.Quote)
	assert.Equal(t, int64(361), session.Quote.Total)
	assert.Empty(t, session.QuoteError)

	// Adding a pet reprices immediately.
	occ := models.Occupancy{Adults: 2, Pets: 1}
	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &occ})
	require.NoError(t, err)
	assert.Equal(t, int64(376), session.Quote.Total)
}

func TestNegativeOccupancyNeverReachesTheBackend(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)
	start, end := "2025-06-01", "2025-06-04"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	occ := models.Occupancy{Adults: -3, Children: 2, Pets: -1}
	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &occ})
	require.NoError(t, err)
	assert.Nil(t, session.Quote)
	assert.Equal(t, CodeInvalidOccupancy, session.QuoteError)

	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeInvalidOccupancy, ErrCode(err))
	assert.Equal(t, 0, h.backend.bookingsMade)

	// Even if the flow somehow reached detail capture, submission re-runs
	// the same rules.
	valid := models.Occupancy{Adults: 2}
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &valid})
	require.NoError(t, err)
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &occ})
	require.NoError(t, err)
	_, err = h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeInvalidOccupancy, ErrCode(err))
	assert.Equal(t, 0, h.backend.bookingsMade)
}

func TestUpdateStay_DateChangeResetsAvailability(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)
	start, end := "2025-06-01", "2025-06-04"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	session, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.True(t, session.AvailabilityChecked)
	assert.Equal(t, models.StepCapturingDetails, session.Step)

	// Dates are frozen once confirmed; go back to change them.
	newEnd := "2025-06-05"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{EndDate: &newEnd})
	assert.Equal(t, CodeFlowState, ErrCode(err))

	session, err = h.svc.StepBack(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectingDates, session.Step)

	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{EndDate: &newEnd})
	require.NoError(t, err)
	assert.False(t, session.AvailabilityChecked)
}

func TestUpdateStay_DetailsEditableAtStepTwo(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)
	start, end := "2025-06-01", "2025-06-04"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	require.NoError(t, err)

	requests := "cot for the baby"
	occ := models.Occupancy{Adults: 2, Infants: 1}
	session, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &occ, SpecialRequests: &requests})
	require.NoError(t, err)
	assert.Equal(t, occ, session.Stay.Occupancy)
	assert.Equal(t, requests, session.Stay.SpecialRequests)
}

func TestConfirmDates_ValidationBeforeRemote(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	h.backend.availabilityErr = errors.New("down")

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	// Local validation fails first; the remote is never consulted.
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeMissingDates, ErrCode(err))
}

func TestConfirmDates_UnavailableVsDown(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)
	start, end := "2025-06-01", "2025-06-04"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	h.backend.available = false
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeDatesUnavailable, ErrCode(err))

	h.backend.available = true
	h.backend.availabilityErr = errors.New("timeout")
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeAvailabilityFailed, ErrCode(err))

	// Either failure leaves the flow on date selection.
	session, err = h.svc.GetFlow(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectingDates, session.Step)

	h.backend.availabilityErr = nil
	session, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.Equal(t, models.StepCapturingDetails, session.Step)
}

func TestSubmitDetails_CreatesBookingOnce(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StepPaying, session.Step)
	require.NotNil(t, session.Booking)
	assert.Equal(t, models.BookingStatusPending, session.Booking.Status)
	assert.Equal(t, 1, h.backend.bookingsMade)
	assert.Equal(t, int64(361), h.backend.lastCreateReq.Pricing.Total)

	// Back and forward with nothing changed reuses the booking.
	_, err = h.svc.StepBack(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	resubmitted, err := h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.Equal(t, session.Booking.ID, resubmitted.Booking.ID)
	assert.Equal(t, 1, h.backend.bookingsMade)
}

func TestSubmitDetails_ChangedStayMakesNewBooking(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)
	firstBooking := session.Booking.ID

	_, err = h.svc.StepBack(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	occ := models.Occupancy{Adults: 3}
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{Occupancy: &occ})
	require.NoError(t, err)

	session, err = h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	require.NoError(t, err)
	assert.NotEqual(t, firstBooking, session.Booking.ID)
	assert.Equal(t, 2, h.backend.bookingsMade)
	assert.Nil(t, session.Intent)
	assert.Equal(t, models.PaymentNoIntent, session.Payment)
}

func TestSubmitDetails_StepGuard(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	_, err = h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeFlowState, ErrCode(err))
	assert.Equal(t, 0, h.backend.bookingsMade)
}

func TestSubmitDetails_SingleFlight(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)
	start, end := "2025-06-01", "2025-06-04"
	_, err = h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	_, err = h.svc.ConfirmDates(ctx, "user-1", session.FlowID)
	require.NoError(t, err)

	// Simulate an in-flight duplicate holding the lock.
	held, err := h.store.AcquireLock(ctx, session.FlowID, opSubmit)
	require.NoError(t, err)
	require.True(t, held)

	_, err = h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeRequestInFlight, ErrCode(err))
	assert.Equal(t, 0, h.backend.bookingsMade)

	require.NoError(t, h.store.ReleaseLock(ctx, session.FlowID, opSubmit))
	_, err = h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
	assert.NoError(t, err)
}

func TestPay_ConfirmsFlowAndArchives(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)

	session, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmed, session.Step)
	assert.Equal(t, models.PaymentConfirmed, session.Payment)
	assert.Equal(t, models.BookingStatusConfirmed, session.Booking.Status)
	assert.NotEmpty(t, session.PaymentID)

	require.Len(t, h.archive.records, 1)
	assert.Equal(t, session.Booking.ID, h.archive.records[0].BookingID)
	assert.Equal(t, int64(361), h.archive.records[0].Breakdown.Total)
	assert.Equal(t, []string{session.Booking.ID}, h.notifier.confirmed)
}

func TestPay_UnreachableWithoutBooking(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	_, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	assert.Equal(t, CodeFlowState, ErrCode(err))
	assert.Equal(t, 0, h.provider.calls)
}

func TestPay_SingleFlight(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)

	held, err := h.store.AcquireLock(ctx, session.FlowID, opPay)
	require.NoError(t, err)
	require.True(t, held)

	_, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	assert.Equal(t, CodeRequestInFlight, ErrCode(err))
	assert.Equal(t, 0, h.provider.calls)
}

func TestPay_MismatchIsTerminal(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)

	h.backend.confirmErr = errors.New("booking already released")
	session, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	require.Error(t, err)
	assert.Equal(t, CodeConfirmationMismatch, ErrCode(err))
	assert.Equal(t, models.StepFailed, session.Step)
	assert.Equal(t, models.PaymentFailed, session.Payment)
	assert.NotEmpty(t, session.PaymentID) // kept for support reconciliation
	assert.Empty(t, h.archive.records)

	// The failed step rejects further payment attempts outright.
	h.backend.confirmErr = nil
	_, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	assert.Equal(t, CodeFlowState, ErrCode(err))
	assert.Equal(t, 1, h.provider.calls)
}

func TestStepBack_Bounds(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	_, err = h.svc.StepBack(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeFlowState, ErrCode(err))

	session, err = h.advanceToPaying(ctx)
	require.NoError(t, err)
	_, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	require.NoError(t, err)

	// No going back from a confirmed booking.
	_, err = h.svc.StepBack(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeFlowState, ErrCode(err))
}

func TestCancelFlow(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	require.NoError(t, err)

	require.NoError(t, h.svc.CancelFlow(ctx, "user-1", session.FlowID))
	_, err = h.svc.GetFlow(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeSessionNotFound, ErrCode(err))
}

func TestCancelFlow_PaidFlowRefused(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	session, err := h.advanceToPaying(ctx)
	require.NoError(t, err)
	_, err = h.svc.Pay(ctx, "user-1", session.FlowID, testCard())
	require.NoError(t, err)

	err = h.svc.CancelFlow(ctx, "user-1", session.FlowID)
	assert.Equal(t, CodeFlowState, ErrCode(err))
}
