package flow

import (
	"context"
	"time"

	"wildhaven/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Single-flight operation names. One lock per op per flow.
const (
	opSubmit = "create-booking"
	opPay    = "payment"
)

// StartFlow opens a fresh session for one guest/property pair. The property
// snapshot (pricing, occupancy cap, pet policy) is taken here and never
// re-read during the flow.
func (s *DefaultFlowService) StartFlow(ctx context.Context, userID, propertyID string) (*models.FlowSession, error) {
	property, err := s.Properties.GetByID(propertyID)
	if err != nil {
		return nil, NewFlowError(CodeSessionNotFound, "property not found", err)
	}
	if !property.Active {
		return nil, NewFlowError(CodeFlowState, "property is not accepting bookings", nil)
	}

	session := &models.FlowSession{
		FlowID:       uuid.New().String(),
		UserID:       userID,
		PropertyID:   property.ID,
		PropertyName: property.Name,
		MaxOccupancy: property.MaxOccupancy,
		PetFriendly:  property.PetFriendly,
		Pricing:      property.Pricing,
		Step:         models.StepSelectingDates,
		Stay: models.StayRequest{
			PropertyID: property.ID,
			Occupancy:  models.Occupancy{Adults: 2},
		},
		Payment:   models.PaymentNoIntent,
		CreatedAt: time.Now(),
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Info("flow started",
		zap.String("flowID", session.FlowID),
		zap.String("propertyID", property.ID),
		zap.String("userID", userID))
	return session, nil
}

// GetFlow loads a session, scoped to its owner. A foreign flowID reads the
// same as an expired one.
func (s *DefaultFlowService) GetFlow(ctx context.Context, userID, flowID string) (*models.FlowSession, error) {
	session, err := s.Store.Get(ctx, flowID)
	if err != nil {
		return nil, NewFlowError(CodeSessionNotFound, "flow session not found or expired", err)
	}
	if session.UserID != userID {
		return nil, NewFlowError(CodeSessionNotFound, "flow session not found or expired", nil)
	}
	return session, nil
}

// UpdateStay applies partial stay edits. Dates may only change while
// selecting dates; occupancy and special requests stay editable through
// detail capture. The quote is recomputed after every edit, and a date
// change invalidates any prior availability confirmation.
func (s *DefaultFlowService) UpdateStay(ctx context.Context, userID, flowID string, update StayUpdate) (*models.FlowSession, error) {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepSelectingDates, models.StepCapturingDetails:
	default:
		return nil, NewFlowError(CodeFlowState, "stay details are locked at this step", nil)
	}

	if update.StartDate != nil || update.EndDate != nil {
		if session.Step != models.StepSelectingDates {
			return nil, NewFlowError(CodeFlowState, "dates can only change during date selection", nil)
		}
		if update.StartDate != nil {
			session.Stay.StartDate = *update.StartDate
		}
		if update.EndDate != nil {
			session.Stay.EndDate = *update.EndDate
		}
		session.AvailabilityChecked = false
	}
	if update.Occupancy != nil {
		session.Stay.Occupancy = *update.Occupancy
	}
	if update.SpecialRequests != nil {
		session.Stay.SpecialRequests = *update.SpecialRequests
	}

	s.requote(session)

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// requote recomputes the session's live quote. Validation failures are
// stored on the session rather than returned: an incomplete stay is a
// normal display state while the guest is still typing.
func (s *DefaultFlowService) requote(session *models.FlowSession) {
	breakdown, err := ValidateStay(session)
	if err != nil {
		session.Quote = nil
		session.QuoteError = ErrCode(err)
		return
	}
	session.Quote = breakdown
	session.QuoteError = ""
}

// ConfirmDates gates the 1→2 transition on a fresh remote availability
// check. Local validation must pass first so the remote is never consulted
// for a stay that cannot price.
func (s *DefaultFlowService) ConfirmDates(ctx context.Context, userID, flowID string) (*models.FlowSession, error) {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepSelectingDates {
		return nil, NewFlowError(CodeFlowState, "dates are already confirmed for this flow", nil)
	}

	breakdown, err := ValidateStay(session)
	if err != nil {
		return nil, err
	}

	if err := s.Gate.Check(ctx, session.PropertyID, session.Stay.StartDate, session.Stay.EndDate); err != nil {
		return nil, err
	}

	session.Quote = breakdown
	session.QuoteError = ""
	session.AvailabilityChecked = true
	session.Step = models.StepCapturingDetails

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitDetails finalizes the stay and creates (or reuses) the remote
// booking, moving the flow to payment. The create-booking call runs under a
// single-flight lock so a double-tap cannot create two bookings.
func (s *DefaultFlowService) SubmitDetails(ctx context.Context, userID, flowID string) (*models.FlowSession, error) {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepCapturingDetails {
		return nil, NewFlowError(CodeFlowState, "details can only be submitted after dates are confirmed", nil)
	}

	// The charged total is always the one priced now, not a stale quote.
	breakdown, err := ValidateStay(session)
	if err != nil {
		return nil, err
	}

	acquired, err := s.Store.AcquireLock(ctx, flowID, opSubmit)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, NewFlowError(CodeRequestInFlight, "a submission is already in progress for this flow", nil)
	}
	defer func() {
		if err := s.Store.ReleaseLock(ctx, flowID, opSubmit); err != nil {
			s.Logger.Warn("failed to release submit lock", zap.String("flowID", flowID), zap.Error(err))
		}
	}()

	// A booking created from identical stay content is reused on resubmit
	// (back-navigation without edits). Any change means a new booking, and
	// any payment intent tied to the old one is abandoned.
	if session.Booking == nil || session.SubmittedStay == nil || !session.Stay.Equal(*session.SubmittedStay) {
		booking, err := s.Backend.CreateBooking(ctx, BuildBookingRequest(session, *breakdown))
		if err != nil {
			return nil, NewFlowError(CodeRemoteError, "could not create the booking, please retry", err)
		}
		submitted := session.Stay
		session.Booking = booking
		session.SubmittedStay = &submitted
		session.Intent = nil
		session.Payment = models.PaymentNoIntent
		session.PaymentID = ""
		session.FailureCode = ""
		s.Logger.Info("booking created",
			zap.String("flowID", flowID),
			zap.String("bookingID", booking.ID))
	}

	session.Quote = breakdown
	session.QuoteError = ""
	session.Step = models.StepPaying

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Pay runs one payment attempt under the flow's payment lock. Whatever the
// outcome, the session is saved so the payment machine's committed state
// survives the request.
func (s *DefaultFlowService) Pay(ctx context.Context, userID, flowID string, card models.CardDetails) (*models.FlowSession, error) {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepPaying {
		return nil, NewFlowError(CodeFlowState, "the flow is not at the payment step", nil)
	}

	acquired, err := s.Store.AcquireLock(ctx, flowID, opPay)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, NewFlowError(CodeRequestInFlight, "a payment is already in progress for this flow", nil)
	}
	defer func() {
		if err := s.Store.ReleaseLock(ctx, flowID, opPay); err != nil {
			s.Logger.Warn("failed to release payment lock", zap.String("flowID", flowID), zap.Error(err))
		}
	}()

	payErr := s.Payments.Authorize(ctx, session, card)

	switch {
	case payErr == nil:
		session.Step = models.StepConfirmed
	case ErrCode(payErr) == CodeConfirmationMismatch:
		session.Step = models.StepFailed
	}

	// The payment attempt may have outlived the session TTL. If the flow is
	// gone, there is nothing to commit the result to; the mismatch path has
	// already logged the payment ID for support.
	if _, getErr := s.Store.Get(ctx, flowID); getErr != nil {
		s.Logger.Error("flow session expired during payment",
			zap.String("flowID", flowID),
			zap.String("paymentID", session.PaymentID),
			zap.Error(getErr))
		return nil, NewFlowError(CodeSessionNotFound, "flow session expired during payment; contact support", getErr)
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	if payErr != nil {
		return session, payErr
	}

	s.archiveAndNotify(ctx, session)
	return session, nil
}

// archiveAndNotify mirrors the confirmed booking into the archive and fires
// the guest-facing confirmation. Both are best-effort: the booking is
// confirmed on the remote side regardless.
func (s *DefaultFlowService) archiveAndNotify(ctx context.Context, session *models.FlowSession) {
	record := &models.ArchivedBooking{
		BookingID:    session.Booking.ID,
		UserID:       session.UserID,
		PropertyID:   session.PropertyID,
		PropertyName: session.PropertyName,
		StartDate:    session.Stay.StartDate,
		EndDate:      session.Stay.EndDate,
		Occupancy:    session.Stay.Occupancy,
		Breakdown:    *session.Quote,
		PaymentID:    session.PaymentID,
		Status:       models.BookingStatusConfirmed,
		CreatedAt:    time.Now(),
	}

	if s.Archive != nil {
		if err := s.Archive.Insert(record); err != nil {
			s.Logger.Error("failed to archive confirmed booking",
				zap.String("bookingID", record.BookingID), zap.Error(err))
		}
	}
	if s.Notifier != nil {
		s.Notifier.BookingConfirmed(ctx, record, session.Pricing.CheckInTime)
	}
	s.Logger.Info("booking confirmed",
		zap.String("flowID", session.FlowID),
		zap.String("bookingID", record.BookingID),
		zap.String("paymentID", record.PaymentID))
}

// StepBack moves one step backward: payment to details, details to dates.
// Entered data, the booking and any payment intent are all preserved so a
// forward pass with unchanged content resumes where it left off.
func (s *DefaultFlowService) StepBack(ctx context.Context, userID, flowID string) (*models.FlowSession, error) {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepPaying:
		session.Step = models.StepCapturingDetails
	case models.StepCapturingDetails:
		session.Step = models.StepSelectingDates
	default:
		return nil, NewFlowError(CodeFlowState, "cannot go back from this step", nil)
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CancelFlow abandons the attempt and drops the session. Nothing remote is
// rolled back: an unpaid booking expires on the platform side on its own.
func (s *DefaultFlowService) CancelFlow(ctx context.Context, userID, flowID string) error {
	session, err := s.GetFlow(ctx, userID, flowID)
	if err != nil {
		return err
	}
	if session.Payment == models.PaymentConfirmed {
		return NewFlowError(CodeFlowState, "a paid booking cannot be cancelled here", nil)
	}
	s.Logger.Info("flow cancelled",
		zap.String("flowID", flowID),
		zap.String("userID", userID))
	return s.Store.Delete(ctx, flowID)
}
