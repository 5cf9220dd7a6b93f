package flow

import (
	"context"
	"errors"
	"fmt"

	"wildhaven/models"
	"wildhaven/services/remote"

	"go.uber.org/zap"
)

// fakeBackend is a scriptable BackendClient for flow tests.
type fakeBackend struct {
	available       bool
	availabilityErr error

	bookingErr     error
	bookingsMade   int
	lastCreateReq  remote.CreateBookingRequest
	nextBookingID  string
	intentErr      error
	intentsCreated int
	confirmErr     error
	confirmCalls   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{available: true, nextBookingID: "bk_1"}
}

func (f *fakeBackend) CheckAvailability(_ context.Context, _, _, _ string) (bool, error) {
	if f.availabilityErr != nil {
		return false, f.availabilityErr
	}
	return f.available, nil
}

func (f *fakeBackend) CreateBooking(_ context.Context, req remote.CreateBookingRequest) (*models.BookingRecord, error) {
	if f.bookingErr != nil {
		return nil, f.bookingErr
	}
	f.bookingsMade++
	f.lastCreateReq = req
	return &models.BookingRecord{
		ID:     fmt.Sprintf("%s_%d", f.nextBookingID, f.bookingsMade),
		Status: models.BookingStatusPending,
	}, nil
}

func (f *fakeBackend) CreatePaymentIntent(_ context.Context, bookingID string, amount int64, _ string) (*models.PaymentIntentHandle, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	f.intentsCreated++
	return &models.PaymentIntentHandle{
		IntentID:     fmt.Sprintf("pi_%s_%d", bookingID, f.intentsCreated),
		ClientSecret: fmt.Sprintf("pi_%s_secret_%d", bookingID, amount),
		Status:       "requires_confirmation",
	}, nil
}

func (f *fakeBackend) ConfirmPayment(_ context.Context, _, _ string) error {
	f.confirmCalls++
	return f.confirmErr
}

// fakeProvider is a scriptable PaymentProvider.
type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) ConfirmCardPayment(_ context.Context, _ string, _ models.CardDetails) (*remote.CardPaymentResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &remote.CardPaymentResult{Status: "succeeded", PaymentID: fmt.Sprintf("pay_%d", f.calls)}, nil
}

// fakePropertyRepo serves one property by ID.
type fakePropertyRepo struct {
	property *models.Property
}

func (f *fakePropertyRepo) GetByID(id string) (*models.Property, error) {
	if f.property == nil || f.property.ID != id {
		return nil, errors.New("property not found")
	}
	return f.property, nil
}

func (f *fakePropertyRepo) GetByOwner(string) ([]models.Property, error) { return nil, nil }
func (f *fakePropertyRepo) Create(*models.Property) error               { return nil }
func (f *fakePropertyRepo) Update(*models.Property) error               { return nil }
func (f *fakePropertyRepo) AddPhoto(string, string) error               { return nil }
func (f *fakePropertyRepo) Delete(string) error                         { return nil }

// fakeArchive records archived bookings.
type fakeArchive struct {
	records []*models.ArchivedBooking
}

func (f *fakeArchive) Insert(record *models.ArchivedBooking) error {
	f.records = append(f.records, record)
	return nil
}

// fakeNotifier records confirmation notifications.
type fakeNotifier struct {
	confirmed []string
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, record *models.ArchivedBooking, _ string) {
	f.confirmed = append(f.confirmed, record.BookingID)
}

func testProperty() *models.Property {
	return &models.Property{
		ID:           "prop-1",
		OwnerID:      "owner-1",
		Name:         "Seaview Retreat",
		MaxOccupancy: 4,
		PetFriendly:  true,
		Pricing:      testRule(),
		Active:       true,
	}
}

type testHarness struct {
	svc      *DefaultFlowService
	backend  *fakeBackend
	provider *fakeProvider
	archive  *fakeArchive
	notifier *fakeNotifier
	store    *MemorySessionStore
}

func newTestHarness() *testHarness {
	backend := newFakeBackend()
	provider := &fakeProvider{}
	archive := &fakeArchive{}
	notifier := &fakeNotifier{}
	store := NewMemorySessionStore()
	logger := zap.NewNop()

	svc := &DefaultFlowService{
		Store:      store,
		Properties: &fakePropertyRepo{property: testProperty()},
		Backend:    backend,
		Gate:       &AvailabilityGate{Backend: backend, Logger: logger},
		Payments:   &PaymentProcessor{Backend: backend, Provider: provider, Logger: logger},
		Archive:    archive,
		Notifier:   notifier,
		Logger:     logger,
	}
	return &testHarness{
		svc:      svc,
		backend:  backend,
		provider: provider,
		archive:  archive,
		notifier: notifier,
		store:    store,
	}
}

// advanceToPaying walks a fresh flow to the payment step.
func (h *testHarness) advanceToPaying(ctx context.Context) (*models.FlowSession, error) {
	session, err := h.svc.StartFlow(ctx, "user-1", "prop-1")
	if err != nil {
		return nil, err
	}
	start, end := "2025-06-01", "2025-06-04"
	if _, err := h.svc.UpdateStay(ctx, "user-1", session.FlowID, StayUpdate{StartDate: &start, EndDate: &end}); err != nil {
		return nil, err
	}
	if _, err := h.svc.ConfirmDates(ctx, "user-1", session.FlowID); err != nil {
		return nil, err
	}
	return h.svc.SubmitDetails(ctx, "user-1", session.FlowID)
}

func testCard() models.CardDetails {
	return models.CardDetails{
		Number:     "4242424242424242",
		ExpMonth:   12,
		ExpYear:    2030,
		CVC:        "123",
		HolderName: "A Guest",
	}
}
