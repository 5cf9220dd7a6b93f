package flow

import (
	"context"

	propertyRepo "wildhaven/database/repository/property"
	"wildhaven/models"
	"wildhaven/services/remote"

	"go.uber.org/zap"
)

// StayUpdate carries partial edits to the in-progress stay. Nil fields are
// left untouched.
type StayUpdate struct {
	StartDate       *string           `json:"startDate,omitempty"`
	EndDate         *string           `json:"endDate,omitempty"`
	Occupancy       *models.Occupancy `json:"occupancy,omitempty"`
	SpecialRequests *string           `json:"specialRequests,omitempty"`
}

// FlowService sequences a guest through the booking flow:
// date selection → availability → details → payment → confirmed.
type FlowService interface {
	StartFlow(ctx context.Context, userID, propertyID string) (*models.FlowSession, error)
	GetFlow(ctx context.Context, userID, flowID string) (*models.FlowSession, error)
	UpdateStay(ctx context.Context, userID, flowID string, update StayUpdate) (*models.FlowSession, error)
	ConfirmDates(ctx context.Context, userID, flowID string) (*models.FlowSession, error)
	SubmitDetails(ctx context.Context, userID, flowID string) (*models.FlowSession, error)
	Pay(ctx context.Context, userID, flowID string, card models.CardDetails) (*models.FlowSession, error)
	StepBack(ctx context.Context, userID, flowID string) (*models.FlowSession, error)
	CancelFlow(ctx context.Context, userID, flowID string) error
}

// ConfirmationNotifier is told when a flow reaches its confirmed state.
// Failures are logged, never allowed to fail the booking itself.
type ConfirmationNotifier interface {
	BookingConfirmed(ctx context.Context, record *models.ArchivedBooking, checkInTime string)
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	Store      SessionStore
	Properties propertyRepo.PropertyRepository
	Backend    remote.BackendClient
	Gate       *AvailabilityGate
	Payments   *PaymentProcessor
	Archive    ArchiveWriter
	Notifier   ConfirmationNotifier
	Logger     *zap.Logger
}

// ArchiveWriter mirrors confirmed bookings into the local read model.
type ArchiveWriter interface {
	Insert(record *models.ArchivedBooking) error
}
