package flow

import (
	"context"

	"wildhaven/services/remote"

	"go.uber.org/zap"
)

// AvailabilityGate wraps the remote existence check that gates progression
// from date selection to detail capture. The remote platform is the source
// of truth for conflicting reservations; nothing is cached locally.
type AvailabilityGate struct {
	Backend remote.BackendClient
	Logger  *zap.Logger
}

// Check returns nil when the dates are free. "No dates free" and "service
// down" are distinct failures: the first asks for new dates, the second is
// retryable as-is.
func (g *AvailabilityGate) Check(ctx context.Context, propertyID, startDate, endDate string) error {
	available, err := g.Backend.CheckAvailability(ctx, propertyID, startDate, endDate)
	if err != nil {
		g.Logger.Warn("availability check failed",
			zap.String("propertyID", propertyID),
			zap.Error(err))
		return NewFlowError(CodeAvailabilityFailed, "could not check availability, please retry", err)
	}
	if !available {
		return NewFlowError(CodeDatesUnavailable, "the selected dates are no longer available", nil)
	}
	return nil
}
