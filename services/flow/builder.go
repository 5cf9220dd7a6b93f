package flow

import (
	"fmt"

	"wildhaven/models"
	"wildhaven/services/remote"
)

// ValidateStay runs the pre-submission rules in order, first violation wins:
// dates present, range valid, minimum stay, occupancy counts sane, occupancy
// cap, pet policy. All rules are local; no remote call is made on a
// validation failure.
func ValidateStay(session *models.FlowSession) (*models.PriceBreakdown, error) {
	stay := session.Stay

	// Rules 1-3 are the calculator's own input constraints.
	breakdown, err := ComputePrice(stay, session.Pricing)
	if err != nil {
		return nil, err
	}

	// Negative counts would subvert the capacity comparison below.
	occ := stay.Occupancy
	if occ.Adults < 0 || occ.Children < 0 || occ.Infants < 0 || occ.Pets < 0 {
		return nil, NewFlowError(CodeInvalidOccupancy, "occupancy counts cannot be negative", nil)
	}

	if stay.Occupancy.Adults+stay.Occupancy.Children > session.MaxOccupancy {
		return nil, NewFlowError(CodeOccupancyExceeded,
			fmt.Sprintf("party of %d exceeds the property's capacity of %d",
				stay.Occupancy.Adults+stay.Occupancy.Children, session.MaxOccupancy), nil)
	}

	if stay.Occupancy.Pets > 0 && !session.PetFriendly {
		return nil, NewFlowError(CodePetsNotAllowed, "this property does not accept pets", nil)
	}

	return breakdown, nil
}

// BuildBookingRequest assembles the create-booking payload from a session
// whose stay has already validated. The breakdown passed in must be the one
// recomputed at submission time; stale totals are never charged.
func BuildBookingRequest(session *models.FlowSession, breakdown models.PriceBreakdown) remote.CreateBookingRequest {
	return remote.CreateBookingRequest{
		PropertyID:      session.PropertyID,
		UserID:          session.UserID,
		StartDate:       session.Stay.StartDate,
		EndDate:         session.Stay.EndDate,
		Occupancy:       session.Stay.Occupancy,
		SpecialRequests: session.Stay.SpecialRequests,
		Pricing:         breakdown,
	}
}
