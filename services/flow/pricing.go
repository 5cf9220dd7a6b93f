package flow

import (
	"fmt"
	"time"

	"wildhaven/models"
)

const dateLayout = "2006-01-02"

// serviceFeeRate is the marketplace fee applied to the nightly subtotal,
// expressed in percent.
const serviceFeeRate = 12

// ComputePrice maps a stay and a property's rate card to an itemized total.
// Pure and deterministic: safe to call on every input change. All amounts
// are whole currency units; the service fee rounds half-up.
func ComputePrice(stay models.StayRequest, rule models.PricingRule) (*models.PriceBreakdown, error) {
	if stay.StartDate == "" || stay.EndDate == "" {
		return nil, NewFlowError(CodeMissingDates, "both start and end dates are required", nil)
	}

	start, err := time.Parse(dateLayout, stay.StartDate)
	if err != nil {
		return nil, NewFlowError(CodeInvalidDateRange, fmt.Sprintf("invalid start date %q", stay.StartDate), err)
	}
	end, err := time.Parse(dateLayout, stay.EndDate)
	if err != nil {
		return nil, NewFlowError(CodeInvalidDateRange, fmt.Sprintf("invalid end date %q", stay.EndDate), err)
	}

	nights := int(end.Sub(start).Hours() / 24)
	if nights <= 0 {
		return nil, NewFlowError(CodeInvalidDateRange, "end date must be after start date", nil)
	}
	if nights < rule.MinStayNights {
		return nil, NewFlowError(CodeStayTooShort,
			fmt.Sprintf("stay of %d nights is below the %d-night minimum", nights, rule.MinStayNights), nil)
	}

	basePrice := rule.BasePricePerNight * int64(nights)

	var petFee int64
	if stay.Occupancy.Pets > 0 {
		petFee = rule.PetFee
	}

	// Half-up rounding in integer arithmetic, no floats in money paths.
	serviceFee := (basePrice*serviceFeeRate + 50) / 100

	return &models.PriceBreakdown{
		Nights:      nights,
		BasePrice:   basePrice,
		CleaningFee: rule.CleaningFee,
		PetFee:      petFee,
		ServiceFee:  serviceFee,
		Total:       basePrice + rule.CleaningFee + petFee + serviceFee,
		Currency:    rule.Currency,
	}, nil
}
