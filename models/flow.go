package models

import "time"

// FlowStep is the booking flow's current step. Transitions are linear with
// no skipping forward; 2→1 and 3→2 backward moves are permitted.
type FlowStep string

const (
	StepSelectingDates   FlowStep = "selecting_dates"
	StepCapturingDetails FlowStep = "capturing_details"
	StepPaying           FlowStep = "paying"
	StepConfirmed        FlowStep = "confirmed"
	StepFailed           FlowStep = "failed"
)

// FlowSession holds one in-progress booking attempt: one guest, one
// property/date combination. It lives in the flow cache with a TTL and is
// never persisted; expiry abandons the attempt with nothing finalized.
type FlowSession struct {
	FlowID string `json:"flowId"`
	UserID string `json:"userId"`

	// Snapshot of the property taken at flow start.
	PropertyID   string      `json:"propertyId"`
	PropertyName string      `json:"propertyName"`
	MaxOccupancy int         `json:"maxOccupancy"`
	PetFriendly  bool        `json:"petFriendly"`
	Pricing      PricingRule `json:"pricing"`

	Step FlowStep    `json:"step"`
	Stay StayRequest `json:"stay"`

	// Quote is recomputed on every stay mutation; QuoteError carries the
	// validation code when the current inputs do not price.
	Quote      *PriceBreakdown `json:"quote,omitempty"`
	QuoteError string          `json:"quoteError,omitempty"`

	// AvailabilityChecked is true when the remote has confirmed the current
	// dates; any date change resets it.
	AvailabilityChecked bool `json:"availabilityChecked"`

	// Booking is set once create-booking succeeds; its ID is frozen.
	// SubmittedStay records the stay content the booking was created from.
	Booking       *BookingRecord `json:"booking,omitempty"`
	SubmittedStay *StayRequest   `json:"submittedStay,omitempty"`

	Payment     PaymentState         `json:"payment"`
	Intent      *PaymentIntentHandle `json:"intent,omitempty"`
	PaymentID   string               `json:"paymentId,omitempty"`
	FailureCode string               `json:"failureCode,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
