package models

// Occupancy is the party composition for a stay. Infants do not count
// towards a property's occupancy limit; pets attract the pet fee.
type Occupancy struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Pets     int `json:"pets"`
}

// StayRequest is the guest's desired reservation before submission.
// Dates use the "2006-01-02" layout. The property ID is fixed at flow start.
type StayRequest struct {
	PropertyID      string    `json:"propertyId"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Occupancy       Occupancy `json:"occupancy"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

// Equal reports whether two stay requests have identical content. Used to
// decide whether a booking created from an earlier submission can be reused.
func (s StayRequest) Equal(o StayRequest) bool {
	return s.PropertyID == o.PropertyID &&
		s.StartDate == o.StartDate &&
		s.EndDate == o.EndDate &&
		s.Occupancy == o.Occupancy &&
		s.SpecialRequests == o.SpecialRequests
}
