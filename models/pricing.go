package models

// PriceBreakdown is an itemized stay total, recomputed from current inputs
// whenever dates or pet count change. Amounts are whole currency units.
type PriceBreakdown struct {
	Nights      int    `json:"nights"`
	BasePrice   int64  `json:"basePrice"`
	CleaningFee int64  `json:"cleaningFee"`
	PetFee      int64  `json:"petFee"`
	ServiceFee  int64  `json:"serviceFee"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}
