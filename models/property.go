package models

import "time"

// PricingRule is a property's rate card. All amounts are whole currency units.
type PricingRule struct {
	BasePricePerNight int64  `bson:"base_price_per_night" json:"basePricePerNight"`
	CleaningFee       int64  `bson:"cleaning_fee" json:"cleaningFee"`
	PetFee            int64  `bson:"pet_fee" json:"petFee"`
	SecurityDeposit   int64  `bson:"security_deposit" json:"securityDeposit"`
	MinStayNights     int    `bson:"min_stay_nights" json:"minStayNights"`
	CheckInTime       string `bson:"check_in_time" json:"checkInTime"`   // "15:00"
	CheckOutTime      string `bson:"check_out_time" json:"checkOutTime"` // "10:00"
	Currency          string `bson:"currency" json:"currency"`
}

// Property is a bookable unit (caravan, lodge, glamping pod) with its rate card.
type Property struct {
	ID           string      `bson:"id" json:"id"`
	OwnerID      string      `bson:"owner_id" json:"ownerId"`
	Name         string      `bson:"name" json:"name"`
	Description  string      `bson:"description" json:"description"`
	PropertyType string      `bson:"property_type" json:"propertyType"` // "caravan", "lodge", "pod"
	Park         string      `bson:"park" json:"park"`                  // holiday park / site name
	MaxOccupancy int         `bson:"max_occupancy" json:"maxOccupancy"`
	Bedrooms     int         `bson:"bedrooms" json:"bedrooms"`
	PetFriendly  bool        `bson:"pet_friendly" json:"petFriendly"`
	Photos       []string    `bson:"photos" json:"photos"` // storage public IDs
	Pricing      PricingRule `bson:"pricing" json:"pricing"`
	Active       bool        `bson:"active" json:"active"`
	CreatedAt    time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updatedAt"`
}
