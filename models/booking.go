package models

import "time"

// BookingRecord is the local proxy for a booking owned by the remote
// platform. It is immutable once returned, except for the terminal status
// transition driven by payment confirmation.
type BookingRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "pending", "confirmed"
}

// Booking status values as reported by the remote platform.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// ArchivedBooking mirrors a confirmed booking for the guest dashboard.
// The remote platform remains the owner of booking truth; this is a read model.
type ArchivedBooking struct {
	BookingID    string         `bson:"booking_id" json:"bookingId"`
	UserID       string         `bson:"user_id" json:"userId"`
	PropertyID   string         `bson:"property_id" json:"propertyId"`
	PropertyName string         `bson:"property_name" json:"propertyName"`
	StartDate    string         `bson:"start_date" json:"startDate"`
	EndDate      string         `bson:"end_date" json:"endDate"`
	Occupancy    Occupancy      `bson:"occupancy" json:"occupancy"`
	Breakdown    PriceBreakdown `bson:"breakdown" json:"breakdown"`
	PaymentID    string         `bson:"payment_id" json:"paymentId"`
	Status       string         `bson:"status" json:"status"`
	CreatedAt    time.Time      `bson:"created_at" json:"createdAt"`
}
