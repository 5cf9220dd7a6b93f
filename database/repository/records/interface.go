package recordsRepo

import "wildhaven/models"

// BookingArchiveRepository stores the local read model of confirmed bookings.
type BookingArchiveRepository interface {
	Insert(record *models.ArchivedBooking) error
	GetByBookingID(bookingID string) (*models.ArchivedBooking, error)
	ListByUser(userID string) ([]models.ArchivedBooking, error)
}
