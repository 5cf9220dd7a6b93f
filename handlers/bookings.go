package handlers

import (
	"net/http"

	recordsRepo "wildhaven/database/repository/records"
	"wildhaven/utils"

	"github.com/gin-gonic/gin"
)

// BookingArchive is wired in main before the router starts serving.
var BookingArchive recordsRepo.BookingArchiveRepository

// ListMyBookings returns the guest's confirmed bookings, newest first.
func ListMyBookings(c *gin.Context) {
	bookings, err := BookingArchive.ListByUser(userID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, codeInternal, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns one archived booking, scoped to its guest.
func GetBooking(c *gin.Context) {
	record, err := BookingArchive.GetByBookingID(c.Param("bookingID"))
	if err != nil || record.UserID != userID(c) {
		utils.JSONError(c, http.StatusNotFound, codeNotFound, "booking not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": record})
}
