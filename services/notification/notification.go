package notification

import (
	"context"
	"fmt"
	"time"

	"wildhaven/models"
	"wildhaven/services/tasks"
	"wildhaven/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reminderLeadTime is how long before check-in the reminder fires.
const reminderLeadTime = 24 * time.Hour

// SendUserPushNotification looks up the guest's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPushNotification(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	token, err := s.devices.GetToken(userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find device for user %s: %w", userID, err)
	}
	if token == "" {
		return fmt.Errorf("SendUserPushNotification: user %s has no FCM token", userID)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

// BookingConfirmed sends the confirmation push and schedules the check-in
// reminder. Best-effort: failures are logged and swallowed, the booking is
// already confirmed.
func (s *DefaultNotificationService) BookingConfirmed(ctx context.Context, record *models.ArchivedBooking, checkInTime string) {
	title := "Booking confirmed"
	body := fmt.Sprintf("Your stay at %s from %s to %s is confirmed.",
		record.PropertyName, record.StartDate, record.EndDate)

	if err := s.SendUserPushNotification(ctx, record.UserID, title, body, map[string]string{
		"type":      "booking_confirmed",
		"bookingId": record.BookingID,
	}); err != nil {
		s.logger.Warn("confirmation push not delivered",
			zap.String("bookingID", record.BookingID),
			zap.Error(err))
	}

	if s.queue == nil {
		return
	}
	if err := s.scheduleCheckInReminder(record, checkInTime); err != nil {
		s.logger.Warn("check-in reminder not scheduled",
			zap.String("bookingID", record.BookingID),
			zap.Error(err))
	}
}

// scheduleCheckInReminder enqueues a reminder 24h before check-in. Stays
// starting within the lead time get no reminder.
func (s *DefaultNotificationService) scheduleCheckInReminder(record *models.ArchivedBooking, checkInTime string) error {
	// Rate cards without a check-in time default to mid-afternoon.
	if checkInTime == "" {
		checkInTime = "15:00"
	}
	checkIn, err := time.Parse("2006-01-02 15:04", record.StartDate+" "+checkInTime)
	if err != nil {
		return fmt.Errorf("unparseable check-in %q %q: %w", record.StartDate, checkInTime, err)
	}

	fireAt := checkIn.Add(-reminderLeadTime)
	payload := models.ReminderPayload{
		ReminderID: uuid.New().String(),
		UserID:     record.UserID,
		BookingID:  record.BookingID,
		Title:      "Your stay starts tomorrow",
		Body: fmt.Sprintf("Check-in at %s opens at %s. Have a great trip!",
			record.PropertyName, checkInTime),
		FireDate: fireAt.Format(time.RFC3339),
	}
	return tasks.ScheduleReminder(s.queue, payload, fireAt)
}
