package notification

import (
	"context"
	"fmt"

	deviceRepo "wildhaven/database/repository/device"
	"wildhaven/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes and scheduling
// check-in reminders.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	BookingConfirmed(ctx context.Context, record *models.ArchivedBooking, checkInTime string)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	devices deviceRepo.DeviceRepository
	queue   *asynq.Client
	logger  *zap.Logger
}

func NewDefaultNotificationService(devices deviceRepo.DeviceRepository, queue *asynq.Client, logger *zap.Logger) (*DefaultNotificationService, error) {
	if devices == nil {
		return nil, fmt.Errorf("notification service initialization error: device repository is nil")
	}
	return &DefaultNotificationService{
		devices: devices,
		queue:   queue,
		logger:  logger,
	}, nil
}
