package models

// ReminderPayload is the asynq task payload for a scheduled check-in reminder.
type ReminderPayload struct {
	ReminderID string `json:"reminderId"`
	UserID     string `json:"userId"`
	BookingID  string `json:"bookingId"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
}

// Device links a user to the FCM token of their registered device.
type Device struct {
	UserID    string `bson:"user_id" json:"userId"`
	FCMToken  string `bson:"fcm_token" json:"fcmToken"`
	Platform  string `bson:"platform" json:"platform"`
	UpdatedAt int64  `bson:"updated_at" json:"updatedAt"`
}
