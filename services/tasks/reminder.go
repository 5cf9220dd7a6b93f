package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"wildhaven/config"
	"wildhaven/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the asynq task for a scheduled check-in reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// NewQueueClient returns an asynq client on the task queue DB.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
}

// ScheduleReminder enqueues a reminder to fire at the given time. Past fire
// times are rejected rather than fired immediately.
func ScheduleReminder(client *asynq.Client, payload models.ReminderPayload, fireAt time.Time) error {
	if fireAt.Before(time.Now()) {
		return fmt.Errorf("reminder fire time %s is in the past", fireAt.Format(time.RFC3339))
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
