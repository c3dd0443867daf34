package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Task type names routed through asynq.
const (
	TypeNotifyEvent      = "notify:event"
	TypeBookingExpire    = "booking:expire"
	TypeAnalyticsRefresh = "analytics:refresh"
)

// NotifyEventPayload carries a persisted domain event to the notification worker.
type NotifyEventPayload struct {
	EventID     string          `json:"eventId"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// BookingExpirePayload identifies a booking whose payment hold may have lapsed.
type BookingExpirePayload struct {
	BookingID string `json:"bookingId"`
}

// NewNotifyEventTask wraps a domain event for asynchronous notification fan-out.
func NewNotifyEventTask(event dbgen.DomainEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(NotifyEventPayload{
		EventID:     uuid.UUID(event.ID.Bytes).String(),
		Topic:       event.Topic,
		AggregateID: uuid.UUID(event.AggregateID.Bytes).String(),
		Payload:     json.RawMessage(event.Payload),
		OccurredAt:  event.OccurredAt.Time,
	})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal notify payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyEvent, payload), nil
}

// NewBookingExpireTask creates the deferred expiry check for a booking.
func NewBookingExpireTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(BookingExpirePayload{BookingID: bookingID})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal expire payload: %w", err)
	}
	return asynq.NewTask(TypeBookingExpire, payload), nil
}

// NewAnalyticsRefreshTask creates the periodic dashboard refresh task.
func NewAnalyticsRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeAnalyticsRefresh, nil)
}
