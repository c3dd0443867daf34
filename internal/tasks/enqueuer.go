package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Enqueuer pushes tasks onto the shared asynq queue.
type Enqueuer struct {
	Client *asynq.Client
	Queue  string
}

// Schedule implements events.Scheduler by handing the event to the
// notification worker.
func (e Enqueuer) Schedule(ctx context.Context, event dbgen.DomainEvent) error {
	if e.Client == nil {
		return errors.New("tasks: client not configured")
	}
	task, err := NewNotifyEventTask(event)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task, asynq.Queue(e.queue()), asynq.MaxRetry(5))
	return err
}

// ScheduleBookingExpiry defers an expiry check until the payment hold lapses.
// Re-enqueueing the same booking is a no-op.
func (e Enqueuer) ScheduleBookingExpiry(ctx context.Context, bookingID string, in time.Duration) error {
	if e.Client == nil {
		return errors.New("tasks: client not configured")
	}
	task, err := NewBookingExpireTask(bookingID)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue()),
		asynq.ProcessIn(in),
		asynq.TaskID("booking:expire:"+bookingID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (e Enqueuer) queue() string {
	if e.Queue == "" {
		return "default"
	}
	return e.Queue
}
