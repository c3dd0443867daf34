package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-glam/internal/tasks"
)

// Notifier consumes notify:event tasks in the worker and delivers
// transactional email for enabled topics.
type Notifier struct {
	Mail         EmailSender
	Enabled      bool
	TopicToggles map[string]bool
	Log          zerolog.Logger
	OnResult     func(topic, result string)
}

// HandleTask implements the asynq handler signature for tasks.TypeNotifyEvent.
func (n *Notifier) HandleTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.NotifyEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("notify: decode task: %v: %w", err, asynq.SkipRetry)
	}

	result, err := n.deliver(ctx, payload)
	n.report(payload.Topic, result)
	logEvent := n.Log.Info()
	if err != nil {
		logEvent = n.Log.Error().Err(err)
	}
	logEvent.
		Str("topic", payload.Topic).
		Str("event_id", payload.EventID).
		Str("result", result).
		Msg("notification processed")
	return err
}

func (n *Notifier) deliver(ctx context.Context, payload tasks.NotifyEventPayload) (string, error) {
	if !n.Enabled || n.Mail == nil {
		return "disabled", nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[payload.Topic]; ok && !enabled {
			return "muted", nil
		}
	}
	body := map[string]any{}
	if len(payload.Payload) > 0 {
		if err := json.Unmarshal(payload.Payload, &body); err != nil {
			return "malformed", fmt.Errorf("notify: decode event payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	to := extractRecipient(body)
	if to == "" {
		return "no_recipient", nil
	}
	subject := subjectFor(payload.Topic)
	html := bodyFor(payload.Topic, body, payload.OccurredAt)
	if err := n.Mail.Send(ctx, to, subject, html); err != nil {
		return "error", fmt.Errorf("notify: send email: %w", err)
	}
	return "sent", nil
}

func (n *Notifier) report(topic, result string) {
	if n.OnResult != nil {
		n.OnResult(topic, result)
	}
}
