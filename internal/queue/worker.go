package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleLeadNotificationTask(ctx context.Context, task *asynq.Task) error {
	var payload LeadNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode lead notification: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Lead == nil {
		return fmt.Errorf("lead notification without lead: %w", asynq.SkipRetry)
	}

	if err := q.dispatcher.Send(ctx, payload.Channel, payload.Lead); err != nil {
		slog.Warn("lead notification dropped", "channel", payload.Channel, "listing_id", payload.Lead.ListingID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	slog.Info("lead notification delivered", "channel", payload.Channel, "listing_id", payload.Lead.ListingID)
	return nil
}
