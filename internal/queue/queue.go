package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

func EnqueueLeadNotification(client Enqueuer, payload LeadNotificationPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeLeadNotification, taskPayload)

	// Delivery is best effort, one attempt only.
	_, err = client.Enqueue(task, asynq.MaxRetry(0), asynq.Timeout(30*time.Second))
	if err != nil {
		return err
	}

	slog.Debug("lead notification queued", "channel", payload.Channel, "listing_id", payload.Lead.ListingID)
	return nil
}

// NotifyLead queues one task per configured channel. Failures are only logged.
func (q *Queue) NotifyLead(ctx context.Context, n *transfer.LeadNotification) {
	for _, channel := range q.dispatcher.Channels() {
		err := EnqueueLeadNotification(q.client, LeadNotificationPayload{Channel: channel, Lead: n})
		if err != nil {
			slog.Error("failed to queue lead notification", "channel", channel, "listing_id", n.ListingID, "error", err)
		}
	}
}
