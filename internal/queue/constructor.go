package queue

import (
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/propertyhub-api/internal/notify"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

// Enqueuer is the part of *asynq.Client the queue needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Queue struct {
	client     Enqueuer
	dispatcher *notify.Dispatcher
}

func NewQueue(client Enqueuer, dispatcher *notify.Dispatcher) *Queue {
	return &Queue{client: client, dispatcher: dispatcher}
}

const TaskTypeLeadNotification = "lead:notify"

type LeadNotificationPayload struct {
	Channel string                     `json:"channel"`
	Lead    *transfer.LeadNotification `json:"lead"`
}
