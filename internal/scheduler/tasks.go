// Package scheduler runs background maintenance for the identity subsystem
// on asynq. The only recurring job today is webhook delivery log retention.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskPurgeWebhookDeliveries = "provisioning.deliveries.purge"

type PurgeWebhookDeliveriesPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewPurgeWebhookDeliveriesTask(payload PurgeWebhookDeliveriesPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurgeWebhookDeliveries, data), nil
}

func ParsePurgeWebhookDeliveriesPayload(task *asynq.Task) (PurgeWebhookDeliveriesPayload, error) {
	var payload PurgeWebhookDeliveriesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PurgeWebhookDeliveriesPayload{}, err
	}
	return payload, nil
}
