// Package notify carries committed domain events over the message queue and turns them into
// e-mails on the consuming side.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"truefit-backend-go/internal/models"
	"truefit-backend-go/pkg/messagequeue"
)

// QueuePublisher publishes events as JSON onto one queue.
type QueuePublisher struct {
	mq    messagequeue.MessageQueue
	queue string
}

// NewQueuePublisher returns a publisher writing to queue.
func NewQueuePublisher(mq messagequeue.MessageQueue, queue string) *QueuePublisher {
	return &QueuePublisher{mq: mq, queue: queue}
}

func (p *QueuePublisher) Publish(ctx context.Context, event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	if err := p.mq.Publish(ctx, p.queue, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
