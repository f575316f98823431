package messagequeue

import "context"

// Handler processes one message. Returning an error nacks the delivery.
type Handler func(ctx context.Context, body []byte) error

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	// Consume blocks, dispatching deliveries to handler until ctx is cancelled
	// or the broker closes the channel.
	Consume(ctx context.Context, queueName string, handler Handler) error
	Close() error
}
