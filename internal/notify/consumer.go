package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"go.uber.org/zap"

	"truefit-backend-go/internal/models"
	"truefit-backend-go/pkg/mailer"
	"truefit-backend-go/pkg/messagequeue"
)

// Consumer reads events from the queue and mails the affected user.
type Consumer struct {
	mq     messagequeue.MessageQueue
	queue  string
	sender mailer.Sender
	logger *zap.Logger
}

// NewConsumer creates a Consumer for queue.
func NewConsumer(mq messagequeue.MessageQueue, queue string, sender mailer.Sender, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{mq: mq, queue: queue, sender: sender, logger: logger}
}

// Run blocks until ctx is cancelled or the queue closes.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Consuming events", zap.String("queue", c.queue))
	return c.mq.Consume(ctx, c.queue, c.Handle)
}

// Handle sends the e-mail for one event. Malformed and unknown events are dropped;
// a failed send is returned so the delivery is retried.
func (c *Consumer) Handle(_ context.Context, body []byte) error {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("Dropping malformed event", zap.Error(err))
		return nil
	}
	if event.Email == "" {
		c.logger.Warn("Dropping event without recipient", zap.String("type", string(event.Type)))
		return nil
	}

	subject, content, ok := render(event)
	if !ok {
		c.logger.Debug("No e-mail for event type", zap.String("type", string(event.Type)))
		return nil
	}
	if err := c.sender.Send(event.Email, subject, content); err != nil {
		c.logger.Warn("Failed to send notification",
			zap.String("type", string(event.Type)),
			zap.String("email", event.Email),
			zap.Error(err))
		return err
	}
	c.logger.Info("Notification sent", zap.String("type", string(event.Type)), zap.String("email", event.Email))
	return nil
}

func render(event models.Event) (subject, body string, ok bool) {
	name := event.Name
	if name == "" {
		name = event.Email
	}
	greeting := fmt.Sprintf("<p>Hi %s,</p>", html.EscapeString(name))

	switch event.Type {
	case models.EventApplicationSubmitted:
		return "We received your trainer application",
			greeting + "<p>Thanks for applying to become a TrueFit trainer. An admin will review your application shortly.</p>", true
	case models.EventApplicationApproved:
		return "Your trainer application was approved",
			greeting + "<p>Congratulations! You are now a TrueFit trainer and can start adding slots from your dashboard.</p>", true
	case models.EventApplicationRejected:
		return "Your trainer application was not approved",
			greeting + "<p>Unfortunately your application was not approved.</p>" +
				fmt.Sprintf("<p>Feedback: %s</p>", html.EscapeString(event.Data["adminFeedback"])), true
	case models.EventBookingRecorded:
		return "Booking confirmed",
			greeting + fmt.Sprintf("<p>Your %s package for %s with %s is confirmed. Payment reference: %s.</p>",
				html.EscapeString(event.Data["packageName"]),
				html.EscapeString(event.Data["slotName"]),
				html.EscapeString(event.Data["trainerName"]),
				html.EscapeString(event.Data["paymentId"])), true
	}
	return "", "", false
}
