package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truefit-backend-go/internal/models"
	"truefit-backend-go/pkg/messagequeue"
)

// loopbackQueue hands published bodies straight to the consumer.
type loopbackQueue struct {
	published map[string][][]byte
	err       error
}

func (q *loopbackQueue) Publish(_ context.Context, queueName string, body []byte) error {
	if q.err != nil {
		return q.err
	}
	if q.published == nil {
		q.published = make(map[string][][]byte)
	}
	q.published[queueName] = append(q.published[queueName], body)
	return nil
}

func (q *loopbackQueue) Consume(ctx context.Context, queueName string, handler messagequeue.Handler) error {
	for _, body := range q.published[queueName] {
		if err := handler(ctx, body); err != nil {
			return err
		}
	}
	return nil
}

func (q *loopbackQueue) Close() error { return nil }

type sentMail struct{ to, subject, body string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(recipient, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{recipient, subject, body})
	return nil
}

func TestPublishThenConsume(t *testing.T) {
	q := &loopbackQueue{}
	pub := NewQueuePublisher(q, "truefit.events")

	err := pub.Publish(context.Background(), models.Event{
		Type:       models.EventApplicationRejected,
		Email:      "a@x.com",
		Name:       "A",
		OccurredAt: time.Now(),
		Data:       map[string]string{"adminFeedback": "<b>incomplete</b>"},
	})
	require.NoError(t, err)
	require.Len(t, q.published["truefit.events"], 1)

	sender := &fakeSender{}
	require.NoError(t, NewConsumer(q, "truefit.events", sender, nil).Run(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@x.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "not approved")
	assert.Contains(t, sender.sent[0].body, "&lt;b&gt;incomplete&lt;/b&gt;")
}

func TestPublishError(t *testing.T) {
	q := &loopbackQueue{err: errors.New("channel closed")}
	err := NewQueuePublisher(q, "events").Publish(context.Background(), models.Event{Type: models.EventBookingRecorded})
	assert.ErrorContains(t, err, "channel closed")
}

func TestHandleDropsBadMessages(t *testing.T) {
	sender := &fakeSender{}
	c := NewConsumer(&loopbackQueue{}, "events", sender, nil)

	assert.NoError(t, c.Handle(context.Background(), []byte("{not json")))

	noRecipient, _ := json.Marshal(models.Event{Type: models.EventBookingRecorded})
	assert.NoError(t, c.Handle(context.Background(), noRecipient))

	unknown, _ := json.Marshal(models.Event{Type: "user.deleted", Email: "a@x.com"})
	assert.NoError(t, c.Handle(context.Background(), unknown))

	assert.Empty(t, sender.sent)
}

func TestHandleReturnsSendErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp timeout")}
	c := NewConsumer(&loopbackQueue{}, "events", sender, nil)

	body, _ := json.Marshal(models.Event{Type: models.EventBookingRecorded, Email: "m@x.com", Data: map[string]string{"paymentId": "pi_1"}})
	assert.Error(t, c.Handle(context.Background(), body))
}

func TestRenderEveryEventType(t *testing.T) {
	for _, typ := range []models.EventType{
		models.EventApplicationSubmitted,
		models.EventApplicationApproved,
		models.EventApplicationRejected,
		models.EventBookingRecorded,
	} {
		subject, body, ok := render(models.Event{Type: typ, Email: "a@x.com"})
		assert.True(t, ok, typ)
		assert.NotEmpty(t, subject, typ)
		assert.Contains(t, body, "a@x.com", typ)
	}
}
