package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/messagequeue"
)

type queued struct {
	queue string
	body  []byte
}

type fakeQueue struct {
	published []queued
}

func (q *fakeQueue) Publish(_ context.Context, queueName string, body []byte) error {
	q.published = append(q.published, queued{queue: queueName, body: body})
	return nil
}

func (q *fakeQueue) Consume(context.Context, string, messagequeue.Handler) error { return nil }

func (q *fakeQueue) Close() error { return nil }

func TestQueueEventPublisherSendsJSON(t *testing.T) {
	q := &fakeQueue{}
	publisher := NewQueueEventPublisher(q, "dancewave.events")

	err := publisher.Publish(context.Background(), models.Event{
		Type:         models.EventSelectionPaid,
		ClassName:    "Salsa101",
		StudentEmail: "a@example.com",
	})
	require.NoError(t, err)
	require.Len(t, q.published, 1)
	assert.Equal(t, "dancewave.events", q.published[0].queue)

	var event models.Event
	require.NoError(t, json.Unmarshal(q.published[0].body, &event))
	assert.Equal(t, models.EventSelectionPaid, event.Type)
	assert.Equal(t, "a@example.com", event.StudentEmail)
}
