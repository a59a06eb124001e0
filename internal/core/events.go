package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/messagequeue"
)

type queueEventPublisher struct {
	mq    messagequeue.MessageQueue
	queue string
}

// NewQueueEventPublisher publishes events as JSON to queue.
func NewQueueEventPublisher(mq messagequeue.MessageQueue, queue string) EventPublisher {
	return &queueEventPublisher{mq: mq, queue: queue}
}

func (p *queueEventPublisher) Publish(ctx context.Context, event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	return p.mq.Publish(ctx, p.queue, body)
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, models.Event) error { return nil }

// emitter stamps events and logs publishing failures instead of returning them.
type emitter struct {
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func newEmitter(publisher EventPublisher, logger *zap.Logger) emitter {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	return emitter{publisher: publisher, logger: logger, now: time.Now}
}

func (e emitter) emit(ctx context.Context, event models.Event) {
	event.OccurredAt = e.now().UTC()
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish lifecycle event", zap.String("type", event.Type), zap.Error(err))
	}
}
