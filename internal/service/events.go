package service

import (
	"alcyxob/sportlink/internal/realtime"
	"context"

	"go.uber.org/zap"
)

// notifier publishes best-effort realtime events; a failed publish never
// fails the request that caused it.
type notifier struct {
	publisher realtime.Publisher
	logger    *zap.Logger
}

func (n notifier) notify(ctx context.Context, topic, eventType string, data any) {
	if n.publisher == nil {
		return
	}
	ev, err := realtime.NewEvent(topic, eventType, data)
	if err == nil {
		err = n.publisher.Publish(ctx, ev)
	}
	if err != nil {
		n.logger.Warn("realtime publish failed",
			zap.String("topic", topic),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
