package realtime

import (
	"alcyxob/sportlink/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a client for the pub/sub broker.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})
}

// RedisBroker publishes events on Redis channels named prefix+topic so
// every server instance sees them.
type RedisBroker struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisBroker(client *redis.Client, prefix string, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, prefix: prefix, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.prefix+ev.Topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", ev.Topic, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, topics ...string) (<-chan Event, func(), error) {
	channels := make([]string, len(topics))
	for i, t := range topics {
		channels[i] = b.prefix + t
	}

	ps := b.client.Subscribe(ctx, channels...)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				if ev.Topic == "" {
					ev.Topic = strings.TrimPrefix(msg.Channel, b.prefix)
				}
				select {
				case out <- ev:
				default:
					b.logger.Warn("subscriber slow, event dropped", zap.String("topic", ev.Topic))
				}
			}
		}
	}()

	return out, cancel, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
