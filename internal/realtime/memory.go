package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

// MemoryBroker is an in-process Broker. A subscriber that falls behind by
// more than its buffer loses events rather than blocking publishers.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[*memorySub]struct{}
	closed bool
}

type memorySub struct {
	topics map[string]struct{}
	ch     chan Event
	once   sync.Once
	done   chan struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[*memorySub]struct{})}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for s := range b.subs {
		if _, ok := s.topics[ev.Topic]; !ok {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topics ...string) (<-chan Event, func(), error) {
	s := &memorySub{
		topics: make(map[string]struct{}, len(topics)),
		ch:     make(chan Event, subscriberBuffer),
		done:   make(chan struct{}),
	}
	for _, t := range topics {
		s.topics[t] = struct{}{}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrClosed
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	cancel := func() { b.remove(s) }
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-s.done:
		}
	}()
	return s.ch, cancel, nil
}

func (b *MemoryBroker) remove(s *memorySub) {
	s.once.Do(func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		close(s.done)
		close(s.ch)
	})
}

// Close ends every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := make([]*memorySub, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		b.remove(s)
	}
	return nil
}
