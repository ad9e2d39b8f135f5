package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMemoryBroker_RoutesByTopic(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewMemoryBroker()
	defer b.Close()
	ctx := context.Background()

	feed, cancelFeed, err := b.Subscribe(ctx, FeedTopic)
	require.NoError(t, err)
	defer cancelFeed()
	both, cancelBoth, err := b.Subscribe(ctx, FeedTopic, "user:1")
	require.NoError(t, err)
	defer cancelBoth()

	ev, err := NewEvent("user:1", TypeInviteCreated, map[string]string{"coach": "Kim"})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, ev))

	got := receive(t, both)
	assert.Equal(t, TypeInviteCreated, got.Type)
	assert.JSONEq(t, `{"coach":"Kim"}`, string(got.Data))

	select {
	case <-feed:
		t.Fatal("feed subscriber received a user event")
	default:
	}
}

func TestMemoryBroker_CancelIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewMemoryBroker()
	ch, cancel, err := b.Subscribe(context.Background(), FeedTopic)
	require.NoError(t, err)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// publishing after cancel reaches nobody and does not panic
	assert.NoError(t, b.Publish(context.Background(), Event{Topic: FeedTopic}))
	require.NoError(t, b.Close())
}

func TestMemoryBroker_ContextEndsSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := b.Subscribe(ctx, FeedTopic)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestMemoryBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewMemoryBroker()
	_, cancel, err := b.Subscribe(context.Background(), FeedTopic)
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, b.Publish(context.Background(), Event{Topic: FeedTopic}))
	}
}

func TestMemoryBroker_Closed(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewMemoryBroker()
	ch, _, err := b.Subscribe(context.Background(), FeedTopic)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, b.Publish(context.Background(), Event{Topic: FeedTopic}), ErrClosed)
	_, _, err = b.Subscribe(context.Background(), FeedTopic)
	assert.ErrorIs(t, err, ErrClosed)
}
