package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestParseTopics(t *testing.T) {
	assert.Equal(t, []string{"feed", "user:1"}, ParseTopics(" feed, ,user:1,feed"))
	assert.Nil(t, ParseTopics(""))
}

func TestHub_Authorize(t *testing.T) {
	user := primitive.NewObjectID()
	member := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	hub := NewHub(NewMemoryBroker(), func(_ context.Context, convID, userID primitive.ObjectID) (bool, error) {
		if convID == stranger {
			return false, errors.New("db down")
		}
		return convID == member, nil
	}, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, hub.Authorize(ctx, user, []string{FeedTopic, UserTopic(user), ConversationTopic(member)}))
	assert.ErrorIs(t, hub.Authorize(ctx, user, nil), ErrNoTopics)
	assert.ErrorIs(t, hub.Authorize(ctx, user, []string{UserTopic(primitive.NewObjectID())}), ErrTopicForbidden)
	assert.ErrorIs(t, hub.Authorize(ctx, user, []string{ConversationTopic(primitive.NewObjectID())}), ErrTopicForbidden)
	assert.ErrorIs(t, hub.Authorize(ctx, user, []string{"conversation:zzz"}), ErrTopicForbidden)
	assert.ErrorIs(t, hub.Authorize(ctx, user, []string{"admin"}), ErrTopicForbidden)
	assert.EqualError(t, hub.Authorize(ctx, user, []string{ConversationTopic(stranger)}), "db down")

	many := make([]string, maxTopics+1)
	for i := range many {
		many[i] = FeedTopic
	}
	assert.ErrorIs(t, hub.Authorize(ctx, user, many), ErrTooManyTopics)
}

func TestHub_StreamsEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	broker := NewMemoryBroker()
	defer broker.Close()
	user := primitive.NewObjectID()
	hub := NewHub(broker, nil, zap.NewNop())

	served := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(served)
		_ = hub.ServeWS(w, r, user, []string{FeedTopic, UserTopic(user)})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()

	// The subscription is registered right after the upgrade; retry the
	// publish until the client sees it.
	ev, err := NewEvent(FeedTopic, TypePostCreated, map[string]string{"id": "p1"})
	require.NoError(t, err)

	got := make(chan Event, 1)
	go func() {
		var e Event
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		if err := conn.ReadJSON(&e); err == nil {
			got <- e
		}
		close(got)
	}()

	var received Event
	deadline := time.After(3 * time.Second)
loop:
	for {
		require.NoError(t, broker.Publish(context.Background(), ev))
		select {
		case e, ok := <-got:
			require.True(t, ok, "no event received")
			received = e
			break loop
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out")
		}
	}
	assert.Equal(t, TypePostCreated, received.Type)
	assert.Equal(t, FeedTopic, received.Topic)

	require.NoError(t, conn.Close())
	select {
	case <-served:
	case <-time.After(3 * time.Second):
		t.Fatal("ServeWS did not return after client disconnect")
	}
}
