// Package realtime fans domain events out to websocket listeners through a
// pub/sub Broker (Redis across instances, in-process for single-node runs).
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types.
const (
	TypeInviteCreated  = "invite.created"
	TypeInviteAccepted = "invite.accepted"
	TypeMessageCreated = "message.created"
	TypePostCreated    = "post.created"
	TypePostLiked      = "post.liked"
	TypeCommentCreated = "comment.created"
)

// FeedTopic carries community feed activity.
const FeedTopic = "feed"

const (
	userTopicPrefix         = "user:"
	conversationTopicPrefix = "conversation:"
)

var ErrClosed = errors.New("realtime: broker closed")

// Event is what listeners receive.
type Event struct {
	Topic string          `json:"topic"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	At    time.Time       `json:"at"`
}

// NewEvent marshals data into an Event stamped with the current time.
func NewEvent(topic, eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Topic: topic, Type: eventType, Data: raw, At: time.Now().UTC()}, nil
}

func UserTopic(id primitive.ObjectID) string {
	return userTopicPrefix + id.Hex()
}

func ConversationTopic(id primitive.ObjectID) string {
	return conversationTopicPrefix + id.Hex()
}

// Publisher is the write side the services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Broker delivers published events to subscribers of the event's topic.
// The returned cancel func is idempotent and closes the channel; the
// subscription also ends when ctx is done.
type Broker interface {
	Publisher
	Subscribe(ctx context.Context, topics ...string) (<-chan Event, func(), error)
	Close() error
}
