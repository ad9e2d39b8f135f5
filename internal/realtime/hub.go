package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxClientFrame = 512
	maxTopics      = 20
)

var (
	ErrNoTopics       = errors.New("no topics requested")
	ErrTooManyTopics  = fmt.Errorf("at most %d topics per connection", maxTopics)
	ErrTopicForbidden = errors.New("topic not allowed")
)

// MembershipFunc reports whether userID takes part in a conversation.
type MembershipFunc func(ctx context.Context, conversationID, userID primitive.ObjectID) (bool, error)

// Hub upgrades authenticated requests to websockets and streams events
// for the topics a user may see: their own user topic, the feed, and
// conversations they take part in.
type Hub struct {
	broker   Broker
	isMember MembershipFunc
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(broker Broker, isMember MembershipFunc, logger *zap.Logger) *Hub {
	return &Hub{
		broker:   broker,
		isMember: isMember,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers connect from the web app's origin; auth is the bearer token.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ParseTopics splits a comma separated topic list, dropping blanks and duplicates.
func ParseTopics(raw string) []string {
	seen := map[string]struct{}{}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}
	return topics
}

// Authorize checks every topic against userID's permissions.
func (h *Hub) Authorize(ctx context.Context, userID primitive.ObjectID, topics []string) error {
	if len(topics) == 0 {
		return ErrNoTopics
	}
	if len(topics) > maxTopics {
		return ErrTooManyTopics
	}
	for _, t := range topics {
		switch {
		case t == FeedTopic:
		case t == UserTopic(userID):
		case strings.HasPrefix(t, conversationTopicPrefix):
			convID, err := primitive.ObjectIDFromHex(strings.TrimPrefix(t, conversationTopicPrefix))
			if err != nil {
				return fmt.Errorf("%w: %s", ErrTopicForbidden, t)
			}
			ok, err := h.isMember(ctx, convID, userID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrTopicForbidden, t)
			}
		default:
			return fmt.Errorf("%w: %s", ErrTopicForbidden, t)
		}
	}
	return nil
}

// ServeWS upgrades the connection and blocks until the client goes away.
// Topics must already be authorized.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, topics []string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe, err := h.broker.Subscribe(ctx, topics...)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return err
	}
	defer unsubscribe()

	log := h.logger.With(zap.String("user_id", userID.Hex()), zap.Strings("topics", topics))
	log.Debug("websocket connected")

	go h.readPump(conn, cancel, log)
	h.writePump(ctx, conn, events, log)

	log.Debug("websocket disconnected")
	return nil
}

// readPump discards client frames and keeps the read deadline fresh on
// pongs. Any read error ends the connection.
func (h *Hub) readPump(conn *websocket.Conn, cancel context.CancelFunc, log *zap.Logger) {
	defer cancel()
	conn.SetReadLimit(maxClientFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, conn *websocket.Conn, events <-chan Event, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
