package api

import (
	"alcyxob/sportlink/internal/realtime"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RealtimeHub is the part of realtime.Hub the handler needs.
type RealtimeHub interface {
	Authorize(ctx context.Context, userID primitive.ObjectID, topics []string) error
	ServeWS(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, topics []string) error
}

type WSHandler struct {
	hub    RealtimeHub
	logger *zap.Logger
}

func NewWSHandler(hub RealtimeHub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Connect godoc
// @Summary Subscribe to realtime events over a websocket
// @Tags Realtime
// @Security BearerAuth
// @Param topics query string true "Comma separated topics: feed, user:<id>, conversation:<id>"
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101
// @Failure 403 {object} gin.H "Topic not allowed"
// @Router /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	topics := realtime.ParseTopics(c.Query("topics"))
	if err := h.hub.Authorize(c.Request.Context(), userID, topics); err != nil {
		switch {
		case errors.Is(err, realtime.ErrNoTopics), errors.Is(err, realtime.ErrTooManyTopics):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, realtime.ErrTopicForbidden):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to authorize topics.")
		}
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, userID, topics); err != nil {
		h.logger.Warn("websocket session ended with error", zap.String("user_id", userID.Hex()), zap.Error(err))
	}
}
