package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessagingHandler struct {
	messagingService service.MessagingService
}

func NewMessagingHandler(messagingService service.MessagingService) *MessagingHandler {
	return &MessagingHandler{messagingService: messagingService}
}

type StartConversationRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// StartConversation godoc
// @Summary Find or create the 1:1 conversation with another user
// @Tags Messaging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartConversationRequest true "Other participant"
// @Success 200 {object} domain.Conversation
// @Router /conversations [post]
func (h *MessagingHandler) StartConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	otherID, err := primitive.ObjectIDFromHex(req.ParticipantID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid participantId format.")
		return
	}
	conv, err := h.messagingService.StartConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		handleServiceError(c, err, "Failed to start conversation.")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListConversations godoc
// @Summary The caller's conversations, most recent activity first
// @Tags Messaging
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Conversation
// @Router /conversations [get]
func (h *MessagingHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	convs, err := h.messagingService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Failed to list conversations.")
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	c.JSON(http.StatusOK, convs)
}

// ListMessages godoc
// @Summary A page of messages, oldest first within the page
// @Tags Messaging
// @Produce json
// @Security BearerAuth
// @Param conversationId path string true "Conversation ID"
// @Param limit query int false "Page size"
// @Param before query string false "RFC3339 cursor"
// @Param beforeId query string false "ID of the last item seen, breaks ties on before"
// @Success 200 {array} domain.Message
// @Router /conversations/{conversationId}/messages [get]
func (h *MessagingHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	convID, ok := objectIDParam(c, "conversationId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	msgs, err := h.messagingService.ListMessages(c.Request.Context(), userID, convID, page)
	if err != nil {
		handleServiceError(c, err, "Failed to list messages.")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary Send a message
// @Tags Messaging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conversationId path string true "Conversation ID"
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Router /conversations/{conversationId}/messages [post]
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	convID, ok := objectIDParam(c, "conversationId")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	msg, err := h.messagingService.SendMessage(c.Request.Context(), userID, convID, req.Text)
	if err != nil {
		handleServiceError(c, err, "Failed to send message.")
		return
	}
	c.JSON(http.StatusCreated, msg)
}
