package service

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxMessageLength = 2000

var ErrMessageSelf = errors.New("cannot start a conversation with yourself")

type MessagingService interface {
	StartConversation(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID primitive.ObjectID, page repository.Page) ([]domain.Message, error)
	SendMessage(ctx context.Context, userID, conversationID primitive.ObjectID, text string) (*domain.Message, error)
	// IsParticipant backs realtime topic authorization.
	IsParticipant(ctx context.Context, conversationID, userID primitive.ObjectID) (bool, error)
}

type messagingService struct {
	userRepo repository.UserRepository
	convRepo repository.ConversationRepository
	events   notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewMessagingService(
	userRepo repository.UserRepository,
	convRepo repository.ConversationRepository,
	publisher realtime.Publisher,
	logger *zap.Logger,
) MessagingService {
	return &messagingService{
		userRepo: userRepo,
		convRepo: convRepo,
		events:   notifier{publisher: publisher, logger: logger},
		now:      time.Now,
		logger:   logger,
	}
}

// participantPair returns the two ids in canonical (sorted) order.
func participantPair(a, b primitive.ObjectID) []primitive.ObjectID {
	if strings.Compare(a.Hex(), b.Hex()) > 0 {
		a, b = b, a
	}
	return []primitive.ObjectID{a, b}
}

// StartConversation returns the existing 1:1 conversation with otherID or
// creates it.
func (s *messagingService) StartConversation(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.Conversation, error) {
	if userID == otherID {
		return nil, ErrMessageSelf
	}
	if _, err := getUser(ctx, s.userRepo, otherID); err != nil {
		return nil, err
	}

	pair := participantPair(userID, otherID)
	conv, err := s.convRepo.FindByParticipants(ctx, pair)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conv = &domain.Conversation{ParticipantIDs: pair, PairKey: domain.PairKey(userID, otherID)}
	if _, err := s.convRepo.Create(ctx, conv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.convRepo.FindByParticipants(ctx, pair)
		}
		return nil, err
	}
	return conv, nil
}

func (s *messagingService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	return s.convRepo.ListByParticipant(ctx, userID)
}

func (s *messagingService) conversationFor(ctx context.Context, userID, conversationID primitive.ObjectID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return conv, nil
}

func (s *messagingService) ListMessages(ctx context.Context, userID, conversationID primitive.ObjectID, page repository.Page) ([]domain.Message, error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.convRepo.ListMessages(ctx, conversationID, page)
}

func (s *messagingService) SendMessage(ctx context.Context, userID, conversationID primitive.ObjectID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text is required")
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, invalid("text must be at most %d characters", maxMessageLength)
	}
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.convRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.convRepo.TouchLastMessage(ctx, conversationID, msg); err != nil {
		s.logger.Warn("update conversation preview failed", zap.String("conversation_id", conversationID.Hex()), zap.Error(err))
	}

	s.events.notify(ctx, realtime.ConversationTopic(conversationID), realtime.TypeMessageCreated, msg)
	return msg, nil
}

func (s *messagingService) IsParticipant(ctx context.Context, conversationID, userID primitive.ObjectID) (bool, error) {
	_, err := s.conversationFor(ctx, userID, conversationID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrConversationNotFound):
		return false, nil
	}
	return false, err
}
