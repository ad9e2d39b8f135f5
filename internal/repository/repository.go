package repository

import (
	"alcyxob/sportlink/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page selects a window of a time-ordered list: at most Limit items
// strictly older than Before (zero Before means "from the newest").
// BeforeID breaks ties between items sharing the Before timestamp: when
// set, items at exactly Before with a smaller ID are included too.
type Page struct {
	Limit    int
	Before   time.Time
	BeforeID primitive.ObjectID
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps Limit into [1, MaxPageLimit].
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// TxRunner runs fn inside a database transaction. Repository calls made
// with the ctx passed to fn take part in the transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.Profile) error
	ListCoaches(ctx context.Context, sport string, limit int) ([]domain.User, error)
	AddPlayerToCoach(ctx context.Context, coachID, playerID primitive.ObjectID) error
	RemovePlayerFromCoach(ctx context.Context, coachID, playerID primitive.ObjectID) error
	// SetCoachForPlayer links the player only when they have no coach yet.
	SetCoachForPlayer(ctx context.Context, playerID, coachID primitive.ObjectID) error
	ClearCoachForPlayer(ctx context.Context, playerID, coachID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	ListByPlayer(ctx context.Context, playerID primitive.ObjectID, page Page) ([]domain.Workout, error)
	ListByPlayerSince(ctx context.Context, playerID primitive.ObjectID, since time.Time) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	SetAISummary(ctx context.Context, id primitive.ObjectID, summary string) error
	Delete(ctx context.Context, id, playerID primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByObjectKey(ctx context.Context, key string) (*domain.Upload, error)
	// Attach marks an unattached upload as owned by a record.
	// ErrUpdateFailed when it is already attached, ErrNotFound when missing.
	Attach(ctx context.Context, key string, at time.Time) error
	Detach(ctx context.Context, key string) error
	DeleteByObjectKey(ctx context.Context, key string) error
}

// InviteRepository stores coach → player invitations.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invite, error)
	FindPending(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Invite, error)
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Invite, error)
	// MarkAccepted flips a pending invite; ErrUpdateFailed when it was not pending.
	MarkAccepted(ctx context.Context, id, playerID primitive.ObjectID, at time.Time) error
}

// ConversationRepository stores conversations and their messages.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error)
	FindByParticipants(ctx context.Context, participants []primitive.ObjectID) (*domain.Conversation, error)
	ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error)
	TouchLastMessage(ctx context.Context, id primitive.ObjectID, msg *domain.Message) error
	AddMessage(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	// ListMessages returns the newest page older than page.Before, oldest first.
	ListMessages(ctx context.Context, conversationID primitive.ObjectID, page Page) ([]domain.Message, error)
}

// PostRepository stores the community feed.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	List(ctx context.Context, page Page) ([]domain.Post, error)
	Delete(ctx context.Context, id, authorID primitive.ObjectID) error
	// Like and Unlike report whether the like set changed.
	Like(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	Unlike(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	AddComment(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error)
	ListComments(ctx context.Context, postID primitive.ObjectID, page Page) ([]domain.Comment, error)
	DeleteComments(ctx context.Context, postID primitive.ObjectID) error
}

// PhysiqueRepository stores physique analyses.
type PhysiqueRepository interface {
	Create(ctx context.Context, analysis *domain.PhysiqueAnalysis) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhysiqueAnalysis, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// InsightRepository stores AI flow outputs.
type InsightRepository interface {
	Create(ctx context.Context, insight *domain.Insight) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error)
}
