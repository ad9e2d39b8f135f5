package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
)

// Invite is a coach's request for a player (by email) to join their roster.
type Invite struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID  `bson:"coachId" json:"coachId"`
	CoachName   string              `bson:"coachName" json:"coachName"`
	PlayerEmail string              `bson:"playerEmail" json:"playerEmail"`
	PlayerID    *primitive.ObjectID `bson:"playerId,omitempty" json:"playerId,omitempty"`
	Status      InviteStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	RespondedAt *time.Time          `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}
