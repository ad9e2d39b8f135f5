package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is a direct thread between users. ParticipantIDs is kept
// sorted so the pair can be looked up with an exact match.
type Conversation struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ParticipantIDs []primitive.ObjectID `bson:"participantIds" json:"participantIds"`
	// PairKey is "<idA>:<idB>" for the sorted pair; unique per 1:1 thread.
	PairKey string `bson:"pairKey" json:"-"`
	LastMessage    string               `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastSenderID   *primitive.ObjectID  `bson:"lastSenderId,omitempty" json:"lastSenderId,omitempty"`
	LastMessageAt  *time.Time           `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether id takes part in the conversation.
func (c *Conversation) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Message belongs to a Conversation via ConversationID.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversationId" json:"conversationId"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	Text           string             `bson:"text" json:"text"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// PairKey builds the canonical key for a 1:1 conversation between a and b.
func PairKey(a, b primitive.ObjectID) string {
	ha, hb := a.Hex(), b.Hex()
	if strings.Compare(ha, hb) > 0 {
		ha, hb = hb, ha
	}
	return ha + ":" + hb
}
