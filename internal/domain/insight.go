package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsightKind names the flow that produced an Insight.
type InsightKind string

const (
	InsightWorkouts   InsightKind = "insights"
	InsightSummary    InsightKind = "summary"
	InsightSportMatch InsightKind = "sport_match"
	InsightScouting   InsightKind = "scouting"
)

// Valid reports whether k is a known kind.
func (k InsightKind) Valid() bool {
	switch k {
	case InsightWorkouts, InsightSummary, InsightSportMatch, InsightScouting:
		return true
	}
	return false
}

// Insight keeps the structured output of an AI flow run for later viewing.
// SubjectID is the workout (summary) or player (scouting) the run was about.
type Insight struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Kind      InsightKind         `bson:"kind" json:"kind"`
	SubjectID *primitive.ObjectID `bson:"subjectId,omitempty" json:"subjectId,omitempty"`
	Payload   bson.M              `bson:"payload" json:"payload"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
