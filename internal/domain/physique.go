package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhysiqueAnalysis is the stored result of rating a user's physique photo.
// Scores are on a 1-10 scale.
type PhysiqueAnalysis struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ImageKey     string             `bson:"imageKey" json:"-"`
	OverallScore float64            `bson:"overallScore" json:"overallScore"`
	Muscularity  float64            `bson:"muscularity" json:"muscularity"`
	Symmetry     float64            `bson:"symmetry" json:"symmetry"`
	Conditioning float64            `bson:"conditioning" json:"conditioning"`
	Strengths    []string           `bson:"strengths" json:"strengths"`
	Improvements []string           `bson:"improvements" json:"improvements"`
	Summary      string             `bson:"summary" json:"summary"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
