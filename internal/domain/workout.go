package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutType string

const (
	WorkoutStrength WorkoutType = "strength"
	WorkoutCardio   WorkoutType = "cardio"
	WorkoutHIIT     WorkoutType = "hiit"
	WorkoutSport    WorkoutType = "sport"
	WorkoutMobility WorkoutType = "mobility"
	WorkoutOther    WorkoutType = "other"
)

// WorkoutTypes lists the accepted workout types in display order.
var WorkoutTypes = []WorkoutType{WorkoutStrength, WorkoutCardio, WorkoutHIIT, WorkoutSport, WorkoutMobility, WorkoutOther}

// ParseWorkoutType maps free text (as returned by the video flow) onto a
// known type, falling back to "other".
func ParseWorkoutType(s string) WorkoutType {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range WorkoutTypes {
		if string(t) == s {
			return t
		}
	}
	return WorkoutOther
}

// WorkoutSource records how a workout entered the system.
type WorkoutSource string

const (
	SourceManual WorkoutSource = "manual"
	SourceVideo  WorkoutSource = "video"
)

// ExerciseEntry is one exercise performed within a logged workout.
type ExerciseEntry struct {
	Name        string  `bson:"name" json:"name"`
	Sets        int     `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        int     `bson:"reps,omitempty" json:"reps,omitempty"`
	WeightKg    float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	DurationSec int     `bson:"durationSec,omitempty" json:"durationSec,omitempty"`
}

// Workout is a single training session logged by a player.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlayerID       primitive.ObjectID `bson:"playerId" json:"playerId"`
	Title          string             `bson:"title" json:"title"`
	Type           WorkoutType        `bson:"type" json:"type"`
	Date           time.Time          `bson:"date" json:"date"`
	DurationMin    int                `bson:"durationMin" json:"durationMin"`
	Intensity      int                `bson:"intensity" json:"intensity"` // 1-10 perceived effort
	CaloriesBurned int                `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Exercises      []ExerciseEntry    `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Source         WorkoutSource      `bson:"source" json:"source"`
	VideoKey       string             `bson:"videoKey,omitempty" json:"-"`
	AISummary      string             `bson:"aiSummary,omitempty" json:"aiSummary,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
