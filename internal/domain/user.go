package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleCoach
}

// Profile holds the self-described athletic details shown on a user's page
// and fed into the AI flows.
type Profile struct {
	Sport      string   `bson:"sport,omitempty" json:"sport,omitempty"`
	Position   string   `bson:"position,omitempty" json:"position,omitempty"`
	Age        int      `bson:"age,omitempty" json:"age,omitempty"`
	HeightCm   float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg   float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Bio        string   `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarKey  string   `bson:"avatarKey,omitempty" json:"-"`
	Goals      []string `bson:"goals,omitempty" json:"goals,omitempty"`
	Experience string   `bson:"experience,omitempty" json:"experience,omitempty"` // beginner, intermediate, advanced, pro
}

// User represents a user in the system (either a Coach or a Player).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Profile      Profile            `bson:"profile" json:"profile"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Coach side of the roster.
	PlayerIDs []primitive.ObjectID `bson:"playerIds,omitempty" json:"playerIds,omitempty"`

	// Player side of the roster.
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsPlayer() bool {
	return u.Role == RolePlayer
}

// CoachedBy reports whether the player is on coachID's roster.
func (u *User) CoachedBy(coachID primitive.ObjectID) bool {
	return u.CoachID != nil && *u.CoachID == coachID
}
