package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadPurpose says what an uploaded object is for; it also decides the
// key prefix in the bucket and which content types are accepted.
type UploadPurpose string

const (
	PurposeWorkoutVideo UploadPurpose = "workout_video"
	PurposePhysique     UploadPurpose = "physique"
	PurposePostImage    UploadPurpose = "post_image"
	PurposeAvatar       UploadPurpose = "avatar"
)

// Upload stores metadata about an object a user was allowed to put into
// the bucket. The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Purpose     UploadPurpose      `bson:"purpose" json:"purpose"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"objectKey"`
	ContentType string             `bson:"contentType" json:"contentType"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	// AttachedAt is set once a workout, post, analysis or avatar owns the object.
	AttachedAt *time.Time `bson:"attachedAt,omitempty" json:"attachedAt,omitempty"`
}
