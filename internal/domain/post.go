package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is an entry in the community feed.
type Post struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID     primitive.ObjectID   `bson:"authorId" json:"authorId"`
	AuthorName   string               `bson:"authorName" json:"authorName"`
	AuthorRole   Role                 `bson:"authorRole" json:"authorRole"`
	Content      string               `bson:"content" json:"content"`
	ImageKey     string               `bson:"imageKey,omitempty" json:"-"`
	LikedBy      []primitive.ObjectID `bson:"likedBy" json:"-"`
	LikeCount    int                  `bson:"likeCount" json:"likeCount"`
	CommentCount int                  `bson:"commentCount" json:"commentCount"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// LikedByUser reports whether id is in the post's like set.
func (p *Post) LikedByUser(id primitive.ObjectID) bool {
	for _, l := range p.LikedBy {
		if l == id {
			return true
		}
	}
	return false
}

// Comment is a reply under a Post.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID     primitive.ObjectID `bson:"postId" json:"postId"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
