package mongo

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	postCollectionName    = "posts"
	commentCollectionName = "comments"
)

type mongoPostRepository struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewMongoPostRepository creates a new Post repository backed by MongoDB.
func NewMongoPostRepository(db *mongo.Database) repository.PostRepository {
	return &mongoPostRepository{
		posts:    db.Collection(postCollectionName),
		comments: db.Collection(commentCollectionName),
	}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error) {
	if post.AuthorID == primitive.NilObjectID || post.Content == "" {
		return primitive.NilObjectID, errors.New("post requires authorId and content")
	}
	post.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.LikedBy == nil {
		post.LikedBy = []primitive.ObjectID{}
	}

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return primitive.NilObjectID, err
	}
	return post.ID, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var post domain.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns a page of the global feed, newest first.
func (r *mongoPostRepository) List(ctx context.Context, page repository.Page) ([]domain.Post, error) {
	page = page.Normalize()
	filter := bson.M{}
	applyBefore(filter, "createdAt", page)
	opts := options.Find().
		SetSort(newestFirst("createdAt")).
		SetLimit(int64(page.Limit))

	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []domain.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post if authorID wrote it.
func (r *mongoPostRepository) Delete(ctx context.Context, id, authorID primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id, "authorId": authorID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Like adds userID to the like set. The filter only matches when the user is
// not in the set yet, so the counter moves exactly when the set changes.
func (r *mongoPostRepository) Like(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}}
	update := bson.M{
		"$addToSet": bson.M{"likedBy": userID},
		"$inc":      bson.M{"likeCount": 1},
	}
	return r.toggle(ctx, id, filter, update)
}

// Unlike is the inverse of Like.
func (r *mongoPostRepository) Unlike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "likedBy": userID}
	update := bson.M{
		"$pull": bson.M{"likedBy": userID},
		"$inc":  bson.M{"likeCount": -1},
	}
	return r.toggle(ctx, id, filter, update)
}

func (r *mongoPostRepository) toggle(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (bool, error) {
	result, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if result.MatchedCount > 0 {
		return true, nil
	}
	// Either the post is missing or the like state already matched.
	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// AddComment inserts the comment and bumps the post's counter.
func (r *mongoPostRepository) AddComment(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error) {
	if comment.PostID == primitive.NilObjectID || comment.AuthorID == primitive.NilObjectID || comment.Text == "" {
		return primitive.NilObjectID, errors.New("comment requires postId, authorId and text")
	}
	result, err := r.posts.UpdateOne(ctx, bson.M{"_id": comment.PostID}, bson.M{"$inc": bson.M{"commentCount": 1}})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if result.MatchedCount == 0 {
		return primitive.NilObjectID, repository.ErrNotFound
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return primitive.NilObjectID, err
	}
	return comment.ID, nil
}

// ListComments returns a page of comments under a post, newest first.
func (r *mongoPostRepository) ListComments(ctx context.Context, postID primitive.ObjectID, page repository.Page) ([]domain.Comment, error) {
	page = page.Normalize()
	filter := bson.M{"postId": postID}
	applyBefore(filter, "createdAt", page)
	opts := options.Find().
		SetSort(newestFirst("createdAt")).
		SetLimit(int64(page.Limit))

	cursor, err := r.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []domain.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *mongoPostRepository) DeleteComments(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.comments.DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

// EnsurePostIndexes creates necessary indexes for the posts collection.
func EnsurePostIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureCommentIndexes creates necessary indexes for the comments collection.
func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
