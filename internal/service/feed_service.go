package service

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxPostLength    = 2000
	maxCommentLength = 1000
)

// PostView is a post as seen by one viewer.
type PostView struct {
	domain.Post
	LikedByMe bool   `json:"likedByMe"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type FeedService interface {
	RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	CreatePost(ctx context.Context, userID primitive.ObjectID, content, imageKey string) (*PostView, error)
	ListPosts(ctx context.Context, viewerID primitive.ObjectID, page repository.Page) ([]PostView, error)
	GetPost(ctx context.Context, viewerID, postID primitive.ObjectID) (*PostView, error)
	DeletePost(ctx context.Context, userID, postID primitive.ObjectID) error
	Like(ctx context.Context, userID, postID primitive.ObjectID) (*PostView, error)
	Unlike(ctx context.Context, userID, postID primitive.ObjectID) (*PostView, error)
	AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID primitive.ObjectID, page repository.Page) ([]domain.Comment, error)
}

type feedService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	uploads  *uploadManager
	events   notifier
	logger   *zap.Logger
}

func NewFeedService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	publisher realtime.Publisher,
	logger *zap.Logger,
) FeedService {
	return &feedService{
		userRepo: userRepo,
		postRepo: postRepo,
		uploads:  newUploadManager(uploadRepo, fileStorage, logger),
		events:   notifier{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (s *feedService) RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	return s.uploads.RequestURL(ctx, userID, domain.PurposePostImage, contentType)
}

func (s *feedService) CreatePost(ctx context.Context, userID primitive.ObjectID, content, imageKey string) (*PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if len([]rune(content)) > maxPostLength {
		return nil, invalid("content must be at most %d characters", maxPostLength)
	}

	author, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		AuthorID:   userID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Content:    content,
	}
	if imageKey != "" {
		upload, err := s.uploads.Resolve(ctx, userID, domain.PurposePostImage, imageKey)
		if err != nil {
			return nil, err
		}
		if err := s.uploads.Claim(ctx, upload); err != nil {
			return nil, err
		}
		post.ImageKey = upload.S3ObjectKey
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		if post.ImageKey != "" {
			s.uploads.Release(ctx, post.ImageKey)
		}
		return nil, err
	}
	view := s.view(ctx, post, userID)
	s.events.notify(ctx, realtime.FeedTopic, realtime.TypePostCreated, view)
	return view, nil
}

func (s *feedService) ListPosts(ctx context.Context, viewerID primitive.ObjectID, page repository.Page) ([]PostView, error) {
	posts, err := s.postRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, *s.view(ctx, &posts[i], viewerID))
	}
	return views, nil
}

func (s *feedService) getPost(ctx context.Context, postID primitive.ObjectID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *feedService) GetPost(ctx context.Context, viewerID, postID primitive.ObjectID) (*PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post, viewerID), nil
}

func (s *feedService) DeletePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.postRepo.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if err := s.postRepo.DeleteComments(ctx, postID); err != nil {
		s.logger.Warn("delete comments failed", zap.String("post_id", postID.Hex()), zap.Error(err))
	}
	s.uploads.Remove(ctx, post.ImageKey)
	return nil
}

// Like is idempotent: liking twice leaves one like.
func (s *feedService) Like(ctx context.Context, userID, postID primitive.ObjectID) (*PostView, error) {
	changed, err := s.postRepo.Like(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	view, err := s.GetPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.events.notify(ctx, realtime.FeedTopic, realtime.TypePostLiked, map[string]any{
			"postId":    postID,
			"likeCount": view.LikeCount,
		})
	}
	return view, nil
}

func (s *feedService) Unlike(ctx context.Context, userID, postID primitive.ObjectID) (*PostView, error) {
	if _, err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.GetPost(ctx, userID, postID)
}

func (s *feedService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text is required")
	}
	if len([]rune(text)) > maxCommentLength {
		return nil, invalid("text must be at most %d characters", maxCommentLength)
	}
	author, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:     postID,
		AuthorID:   userID,
		AuthorName: author.Name,
		Text:       text,
	}
	if _, err := s.postRepo.AddComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.events.notify(ctx, realtime.FeedTopic, realtime.TypeCommentCreated, comment)
	return comment, nil
}

func (s *feedService) ListComments(ctx context.Context, postID primitive.ObjectID, page repository.Page) ([]domain.Comment, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.ListComments(ctx, postID, page)
}

func (s *feedService) view(ctx context.Context, p *domain.Post, viewerID primitive.ObjectID) *PostView {
	return &PostView{
		Post:      *p,
		LikedByMe: p.LikedByUser(viewerID),
		ImageURL:  s.uploads.DownloadURL(ctx, p.ImageKey),
	}
}
