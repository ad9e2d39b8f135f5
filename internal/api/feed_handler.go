package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedHandler struct {
	feedService service.FeedService
}

func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

type CreatePostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageKey string `json:"imageKey"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Router /posts/upload-url [post]
func (h *FeedHandler) RequestImageUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	resp, err := h.feedService.RequestImageUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		handleServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /posts [post]
func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	post, err := h.feedService.CreatePost(c.Request.Context(), userID, req.Content, req.ImageKey)
	if err != nil {
		handleServiceError(c, err, "Failed to create post.")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Router /posts [get]
func (h *FeedHandler) ListPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	posts, err := h.feedService.ListPosts(c.Request.Context(), userID, page)
	if err != nil {
		handleServiceError(c, err, "Failed to load feed.")
		return
	}
	if posts == nil {
		posts = []service.PostView{}
	}
	c.JSON(http.StatusOK, posts)
}

// @Router /posts/{postId} [get]
func (h *FeedHandler) GetPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := objectIDParam(c, "postId")
	if !ok {
		return
	}
	post, err := h.feedService.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		handleServiceError(c, err, "Failed to load post.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Router /posts/{postId} [delete]
func (h *FeedHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := objectIDParam(c, "postId")
	if !ok {
		return
	}
	if err := h.feedService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		handleServiceError(c, err, "Failed to delete post.")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /posts/{postId}/like [post]
func (h *FeedHandler) Like(c *gin.Context) {
	h.toggleLike(c, h.feedService.Like)
}

// @Router /posts/{postId}/like [delete]
func (h *FeedHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, h.feedService.Unlike)
}

func (h *FeedHandler) toggleLike(c *gin.Context, op func(ctx context.Context, userID, postID primitive.ObjectID) (*service.PostView, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := objectIDParam(c, "postId")
	if !ok {
		return
	}
	post, err := op(c.Request.Context(), userID, postID)
	if err != nil {
		handleServiceError(c, err, "Failed to update like.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Router /posts/{postId}/comments [post]
func (h *FeedHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := objectIDParam(c, "postId")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	comment, err := h.feedService.AddComment(c.Request.Context(), userID, postID, req.Text)
	if err != nil {
		handleServiceError(c, err, "Failed to add comment.")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Router /posts/{postId}/comments [get]
func (h *FeedHandler) ListComments(c *gin.Context) {
	postID, ok := objectIDParam(c, "postId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	comments, err := h.feedService.ListComments(c.Request.Context(), postID, page)
	if err != nil {
		handleServiceError(c, err, "Failed to load comments.")
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}
