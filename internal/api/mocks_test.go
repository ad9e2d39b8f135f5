package api

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/service"
	"alcyxob/sportlink/internal/stats"
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Typed getters keep the mock methods short. A nil first return value
// stands for "no result".

func result[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

// --- auth ---

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	return result[*domain.User](args, 0), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), result[*domain.User](args, 1), args.Error(2)
}

func (m *mockAuthService) ParseToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	return result[*service.Claims](args, 0), args.Error(1)
}

// --- profile ---

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) GetMe(ctx context.Context, userID primitive.ObjectID) (*service.ProfileView, error) {
	args := m.Called(ctx, userID)
	return result[*service.ProfileView](args, 0), args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd service.ProfileUpdate) (*service.ProfileView, error) {
	args := m.Called(ctx, userID, upd)
	return result[*service.ProfileView](args, 0), args.Error(1)
}

func (m *mockProfileService) RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	args := m.Called(ctx, userID, contentType)
	return result[*service.UploadURLResponse](args, 0), args.Error(1)
}

func (m *mockProfileService) GetProfile(ctx context.Context, viewerID, userID primitive.ObjectID) (*service.ProfileView, error) {
	args := m.Called(ctx, viewerID, userID)
	return result[*service.ProfileView](args, 0), args.Error(1)
}

func (m *mockProfileService) ListCoaches(ctx context.Context, sport string, limit int) ([]service.ProfileView, error) {
	args := m.Called(ctx, sport, limit)
	return result[[]service.ProfileView](args, 0), args.Error(1)
}

// --- coach ---

type mockCoachService struct{ mock.Mock }

func (m *mockCoachService) CreateInvite(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error) {
	args := m.Called(ctx, coachID, email)
	return result[*domain.Invite](args, 0), args.Error(1)
}

func (m *mockCoachService) ListSentInvites(ctx context.Context, coachID primitive.ObjectID) ([]domain.Invite, error) {
	args := m.Called(ctx, coachID)
	return result[[]domain.Invite](args, 0), args.Error(1)
}

func (m *mockCoachService) ListMyInvites(ctx context.Context, playerID primitive.ObjectID) ([]domain.Invite, error) {
	args := m.Called(ctx, playerID)
	return result[[]domain.Invite](args, 0), args.Error(1)
}

func (m *mockCoachService) AcceptInvite(ctx context.Context, playerID, inviteID primitive.ObjectID) (*domain.Invite, error) {
	args := m.Called(ctx, playerID, inviteID)
	return result[*domain.Invite](args, 0), args.Error(1)
}

func (m *mockCoachService) ListRoster(ctx context.Context, coachID primitive.ObjectID) ([]service.ProfileView, error) {
	args := m.Called(ctx, coachID)
	return result[[]service.ProfileView](args, 0), args.Error(1)
}

func (m *mockCoachService) ListPlayerWorkouts(ctx context.Context, coachID, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	args := m.Called(ctx, coachID, playerID, page)
	return result[[]domain.Workout](args, 0), args.Error(1)
}

func (m *mockCoachService) RemovePlayer(ctx context.Context, coachID, playerID primitive.ObjectID) error {
	return m.Called(ctx, coachID, playerID).Error(0)
}

func (m *mockCoachService) ManagedPlayer(ctx context.Context, coachID, playerID primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, coachID, playerID)
	return result[*domain.User](args, 0), args.Error(1)
}

// --- workouts ---

type mockWorkoutService struct{ mock.Mock }

func (m *mockWorkoutService) LogWorkout(ctx context.Context, playerID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, playerID, in)
	return result[*domain.Workout](args, 0), args.Error(1)
}

func (m *mockWorkoutService) ListWorkouts(ctx context.Context, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	args := m.Called(ctx, playerID, page)
	return result[[]domain.Workout](args, 0), args.Error(1)
}

func (m *mockWorkoutService) GetWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, playerID, workoutID)
	return result[*domain.Workout](args, 0), args.Error(1)
}

func (m *mockWorkoutService) UpdateWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, playerID, workoutID, in)
	return result[*domain.Workout](args, 0), args.Error(1)
}

func (m *mockWorkoutService) DeleteWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) error {
	return m.Called(ctx, playerID, workoutID).Error(0)
}

func (m *mockWorkoutService) RequestVideoUpload(ctx context.Context, playerID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	args := m.Called(ctx, playerID, contentType)
	return result[*service.UploadURLResponse](args, 0), args.Error(1)
}

func (m *mockWorkoutService) AnalyzeVideo(ctx context.Context, playerID primitive.ObjectID, objectKey, hint string) (*service.VideoWorkout, error) {
	args := m.Called(ctx, playerID, objectKey, hint)
	return result[*service.VideoWorkout](args, 0), args.Error(1)
}

func (m *mockWorkoutService) Stats(ctx context.Context, playerID primitive.ObjectID, days int) (*stats.Summary, error) {
	args := m.Called(ctx, playerID, days)
	return result[*stats.Summary](args, 0), args.Error(1)
}

// --- insights ---

type mockInsightService struct{ mock.Mock }

func (m *mockInsightService) WorkoutInsights(ctx context.Context, userID primitive.ObjectID, days int) (*ai.WorkoutInsights, error) {
	args := m.Called(ctx, userID, days)
	return result[*ai.WorkoutInsights](args, 0), args.Error(1)
}

func (m *mockInsightService) SummarizeWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*ai.WorkoutSummary, error) {
	args := m.Called(ctx, userID, workoutID)
	return result[*ai.WorkoutSummary](args, 0), args.Error(1)
}

func (m *mockInsightService) SportMatch(ctx context.Context, userID primitive.ObjectID) (*ai.SportMatch, error) {
	args := m.Called(ctx, userID)
	return result[*ai.SportMatch](args, 0), args.Error(1)
}

func (m *mockInsightService) ScoutingReport(ctx context.Context, coachID, playerID primitive.ObjectID) (*ai.ScoutingReport, error) {
	args := m.Called(ctx, coachID, playerID)
	return result[*ai.ScoutingReport](args, 0), args.Error(1)
}

func (m *mockInsightService) History(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error) {
	args := m.Called(ctx, userID, kind, limit)
	return result[[]domain.Insight](args, 0), args.Error(1)
}

// --- physique ---

type mockPhysiqueService struct{ mock.Mock }

func (m *mockPhysiqueService) RequestUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	args := m.Called(ctx, userID, contentType)
	return result[*service.UploadURLResponse](args, 0), args.Error(1)
}

func (m *mockPhysiqueService) Analyze(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.PhysiqueAnalysis, error) {
	args := m.Called(ctx, userID, objectKey)
	return result[*domain.PhysiqueAnalysis](args, 0), args.Error(1)
}

func (m *mockPhysiqueService) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error) {
	args := m.Called(ctx, userID, limit)
	return result[[]domain.PhysiqueAnalysis](args, 0), args.Error(1)
}

func (m *mockPhysiqueService) Delete(ctx context.Context, userID, analysisID primitive.ObjectID) error {
	return m.Called(ctx, userID, analysisID).Error(0)
}

// --- messaging ---

type mockMessagingService struct{ mock.Mock }

func (m *mockMessagingService) StartConversation(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.Conversation, error) {
	args := m.Called(ctx, userID, otherID)
	return result[*domain.Conversation](args, 0), args.Error(1)
}

func (m *mockMessagingService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return result[[]domain.Conversation](args, 0), args.Error(1)
}

func (m *mockMessagingService) ListMessages(ctx context.Context, userID, conversationID primitive.ObjectID, page repository.Page) ([]domain.Message, error) {
	args := m.Called(ctx, userID, conversationID, page)
	return result[[]domain.Message](args, 0), args.Error(1)
}

func (m *mockMessagingService) SendMessage(ctx context.Context, userID, conversationID primitive.ObjectID, text string) (*domain.Message, error) {
	args := m.Called(ctx, userID, conversationID, text)
	return result[*domain.Message](args, 0), args.Error(1)
}

func (m *mockMessagingService) IsParticipant(ctx context.Context, conversationID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

// --- feed ---

type mockFeedService struct{ mock.Mock }

func (m *mockFeedService) RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	args := m.Called(ctx, userID, contentType)
	return result[*service.UploadURLResponse](args, 0), args.Error(1)
}

func (m *mockFeedService) CreatePost(ctx context.Context, userID primitive.ObjectID, content, imageKey string) (*service.PostView, error) {
	args := m.Called(ctx, userID, content, imageKey)
	return result[*service.PostView](args, 0), args.Error(1)
}

func (m *mockFeedService) ListPosts(ctx context.Context, viewerID primitive.ObjectID, page repository.Page) ([]service.PostView, error) {
	args := m.Called(ctx, viewerID, page)
	return result[[]service.PostView](args, 0), args.Error(1)
}

func (m *mockFeedService) GetPost(ctx context.Context, viewerID, postID primitive.ObjectID) (*service.PostView, error) {
	args := m.Called(ctx, viewerID, postID)
	return result[*service.PostView](args, 0), args.Error(1)
}

func (m *mockFeedService) DeletePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *mockFeedService) Like(ctx context.Context, userID, postID primitive.ObjectID) (*service.PostView, error) {
	args := m.Called(ctx, userID, postID)
	return result[*service.PostView](args, 0), args.Error(1)
}

func (m *mockFeedService) Unlike(ctx context.Context, userID, postID primitive.ObjectID) (*service.PostView, error) {
	args := m.Called(ctx, userID, postID)
	return result[*service.PostView](args, 0), args.Error(1)
}

func (m *mockFeedService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) (*domain.Comment, error) {
	args := m.Called(ctx, userID, postID, text)
	return result[*domain.Comment](args, 0), args.Error(1)
}

func (m *mockFeedService) ListComments(ctx context.Context, postID primitive.ObjectID, page repository.Page) ([]domain.Comment, error) {
	args := m.Called(ctx, postID, page)
	return result[[]domain.Comment](args, 0), args.Error(1)
}

// --- realtime ---

type mockHub struct{ mock.Mock }

func (m *mockHub) Authorize(ctx context.Context, userID primitive.ObjectID, topics []string) error {
	return m.Called(ctx, userID, topics).Error(0)
}

func (m *mockHub) ServeWS(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, topics []string) error {
	return m.Called(w, r, userID, topics).Error(0)
}
