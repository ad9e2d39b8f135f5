package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/stats"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxTitleLength = 120
	maxNotesLength = 2000
	maxExercises   = 50
	maxDurationMin = 1440
	maxHintLength  = 500
)

// WorkoutInput is a manually logged (or edited) workout.
type WorkoutInput struct {
	Title          string
	Type           domain.WorkoutType
	Date           time.Time
	DurationMin    int
	Intensity      int
	CaloriesBurned int
	Exercises      []domain.ExerciseEntry
	Notes          string
}

// VideoWorkout is the workout created from a video together with the
// model's full analysis.
type VideoWorkout struct {
	Workout  *domain.Workout   `json:"workout"`
	Analysis *ai.VideoAnalysis `json:"analysis"`
}

type WorkoutService interface {
	LogWorkout(ctx context.Context, playerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) error

	RequestVideoUpload(ctx context.Context, playerID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	AnalyzeVideo(ctx context.Context, playerID primitive.ObjectID, objectKey, hint string) (*VideoWorkout, error)

	Stats(ctx context.Context, playerID primitive.ObjectID, days int) (*stats.Summary, error)
}

type workoutService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	uploads     *uploadManager
	flows       *ai.Flows
	now         func() time.Time
	logger      *zap.Logger
}

func NewWorkoutService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	flows *ai.Flows,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		uploads:     newUploadManager(uploadRepo, fileStorage, logger),
		flows:       flows,
		now:         time.Now,
		logger:      logger,
	}
}

func validateWorkout(in *WorkoutInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Notes = strings.TrimSpace(in.Notes)
	switch {
	case in.Title == "":
		return invalid("title is required")
	case utf8.RuneCountInString(in.Title) > maxTitleLength:
		return invalid("title must be at most %d characters", maxTitleLength)
	case !validWorkoutType(in.Type):
		return invalid("type must be one of %v", domain.WorkoutTypes)
	case in.DurationMin < 1 || in.DurationMin > maxDurationMin:
		return invalid("durationMin must be between 1 and %d", maxDurationMin)
	case in.Intensity < 1 || in.Intensity > 10:
		return invalid("intensity must be between 1 and 10")
	case in.CaloriesBurned < 0:
		return invalid("caloriesBurned cannot be negative")
	case len(in.Exercises) > maxExercises:
		return invalid("at most %d exercises", maxExercises)
	case utf8.RuneCountInString(in.Notes) > maxNotesLength:
		return invalid("notes must be at most %d characters", maxNotesLength)
	}
	for i := range in.Exercises {
		e := &in.Exercises[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return invalid("exercise %d: name is required", i+1)
		}
		if e.Sets < 0 || e.Reps < 0 || e.WeightKg < 0 || e.DurationSec < 0 {
			return invalid("exercise %d: values cannot be negative", i+1)
		}
	}
	return nil
}

func validWorkoutType(t domain.WorkoutType) bool {
	for _, known := range domain.WorkoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (s *workoutService) LogWorkout(ctx context.Context, playerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := validateWorkout(&in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.now().UTC()
	}
	if in.Date.After(s.now().Add(24 * time.Hour)) {
		return nil, invalid("date cannot be in the future")
	}

	workout := &domain.Workout{
		PlayerID:       playerID,
		Title:          in.Title,
		Type:           in.Type,
		Date:           in.Date.UTC(),
		DurationMin:    in.DurationMin,
		Intensity:      in.Intensity,
		CaloriesBurned: in.CaloriesBurned,
		Exercises:      in.Exercises,
		Notes:          in.Notes,
		Source:         domain.SourceManual,
	}
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	return s.workoutRepo.ListByPlayer(ctx, playerID, page)
}

// GetWorkout hides other players' workouts behind ErrWorkoutNotFound.
func (s *workoutService) GetWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.PlayerID != playerID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := validateWorkout(&in); err != nil {
		return nil, err
	}
	workout, err := s.GetWorkout(ctx, playerID, workoutID)
	if err != nil {
		return nil, err
	}

	workout.Title = in.Title
	workout.Type = in.Type
	if !in.Date.IsZero() {
		workout.Date = in.Date.UTC()
	}
	workout.DurationMin = in.DurationMin
	workout.Intensity = in.Intensity
	workout.CaloriesBurned = in.CaloriesBurned
	workout.Exercises = in.Exercises
	workout.Notes = in.Notes

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, playerID, workoutID primitive.ObjectID) error {
	workout, err := s.GetWorkout(ctx, playerID, workoutID)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	s.uploads.Remove(ctx, workout.VideoKey)
	return nil
}

func (s *workoutService) RequestVideoUpload(ctx context.Context, playerID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	return s.uploads.RequestURL(ctx, playerID, domain.PurposeWorkoutVideo, contentType)
}

// AnalyzeVideo runs the uploaded video through the model and stores the
// result as a video-sourced workout.
func (s *workoutService) AnalyzeVideo(ctx context.Context, playerID primitive.ObjectID, objectKey, hint string) (*VideoWorkout, error) {
	hint = strings.TrimSpace(hint)
	if utf8.RuneCountInString(hint) > maxHintLength {
		return nil, invalid("hint must be at most %d characters", maxHintLength)
	}

	user, err := getUser(ctx, s.userRepo, playerID)
	if err != nil {
		return nil, err
	}
	upload, err := s.uploads.Resolve(ctx, playerID, domain.PurposeWorkoutVideo, objectKey)
	if err != nil {
		return nil, err
	}
	media, err := s.uploads.Fetch(ctx, upload)
	if err != nil {
		return nil, err
	}

	analysis, err := s.flows.AnalyzeVideo.Run(ctx, ai.VideoInput{Athlete: athleteOf(user), Hint: hint}, media)
	if err != nil {
		return nil, err
	}

	exercises := make([]domain.ExerciseEntry, 0, len(analysis.Exercises))
	for _, e := range analysis.Exercises {
		exercises = append(exercises, domain.ExerciseEntry{
			Name:        e.Name,
			Sets:        e.Sets,
			Reps:        e.Reps,
			WeightKg:    e.WeightKg,
			DurationSec: e.DurationSec,
		})
	}
	workout := &domain.Workout{
		PlayerID:       playerID,
		Title:          truncate(analysis.Title, maxTitleLength),
		Type:           domain.ParseWorkoutType(analysis.Type),
		Date:           s.now().UTC(),
		DurationMin:    analysis.DurationMin,
		Intensity:      analysis.Intensity,
		CaloriesBurned: analysis.CaloriesBurned,
		Exercises:      exercises,
		Notes:          strings.Join(analysis.FormFeedback, "\n"),
		Source:         domain.SourceVideo,
		VideoKey:       upload.S3ObjectKey,
		AISummary:      analysis.Summary,
	}
	if err := s.uploads.Claim(ctx, upload); err != nil {
		return nil, err
	}
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		s.uploads.Release(ctx, upload.S3ObjectKey)
		return nil, err
	}

	s.logger.Info("workout created from video",
		zap.String("player_id", playerID.Hex()),
		zap.String("workout_id", workout.ID.Hex()),
		zap.Int("exercises", len(exercises)),
	)
	return &VideoWorkout{Workout: workout, Analysis: analysis}, nil
}

func (s *workoutService) Stats(ctx context.Context, playerID primitive.ObjectID, days int) (*stats.Summary, error) {
	if days < 1 || days > stats.MaxDays {
		return nil, invalid("days must be between 1 and %d", stats.MaxDays)
	}
	return playerStats(ctx, s.workoutRepo, playerID, days, s.now())
}

func playerStats(ctx context.Context, repo repository.WorkoutRepository, playerID primitive.ObjectID, days int, now time.Time) (*stats.Summary, error) {
	workouts, err := repo.ListByPlayerSince(ctx, playerID, stats.WindowStart(now, days))
	if err != nil {
		return nil, err
	}
	summary := stats.Compute(workouts, days, now)
	return &summary, nil
}

func athleteOf(u *domain.User) ai.AthleteInput {
	return ai.AthleteInput{Name: u.Name, Role: u.Role, Profile: u.Profile}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
