package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/stats"
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	insightWindowDays  = 30
	scoutingWindowDays = 90
	recentWorkouts     = 15
	defaultHistory     = 20
	maxHistory         = 100
)

type InsightService interface {
	WorkoutInsights(ctx context.Context, userID primitive.ObjectID, days int) (*ai.WorkoutInsights, error)
	SummarizeWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*ai.WorkoutSummary, error)
	SportMatch(ctx context.Context, userID primitive.ObjectID) (*ai.SportMatch, error)
	ScoutingReport(ctx context.Context, coachID, playerID primitive.ObjectID) (*ai.ScoutingReport, error)
	History(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error)
}

type insightService struct {
	userRepo     repository.UserRepository
	workoutRepo  repository.WorkoutRepository
	physiqueRepo repository.PhysiqueRepository
	insightRepo  repository.InsightRepository
	flows        *ai.Flows
	now          func() time.Time
	logger       *zap.Logger
}

func NewInsightService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	physiqueRepo repository.PhysiqueRepository,
	insightRepo repository.InsightRepository,
	flows *ai.Flows,
	logger *zap.Logger,
) InsightService {
	return &insightService{
		userRepo:     userRepo,
		workoutRepo:  workoutRepo,
		physiqueRepo: physiqueRepo,
		insightRepo:  insightRepo,
		flows:        flows,
		now:          time.Now,
		logger:       logger,
	}
}

// athleteData is the input gathered for a flow about one user.
type athleteData struct {
	user     *domain.User
	workouts []domain.Workout
	stats    stats.Summary
	physique *domain.PhysiqueAnalysis
}

// gather loads the user, their workouts in the window and optionally the
// latest physique analysis concurrently.
func (s *insightService) gather(ctx context.Context, userID primitive.ObjectID, days int, withPhysique bool) (*athleteData, error) {
	now := s.now()
	var d athleteData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := getUser(gctx, s.userRepo, userID)
		d.user = u
		return err
	})
	g.Go(func() error {
		w, err := s.workoutRepo.ListByPlayerSince(gctx, userID, stats.WindowStart(now, days))
		d.workouts = w
		return err
	})
	if withPhysique {
		g.Go(func() error {
			list, err := s.physiqueRepo.ListByUser(gctx, userID, 1)
			if err == nil && len(list) > 0 {
				d.physique = &list[0]
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.stats = stats.Compute(d.workouts, days, now)
	return &d, nil
}

// latest returns the n most recent workouts; ListByPlayerSince sorts ascending.
func latest(workouts []domain.Workout, n int) []domain.Workout {
	out := make([]domain.Workout, 0, n)
	for i := len(workouts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, workouts[i])
	}
	return out
}

func (s *insightService) WorkoutInsights(ctx context.Context, userID primitive.ObjectID, days int) (*ai.WorkoutInsights, error) {
	if days == 0 {
		days = insightWindowDays
	}
	if days < 1 || days > stats.MaxDays {
		return nil, invalid("days must be between 1 and %d", stats.MaxDays)
	}
	d, err := s.gather(ctx, userID, days, false)
	if err != nil {
		return nil, err
	}
	if len(d.workouts) == 0 {
		return nil, invalid("log at least one workout in the last %d days first", days)
	}

	out, err := s.flows.WorkoutInsights.Run(ctx, ai.WorkoutInsightsInput{
		Athlete:  athleteOf(d.user),
		Workouts: latest(d.workouts, recentWorkouts),
		Stats:    d.stats,
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, domain.InsightWorkouts, nil, out)
	return out, nil
}

func (s *insightService) SummarizeWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*ai.WorkoutSummary, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.PlayerID != userID {
		return nil, ErrWorkoutNotFound
	}

	out, err := s.flows.WorkoutSummary.Run(ctx, ai.WorkoutSummaryInput{Athlete: athleteOf(user), Workout: *workout})
	if err != nil {
		return nil, err
	}
	if err := s.workoutRepo.SetAISummary(ctx, workoutID, out.Headline+": "+out.Summary); err != nil {
		return nil, err
	}
	s.store(ctx, userID, domain.InsightSummary, &workoutID, out)
	return out, nil
}

func (s *insightService) SportMatch(ctx context.Context, userID primitive.ObjectID) (*ai.SportMatch, error) {
	d, err := s.gather(ctx, userID, insightWindowDays, false)
	if err != nil {
		return nil, err
	}
	out, err := s.flows.SportMatch.Run(ctx, ai.SportMatchInput{Athlete: athleteOf(d.user), Stats: d.stats})
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, domain.InsightSportMatch, nil, out)
	return out, nil
}

// ScoutingReport is for coaches about players on their roster. The report
// is stored under the coach with the player as subject.
func (s *insightService) ScoutingReport(ctx context.Context, coachID, playerID primitive.ObjectID) (*ai.ScoutingReport, error) {
	d, err := s.gather(ctx, playerID, scoutingWindowDays, true)
	if err != nil {
		return nil, err
	}
	if !d.user.CoachedBy(coachID) {
		return nil, ErrPlayerNotOnRoster
	}

	out, err := s.flows.ScoutingReport.Run(ctx, ai.ScoutingInput{
		Athlete:  athleteOf(d.user),
		Stats:    d.stats,
		Recent:   latest(d.workouts, recentWorkouts),
		Physique: d.physique,
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, coachID, domain.InsightScouting, &playerID, out)
	return out, nil
}

func (s *insightService) History(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error) {
	if kind != "" && !kind.Valid() {
		return nil, invalid("unknown insight kind %q", kind)
	}
	if limit <= 0 {
		limit = defaultHistory
	}
	if limit > maxHistory {
		limit = maxHistory
	}
	return s.insightRepo.ListByUser(ctx, userID, kind, limit)
}

// store persists a flow result. The caller already has the result, so a
// failure here is only logged.
func (s *insightService) store(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, subject *primitive.ObjectID, out any) {
	payload, err := toPayload(out)
	if err == nil {
		_, err = s.insightRepo.Create(ctx, &domain.Insight{
			UserID:    userID,
			Kind:      kind,
			SubjectID: subject,
			Payload:   payload,
		})
	}
	if err != nil {
		s.logger.Warn("store insight failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// toPayload converts a flow output into a document keyed by its JSON names.
func toPayload(v any) (bson.M, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
