package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newInsightService(e *testEnv) InsightService {
	svc := NewInsightService(e.users, e.workouts, e.physiques, e.insights, e.flows, e.logger)
	svc.(*insightService).now = func() time.Time { return fixedNow }
	return svc
}

func (e *testEnv) addWorkout(t *testing.T, playerID primitive.ObjectID, daysAgo int) *domain.Workout {
	t.Helper()
	w := &domain.Workout{
		PlayerID:    playerID,
		Title:       "Session",
		Type:        domain.WorkoutCardio,
		Date:        fixedNow.AddDate(0, 0, -daysAgo),
		DurationMin: 45,
		Intensity:   6,
		Source:      domain.SourceManual,
	}
	_, err := e.workouts.Create(context.Background(), w)
	require.NoError(t, err)
	return w
}

func TestInsightService_WorkoutInsights(t *testing.T) {
	e := newTestEnv(t)
	svc := newInsightService(e)
	ctx := context.Background()
	player := e.addUser(t, "Runner", "r@example.com", domain.RolePlayer)

	_, err := svc.WorkoutInsights(ctx, player.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput, "no workouts yet")

	e.addWorkout(t, player.ID, 1)
	e.addWorkout(t, player.ID, 3)
	e.gen.response = `{
	  "summary": "Consistent cardio base.",
	  "insights": [{"title": "Volume", "detail": "90 minutes in 30 days", "category": "volume"}],
	  "recommendations": [{"title": "Add strength", "detail": "Two sessions a week", "priority": "high"}]
	}`

	out, err := svc.WorkoutInsights(ctx, player.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Consistent cardio base.", out.Summary)
	assert.Contains(t, e.gen.requests[0].Prompt, "Runner")

	history, err := svc.History(ctx, player.ID, domain.InsightWorkouts, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Consistent cardio base.", history[0].Payload["summary"])

	_, err = svc.WorkoutInsights(ctx, player.ID, 366)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInsightService_SummarizeWorkout(t *testing.T) {
	e := newTestEnv(t)
	svc := newInsightService(e)
	ctx := context.Background()
	player := e.addUser(t, "P", "p@example.com", domain.RolePlayer)
	other := e.addUser(t, "O", "o@example.com", domain.RolePlayer)
	w := e.addWorkout(t, player.ID, 0)

	e.gen.response = `{"headline": "Steady run", "summary": "Even pacing throughout.", "highlights": [], "effortScore": 6}`

	_, err := svc.SummarizeWorkout(ctx, other.ID, w.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	out, err := svc.SummarizeWorkout(ctx, player.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, out.EffortScore)

	stored, err := e.workouts.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steady run: Even pacing throughout.", stored.AISummary)

	history, err := svc.History(ctx, player.ID, domain.InsightSummary, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].SubjectID)
	assert.Equal(t, w.ID, *history[0].SubjectID)
}

func TestInsightService_SportMatch_SortsBySuitability(t *testing.T) {
	e := newTestEnv(t)
	svc := newInsightService(e)
	player := e.addUser(t, "P", "p@example.com", domain.RolePlayer)

	e.gen.response = `{"summary": "Endurance profile.", "matches": [
	  {"sport": "Rowing", "suitability": 70, "reasoning": "aerobic base"},
	  {"sport": "Triathlon", "suitability": 92, "reasoning": "volume"}
	]}`
	out, err := svc.SportMatch(context.Background(), player.ID)
	require.NoError(t, err)
	require.Len(t, out.Matches, 2)
	assert.Equal(t, "Triathlon", out.Matches[0].Sport)
}

func TestInsightService_ScoutingReport(t *testing.T) {
	e := newTestEnv(t)
	svc := newInsightService(e)
	ctx := context.Background()

	coach := e.addUser(t, "Coach", "c@example.com", domain.RoleCoach)
	player := e.addUser(t, "Player", "p@example.com", domain.RolePlayer)
	e.addWorkout(t, player.ID, 5)
	_, err := e.physiques.Create(ctx, &domain.PhysiqueAnalysis{UserID: player.ID, OverallScore: 7.5, Summary: "Lean"})
	require.NoError(t, err)

	e.gen.response = `{"overallRating": 78, "strengths": ["engine"], "weaknesses": [], "potential": "high",
	  "recommendedPositions": ["midfield"], "summary": "Works hard."}`

	_, err = svc.ScoutingReport(ctx, coach.ID, player.ID)
	assert.ErrorIs(t, err, ErrPlayerNotOnRoster)

	e.link(t, coach, player)
	out, err := svc.ScoutingReport(ctx, coach.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 78, out.OverallRating)
	assert.Contains(t, e.gen.requests[len(e.gen.requests)-1].Prompt, "overall 7.5/10")

	coachHistory, err := svc.History(ctx, coach.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, coachHistory, 1)
	assert.Equal(t, domain.InsightScouting, coachHistory[0].Kind)

	playerHistory, err := svc.History(ctx, player.ID, "", 0)
	require.NoError(t, err)
	assert.Empty(t, playerHistory)
}

func TestInsightService_FlowFailuresAreNotStored(t *testing.T) {
	e := newTestEnv(t)
	svc := newInsightService(e)
	player := e.addUser(t, "P", "p@example.com", domain.RolePlayer)

	e.gen.response = "not json at all"
	_, err := svc.SportMatch(context.Background(), player.ID)
	assert.ErrorIs(t, err, ai.ErrInvalidOutput)
	assert.Empty(t, e.insights.insights)
}

func TestInsightService_History_RejectsUnknownKind(t *testing.T) {
	e := newTestEnv(t)
	_, err := newInsightService(e).History(context.Background(), primitive.NewObjectID(), "horoscope", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
