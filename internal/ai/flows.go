package ai

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/stats"
	"sort"

	"google.golang.org/genai"
)

// Prompt names in prompts.yaml.
const (
	FlowWorkoutInsights = "workoutInsights"
	FlowWorkoutSummary  = "workoutSummary"
	FlowAnalyzeVideo    = "analyzeWorkoutVideo"
	FlowRatePhysique    = "ratePhysique"
	FlowSportMatch      = "sportMatch"
	FlowScoutingReport  = "scoutingReport"
)

// ---- inputs ----

// AthleteInput describes the user a flow is about.
type AthleteInput struct {
	Name    string
	Role    domain.Role
	Profile domain.Profile
}

type WorkoutInsightsInput struct {
	Athlete  AthleteInput
	Workouts []domain.Workout
	Stats    stats.Summary
}

type WorkoutSummaryInput struct {
	Athlete AthleteInput
	Workout domain.Workout
}

type VideoInput struct {
	Athlete AthleteInput
	Hint    string
}

type PhysiqueInput struct {
	Athlete AthleteInput
}

type SportMatchInput struct {
	Athlete AthleteInput
	Stats   stats.Summary
}

type ScoutingInput struct {
	Athlete  AthleteInput
	Stats    stats.Summary
	Recent   []domain.Workout
	Physique *domain.PhysiqueAnalysis
}

// ---- outputs ----

type InsightItem struct {
	Title    string `json:"title" validate:"required"`
	Detail   string `json:"detail" validate:"required"`
	Category string `json:"category"`
}

type Recommendation struct {
	Title    string `json:"title" validate:"required"`
	Detail   string `json:"detail" validate:"required"`
	Priority string `json:"priority" validate:"oneof=low medium high"`
}

type WorkoutInsights struct {
	Summary         string           `json:"summary" validate:"required"`
	Insights        []InsightItem    `json:"insights" validate:"min=1,max=6,dive"`
	Recommendations []Recommendation `json:"recommendations" validate:"min=1,max=6,dive"`
}

type WorkoutSummary struct {
	Headline    string   `json:"headline" validate:"required"`
	Summary     string   `json:"summary" validate:"required"`
	Highlights  []string `json:"highlights"`
	EffortScore int      `json:"effortScore" validate:"min=1,max=10"`
}

type VideoExercise struct {
	Name        string  `json:"name" validate:"required"`
	Sets        int     `json:"sets" validate:"min=0"`
	Reps        int     `json:"reps" validate:"min=0"`
	WeightKg    float64 `json:"weightKg" validate:"min=0"`
	DurationSec int     `json:"durationSec" validate:"min=0"`
}

type VideoAnalysis struct {
	Title          string          `json:"title" validate:"required"`
	Type           string          `json:"type"`
	DurationMin    int             `json:"durationMin" validate:"min=1,max=1440"`
	Intensity      int             `json:"intensity" validate:"min=1,max=10"`
	CaloriesBurned int             `json:"caloriesBurned" validate:"min=0"`
	Exercises      []VideoExercise `json:"exercises" validate:"max=50,dive"`
	Summary        string          `json:"summary" validate:"required"`
	FormFeedback   []string        `json:"formFeedback"`
}

type PhysiqueRating struct {
	OverallScore float64  `json:"overallScore" validate:"min=1,max=10"`
	Muscularity  float64  `json:"muscularity" validate:"min=1,max=10"`
	Symmetry     float64  `json:"symmetry" validate:"min=1,max=10"`
	Conditioning float64  `json:"conditioning" validate:"min=1,max=10"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary" validate:"required"`
}

type SportMatchItem struct {
	Sport       string  `json:"sport" validate:"required"`
	Suitability float64 `json:"suitability" validate:"min=0,max=100"`
	Reasoning   string  `json:"reasoning" validate:"required"`
}

type SportMatch struct {
	Matches []SportMatchItem `json:"matches" validate:"min=1,max=8,dive"`
	Summary string           `json:"summary" validate:"required"`
}

type ScoutingReport struct {
	OverallRating        int      `json:"overallRating" validate:"min=1,max=100"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Potential            string   `json:"potential" validate:"oneof=low medium high elite"`
	RecommendedPositions []string `json:"recommendedPositions"`
	Summary              string   `json:"summary" validate:"required"`
}

// ---- schemas ----

var (
	workoutInsightsSchema = object(map[string]*genai.Schema{
		"summary": str("two or three sentence overview"),
		"insights": array(object(map[string]*genai.Schema{
			"title":    str(""),
			"detail":   str(""),
			"category": enum("consistency", "volume", "intensity", "recovery", "balance", "progress"),
		}, "title", "detail", "category"), 1, 6),
		"recommendations": array(object(map[string]*genai.Schema{
			"title":    str(""),
			"detail":   str(""),
			"priority": enum("low", "medium", "high"),
		}, "title", "detail", "priority"), 1, 6),
	}, "summary", "insights", "recommendations")

	workoutSummarySchema = object(map[string]*genai.Schema{
		"headline":    str("one line"),
		"summary":     str(""),
		"highlights":  stringList("", 5),
		"effortScore": integer(1, 10),
	}, "headline", "summary", "highlights", "effortScore")

	videoAnalysisSchema = object(map[string]*genai.Schema{
		"title":          str("short workout title"),
		"type":           enum(workoutTypeNames()...),
		"durationMin":    integer(1, 1440),
		"intensity":      integer(1, 10),
		"caloriesBurned": integer(0, 5000),
		"exercises": array(object(map[string]*genai.Schema{
			"name":        str(""),
			"sets":        integer(0, 100),
			"reps":        integer(0, 1000),
			"weightKg":    number(0, 1000),
			"durationSec": integer(0, 86400),
		}, "name"), 0, 50),
		"summary":      str(""),
		"formFeedback": stringList("technique cue", 8),
	}, "title", "type", "durationMin", "intensity", "exercises", "summary")

	physiqueSchema = object(map[string]*genai.Schema{
		"overallScore": number(1, 10),
		"muscularity":  number(1, 10),
		"symmetry":     number(1, 10),
		"conditioning": number(1, 10),
		"strengths":    stringList("", 5),
		"improvements": stringList("", 5),
		"summary":      str(""),
	}, "overallScore", "muscularity", "symmetry", "conditioning", "strengths", "improvements", "summary")

	sportMatchSchema = object(map[string]*genai.Schema{
		"matches": array(object(map[string]*genai.Schema{
			"sport":       str(""),
			"suitability": number(0, 100),
			"reasoning":   str(""),
		}, "sport", "suitability", "reasoning"), 1, 8),
		"summary": str(""),
	}, "matches", "summary")

	scoutingSchema = object(map[string]*genai.Schema{
		"overallRating":        integer(1, 100),
		"strengths":            stringList("", 6),
		"weaknesses":           stringList("", 6),
		"potential":            enum("low", "medium", "high", "elite"),
		"recommendedPositions": stringList("", 4),
		"summary":              str(""),
	}, "overallRating", "strengths", "weaknesses", "potential", "recommendedPositions", "summary")
)

func workoutTypeNames() []string {
	names := make([]string, len(domain.WorkoutTypes))
	for i, t := range domain.WorkoutTypes {
		names[i] = string(t)
	}
	return names
}

// sortMatches orders matches by suitability desc, then sport name.
func sortMatches(m *SportMatch) {
	sort.SliceStable(m.Matches, func(i, j int) bool {
		if m.Matches[i].Suitability != m.Matches[j].Suitability {
			return m.Matches[i].Suitability > m.Matches[j].Suitability
		}
		return m.Matches[i].Sport < m.Matches[j].Sport
	})
}

// Flows is the set of flows the services use.
type Flows struct {
	WorkoutInsights *Flow[WorkoutInsightsInput, WorkoutInsights]
	WorkoutSummary  *Flow[WorkoutSummaryInput, WorkoutSummary]
	AnalyzeVideo    *Flow[VideoInput, VideoAnalysis]
	RatePhysique    *Flow[PhysiqueInput, PhysiqueRating]
	SportMatch      *Flow[SportMatchInput, SportMatch]
	ScoutingReport  *Flow[ScoutingInput, ScoutingReport]
}

// NewFlows builds every flow from catalog. A nil catalog uses the embedded one.
func NewFlows(gen Generator, catalog *Catalog, temperature float32) (*Flows, error) {
	if catalog == nil {
		var err error
		if catalog, err = DefaultCatalog(); err != nil {
			return nil, err
		}
	}

	var (
		f   Flows
		err error
	)
	if f.WorkoutInsights, err = NewFlow[WorkoutInsightsInput, WorkoutInsights](gen, catalog, FlowWorkoutInsights, workoutInsightsSchema, temperature); err != nil {
		return nil, err
	}
	if f.WorkoutSummary, err = NewFlow[WorkoutSummaryInput, WorkoutSummary](gen, catalog, FlowWorkoutSummary, workoutSummarySchema, temperature); err != nil {
		return nil, err
	}
	if f.AnalyzeVideo, err = NewFlow[VideoInput, VideoAnalysis](gen, catalog, FlowAnalyzeVideo, videoAnalysisSchema, temperature); err != nil {
		return nil, err
	}
	if f.RatePhysique, err = NewFlow[PhysiqueInput, PhysiqueRating](gen, catalog, FlowRatePhysique, physiqueSchema, temperature); err != nil {
		return nil, err
	}
	if f.SportMatch, err = NewFlow[SportMatchInput, SportMatch](gen, catalog, FlowSportMatch, sportMatchSchema, temperature); err != nil {
		return nil, err
	}
	f.SportMatch.post = sortMatches
	if f.ScoutingReport, err = NewFlow[ScoutingInput, ScoutingReport](gen, catalog, FlowScoutingReport, scoutingSchema, temperature); err != nil {
		return nil, err
	}
	return &f, nil
}
