package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AIHandler exposes the player-facing AI flows and their stored history.
type AIHandler struct {
	insightService service.InsightService
}

func NewAIHandler(insightService service.InsightService) *AIHandler {
	return &AIHandler{insightService: insightService}
}

type InsightsRequest struct {
	Days int `json:"days" binding:"omitempty,min=1,max=365"`
}

// WorkoutInsights godoc
// @Summary Trends and recommendations from recent workouts
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InsightsRequest false "Window (default 30 days)"
// @Success 200 {object} ai.WorkoutInsights
// @Failure 502 {object} gin.H "Model answer unusable"
// @Failure 503 {object} gin.H "AI not configured"
// @Router /ai/insights [post]
func (h *AIHandler) WorkoutInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req InsightsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	out, err := h.insightService.WorkoutInsights(c.Request.Context(), userID, req.Days)
	if err != nil {
		handleServiceError(c, err, "Failed to generate insights.")
		return
	}
	c.JSON(http.StatusOK, out)
}

// SummarizeWorkout godoc
// @Summary AI summary of one workout; also stored on the workout
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} ai.WorkoutSummary
// @Router /ai/workouts/{workoutId}/summary [post]
func (h *AIHandler) SummarizeWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	out, err := h.insightService.SummarizeWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		handleServiceError(c, err, "Failed to summarize workout.")
		return
	}
	c.JSON(http.StatusOK, out)
}

// SportMatch godoc
// @Summary Sports that suit the athlete, best first
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ai.SportMatch
// @Router /ai/sport-match [post]
func (h *AIHandler) SportMatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	out, err := h.insightService.SportMatch(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Failed to match sports.")
		return
	}
	c.JSON(http.StatusOK, out)
}

// History godoc
// @Summary Stored AI results, newest first
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param kind query string false "insights | summary | sport_match | scouting"
// @Param limit query int false "Max results"
// @Success 200 {array} domain.Insight
// @Router /ai/history [get]
func (h *AIHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	items, err := h.insightService.History(c.Request.Context(), userID, domain.InsightKind(c.Query("kind")), limit)
	if err != nil {
		handleServiceError(c, err, "Failed to load history.")
		return
	}
	if items == nil {
		items = []domain.Insight{}
	}
	c.JSON(http.StatusOK, items)
}
