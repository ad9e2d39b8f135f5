package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"alcyxob/sportlink/internal/stats"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type ExerciseEntryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Sets        int     `json:"sets" binding:"omitempty,min=0"`
	Reps        int     `json:"reps" binding:"omitempty,min=0"`
	WeightKg    float64 `json:"weightKg" binding:"omitempty,min=0"`
	DurationSec int     `json:"durationSec" binding:"omitempty,min=0"`
}

type WorkoutRequest struct {
	Title          string                 `json:"title" binding:"required"`
	Type           domain.WorkoutType     `json:"type" binding:"required"`
	Date           *time.Time             `json:"date"`
	DurationMin    int                    `json:"durationMin" binding:"required,min=1,max=1440"`
	Intensity      int                    `json:"intensity" binding:"required,min=1,max=10"`
	CaloriesBurned int                    `json:"caloriesBurned" binding:"omitempty,min=0"`
	Exercises      []ExerciseEntryRequest `json:"exercises" binding:"omitempty,max=50,dive"`
	Notes          string                 `json:"notes"`
}

func (r WorkoutRequest) toInput() service.WorkoutInput {
	in := service.WorkoutInput{
		Title:          r.Title,
		Type:           r.Type,
		DurationMin:    r.DurationMin,
		Intensity:      r.Intensity,
		CaloriesBurned: r.CaloriesBurned,
		Notes:          r.Notes,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	for _, e := range r.Exercises {
		in.Exercises = append(in.Exercises, domain.ExerciseEntry{
			Name:        e.Name,
			Sets:        e.Sets,
			Reps:        e.Reps,
			WeightKg:    e.WeightKg,
			DurationSec: e.DurationSec,
		})
	}
	return in
}

type AnalyzeVideoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	Hint      string `json:"hint"`
}

// --- Handlers ---

// LogWorkout godoc
// @Summary Log a workout manually
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} domain.Workout
// @Router /workouts [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.LogWorkout(c.Request.Context(), playerID, req.toInput())
	if err != nil {
		handleServiceError(c, err, "Failed to log workout.")
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary Own workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param before query string false "RFC3339 cursor"
// @Param beforeId query string false "ID of the last item seen, breaks ties on before"
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), playerID, page)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary One of the caller's workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{workoutId} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), playerID, workoutID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Replace a workout's fields
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout"
// @Success 200 {object} domain.Workout
// @Router /workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), playerID, workoutID, req.toInput())
	if err != nil {
		handleServiceError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout and its video
// @Tags Workouts
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), playerID, workoutID); err != nil {
		handleServiceError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload godoc
// @Summary Presigned URL for uploading a workout video
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body uploadURLRequest true "Content type (video/*)"
// @Success 200 {object} service.UploadURLResponse
// @Router /workouts/video/upload-url [post]
func (h *WorkoutHandler) RequestVideoUpload(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	resp, err := h.workoutService.RequestVideoUpload(c.Request.Context(), playerID, req.ContentType)
	if err != nil {
		handleServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeVideo godoc
// @Summary Create a workout from an uploaded video
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeVideoRequest true "Uploaded object key and optional hint"
// @Success 201 {object} service.VideoWorkout
// @Failure 502 {object} gin.H "Model answer unusable"
// @Failure 503 {object} gin.H "AI not configured"
// @Router /workouts/video/analyze [post]
func (h *WorkoutHandler) AnalyzeVideo(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AnalyzeVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	res, err := h.workoutService.AnalyzeVideo(c.Request.Context(), playerID, req.ObjectKey, req.Hint)
	if err != nil {
		handleServiceError(c, err, "Failed to analyze video.")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Stats godoc
// @Summary Chart aggregation over the last N days
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1-365, default 30)"
// @Success 200 {object} stats.Summary
// @Router /workouts/stats [get]
func (h *WorkoutHandler) Stats(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", stats.DefaultDays)
	if !ok {
		return
	}
	if days < 1 || days > stats.MaxDays {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'days' must be between 1 and 365.")
		return
	}
	summary, err := h.workoutService.Stats(c.Request.Context(), playerID, days)
	if err != nil {
		handleServiceError(c, err, "Failed to compute stats.")
		return
	}
	c.JSON(http.StatusOK, summary)
}
