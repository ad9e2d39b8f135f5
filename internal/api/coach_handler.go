package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoachHandler serves the coach and player sides of the invite flow and
// the coach's roster.
type CoachHandler struct {
	coachService   service.CoachService
	insightService service.InsightService
}

func NewCoachHandler(coachService service.CoachService, insightService service.InsightService) *CoachHandler {
	return &CoachHandler{coachService: coachService, insightService: insightService}
}

type CreateInviteRequest struct {
	PlayerEmail string `json:"playerEmail" binding:"required,email"`
}

// CreateInvite godoc
// @Summary Invite a player by email
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInviteRequest true "Player email"
// @Success 201 {object} domain.Invite
// @Failure 400 {object} gin.H "Invalid email, or the address belongs to a coach"
// @Failure 409 {object} gin.H "Pending invite exists or player already linked"
// @Router /coach/invites [post]
func (h *CoachHandler) CreateInvite(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	invite, err := h.coachService.CreateInvite(c.Request.Context(), coachID, req.PlayerEmail)
	if err != nil {
		handleServiceError(c, err, "Failed to create invite.")
		return
	}
	c.JSON(http.StatusCreated, invite)
}

// ListSentInvites godoc
// @Summary Invites sent by the coach
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Invite
// @Router /coach/invites [get]
func (h *CoachHandler) ListSentInvites(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	invites, err := h.coachService.ListSentInvites(c.Request.Context(), coachID)
	if err != nil {
		handleServiceError(c, err, "Failed to list invites.")
		return
	}
	if invites == nil {
		invites = []domain.Invite{}
	}
	c.JSON(http.StatusOK, invites)
}

// ListRoster godoc
// @Summary Players managed by the coach
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ProfileView
// @Router /coach/players [get]
func (h *CoachHandler) ListRoster(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	roster, err := h.coachService.ListRoster(c.Request.Context(), coachID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve roster.")
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ListPlayerWorkouts godoc
// @Summary Workouts of a rostered player
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param playerId path string true "Player ID"
// @Param limit query int false "Page size"
// @Param before query string false "RFC3339 cursor"
// @Param beforeId query string false "ID of the last item seen, breaks ties on before"
// @Success 200 {array} domain.Workout
// @Failure 403 {object} gin.H "Player not on roster"
// @Router /coach/players/{playerId}/workouts [get]
func (h *CoachHandler) ListPlayerWorkouts(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	workouts, err := h.coachService.ListPlayerWorkouts(c.Request.Context(), coachID, playerID, page)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// RemovePlayer godoc
// @Summary Remove a player from the roster
// @Tags Coach
// @Security BearerAuth
// @Param playerId path string true "Player ID"
// @Success 204
// @Router /coach/players/{playerId} [delete]
func (h *CoachHandler) RemovePlayer(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	if err := h.coachService.RemovePlayer(c.Request.Context(), coachID, playerID); err != nil {
		handleServiceError(c, err, "Failed to remove player.")
		return
	}
	c.Status(http.StatusNoContent)
}

// ScoutingReport godoc
// @Summary AI scouting report for a rostered player
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param playerId path string true "Player ID"
// @Success 200 {object} ai.ScoutingReport
// @Failure 502 {object} gin.H "Model answer unusable"
// @Router /coach/players/{playerId}/scouting [post]
func (h *CoachHandler) ScoutingReport(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	report, err := h.insightService.ScoutingReport(c.Request.Context(), coachID, playerID)
	if err != nil {
		handleServiceError(c, err, "Failed to generate scouting report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListMyInvites godoc
// @Summary Pending invites addressed to the player
// @Tags Player
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Invite
// @Router /player/invites [get]
func (h *CoachHandler) ListMyInvites(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	invites, err := h.coachService.ListMyInvites(c.Request.Context(), playerID)
	if err != nil {
		handleServiceError(c, err, "Failed to list invites.")
		return
	}
	if invites == nil {
		invites = []domain.Invite{}
	}
	c.JSON(http.StatusOK, invites)
}

// AcceptInvite godoc
// @Summary Accept a coach's invite
// @Tags Player
// @Produce json
// @Security BearerAuth
// @Param inviteId path string true "Invite ID"
// @Success 200 {object} domain.Invite
// @Failure 403 {object} gin.H "Invite addressed to another email"
// @Failure 409 {object} gin.H "Already accepted, or player has another coach"
// @Router /player/invites/{inviteId}/accept [post]
func (h *CoachHandler) AcceptInvite(c *gin.Context) {
	playerID, ok := currentUserID(c)
	if !ok {
		return
	}
	inviteID, ok := objectIDParam(c, "inviteId")
	if !ok {
		return
	}
	invite, err := h.coachService.AcceptInvite(c.Request.Context(), playerID, inviteID)
	if err != nil {
		handleServiceError(c, err, "Failed to accept invite.")
		return
	}
	c.JSON(http.StatusOK, invite)
}
