package api

import (
	"alcyxob/sportlink/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest is a partial update; omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=100"`
	Sport      *string  `json:"sport" binding:"omitempty,max=60"`
	Position   *string  `json:"position" binding:"omitempty,max=60"`
	Age        *int     `json:"age"`
	HeightCm   *float64 `json:"heightCm"`
	WeightKg   *float64 `json:"weightKg"`
	Bio        *string  `json:"bio"`
	Goals      []string `json:"goals"`
	Experience *string  `json:"experience"`
	AvatarKey  *string  `json:"avatarKey"`
}

// GetMe godoc
// @Summary Current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Router /me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.profileService.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} service.ProfileView
// @Router /me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.profileService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:       req.Name,
		Sport:      req.Sport,
		Position:   req.Position,
		Age:        req.Age,
		HeightCm:   req.HeightCm,
		WeightKg:   req.WeightKg,
		Bio:        req.Bio,
		Goals:      req.Goals,
		Experience: req.Experience,
		AvatarKey:  req.AvatarKey,
	})
	if err != nil {
		handleServiceError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RequestAvatarUpload godoc
// @Summary Presigned URL for uploading an avatar image
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body uploadURLRequest true "Content type (image/*)"
// @Success 200 {object} service.UploadURLResponse
// @Router /me/avatar/upload-url [post]
func (h *ProfileHandler) RequestAvatarUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	resp, err := h.profileService.RequestAvatarUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		handleServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary Another user's public profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{userId} [get]
func (h *ProfileHandler) GetUser(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	view, err := h.profileService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListCoaches godoc
// @Summary Discover coaches, optionally by sport
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param sport query string false "Sport filter"
// @Param limit query int false "Max results"
// @Success 200 {array} service.ProfileView
// @Router /coaches [get]
func (h *ProfileHandler) ListCoaches(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	coaches, err := h.profileService.ListCoaches(c.Request.Context(), c.Query("sport"), limit)
	if err != nil {
		handleServiceError(c, err, "Failed to list coaches.")
		return
	}
	c.JSON(http.StatusOK, coaches)
}
