package api

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PhysiqueHandler struct {
	physiqueService service.PhysiqueService
}

func NewPhysiqueHandler(physiqueService service.PhysiqueService) *PhysiqueHandler {
	return &PhysiqueHandler{physiqueService: physiqueService}
}

// @Router /physique/upload-url [post]
func (h *PhysiqueHandler) RequestUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	resp, err := h.physiqueService.RequestUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		handleServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /physique/analyze [post]
func (h *PhysiqueHandler) Analyze(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req objectKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	analysis, err := h.physiqueService.Analyze(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		handleServiceError(c, err, "Failed to analyze image.")
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

// @Router /physique [get]
func (h *PhysiqueHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	list, err := h.physiqueService.List(c.Request.Context(), userID, limit)
	if err != nil {
		handleServiceError(c, err, "Failed to list analyses.")
		return
	}
	if list == nil {
		list = []domain.PhysiqueAnalysis{}
	}
	c.JSON(http.StatusOK, list)
}

// @Router /physique/{analysisId} [delete]
func (h *PhysiqueHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	analysisID, ok := objectIDParam(c, "analysisId")
	if !ok {
		return
	}
	if err := h.physiqueService.Delete(c.Request.Context(), userID, analysisID); err != nil {
		handleServiceError(c, err, "Failed to delete analysis.")
		return
	}
	c.Status(http.StatusNoContent)
}
