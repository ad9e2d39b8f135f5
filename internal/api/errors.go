package api

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnsupportedContentType),
		errors.Is(err, service.ErrInviteCoachEmail),
		errors.Is(err, service.ErrInviteSelf),
		errors.Is(err, service.ErrMessageSelf):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInviteWrongUser),
		errors.Is(err, service.ErrPlayerNotOnRoster):
		return http.StatusForbidden

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrAnalysisNotFound),
		errors.Is(err, service.ErrUploadNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInviteExists),
		errors.Is(err, service.ErrAlreadyLinked),
		errors.Is(err, service.ErrInviteAlreadyAccepted),
		errors.Is(err, service.ErrPlayerHasCoach),
		errors.Is(err, service.ErrUploadInUse):
		return http.StatusConflict

	case errors.Is(err, ai.ErrInvalidOutput),
		errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway

	case errors.Is(err, ai.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleServiceError answers with the mapped status. Client errors carry
// the error text; server errors get fallback and the cause is attached to
// the gin context for the request log.
func handleServiceError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	switch {
	case status == http.StatusBadGateway:
		_ = c.Error(err)
		abortWithError(c, status, "The AI model returned an unusable answer, please retry.")
	case status == http.StatusServiceUnavailable:
		abortWithError(c, status, "AI features are not configured on this server.")
	case status >= http.StatusInternalServerError:
		_ = c.Error(err)
		abortWithError(c, status, fallback)
	default:
		abortWithError(c, status, err.Error())
	}
}
