package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions shared across services ---
var (
	// ErrInvalidInput is wrapped with a detail message; handlers answer 400
	// with the full error text.
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	ErrUserNotFound         = errors.New("user not found")
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrAnalysisNotFound     = errors.New("physique analysis not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
