package cases

import (
	"errors"
	"net/http"
)

// Domain errors for case operations.
var (
	ErrNotFound          = errors.New("case not found")
	ErrDuplicate         = errors.New("case already exists for employee and date")
	ErrInvalidStatus     = errors.New("status must be pending, replied, validated, escalated, or max_followups_reached")
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrTerminalState     = errors.New("case is in a terminal state")
	ErrFollowUpLimit     = errors.New("follow-up limit reached")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTerminalState) ||
		errors.Is(err, ErrFollowUpLimit) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
