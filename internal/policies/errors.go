package policies

import (
	"errors"
	"net/http"
)

// Domain errors for policy operations.
var (
	ErrNotFound   = errors.New("absence reason not found")
	ErrDuplicate  = errors.New("absence reason type already exists")
	ErrEmptyType  = errors.New("absence reason type must not be empty")
	ErrNoKeywords = errors.New("absence reason requires at least one keyword")
	ErrLastActive = errors.New("cannot deactivate the last active reason")
)

// MapHTTPStatus maps policy domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyType) || errors.Is(err, ErrNoKeywords) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrLastActive) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
