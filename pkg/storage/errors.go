package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested archive entry does not exist.
	ErrNotFound = errors.New("archive entry not found")
	// ErrEmptyKey indicates an empty archive key was provided.
	ErrEmptyKey = errors.New("archive key must not be empty")
	// ErrInvalidKey indicates the archive key contains a path traversal segment.
	ErrInvalidKey = errors.New("archive key contains invalid path segment")
	// ErrEmptyMessageID indicates a message without an identifier cannot be archived.
	ErrEmptyMessageID = errors.New("message id must not be empty")
)

// MapHTTPStatus maps archive errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrEmptyMessageID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
