package engagement

import (
	"errors"
	"net/http"

	"github.com/clickchain/engage/internal/cases"
)

// Domain errors for engagement operations.
var (
	ErrUnresolvedCase = errors.New("message matches no open case")
	ErrEmptyReply     = errors.New("message has no reply body")
	ErrLateReply      = errors.New("reply received for a closed case")
)

// MapHTTPStatus maps engagement errors to HTTP status codes, deferring
// to the case domain for transition errors.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnresolvedCase) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyReply) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrLateReply) {
		return http.StatusConflict
	}
	if status := cases.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
