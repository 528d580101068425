// Package compliance forwards resolved case outcomes to the downstream
// compliance collector. When no collector endpoint is configured the
// log collaborator records submissions locally instead of dropping them.
package compliance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CaseSummary is the record submitted for a resolved case.
type CaseSummary struct {
	CaseID        uuid.UUID `json:"case_id"`
	EmployeeID    string    `json:"employee_id"`
	TimesheetDate string    `json:"timesheet_date"`
	Status        string    `json:"status"`
	ReasonType    string    `json:"reason_type,omitempty"`
	Confidence    int       `json:"confidence,omitempty"`
	Explanation   string    `json:"explanation,omitempty"`
	FollowUpCount int       `json:"follow_up_count"`
	ResolvedAt    time.Time `json:"resolved_at"`
}

// Collaborator receives case outcomes.
type Collaborator interface {
	Submit(ctx context.Context, summary CaseSummary) error
}

// New selects the collaborator implementation for the configuration:
// HTTP when an endpoint is set, otherwise the log collaborator.
func New(cfg *Config, logger *slog.Logger) Collaborator {
	if cfg.Endpoint != "" {
		return NewHTTP(cfg, logger)
	}
	return NewLog(logger)
}
