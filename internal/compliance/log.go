package compliance

import (
	"context"
	"log/slog"
)

type logCollaborator struct {
	logger *slog.Logger
}

// NewLog creates a Collaborator that records submissions to the service
// log. Used when no collector endpoint is configured.
func NewLog(logger *slog.Logger) Collaborator {
	return &logCollaborator{
		logger: logger.With("system", "compliance"),
	}
}

func (c *logCollaborator) Submit(ctx context.Context, summary CaseSummary) error {
	c.logger.Info("case outcome recorded",
		"case_id", summary.CaseID,
		"employee_id", summary.EmployeeID,
		"timesheet_date", summary.TimesheetDate,
		"status", summary.Status,
		"reason_type", summary.ReasonType,
		"follow_up_count", summary.FollowUpCount,
	)
	return nil
}
