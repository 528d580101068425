package cases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clickchain/engage/pkg/pagination"
)

// System defines the public contract for case domain operations.
// Status changes go through transition-guarded operations; there is no
// general update. Terminal cases reject every mutation.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	FindByIdentity(ctx context.Context, employeeID string, timesheetDate time.Time) (*Case, error)
	FindByContact(ctx context.Context, email string, timesheetDate time.Time) (*Case, error)
	Register(ctx context.Context, cmd RegisterCommand) (*Case, error)
	RecordReply(ctx context.Context, id uuid.UUID, cmd ReplyCommand) (*Case, error)
	RecordClassification(ctx context.Context, id uuid.UUID, cmd ClassifyCommand) (*Case, error)
	RecordFollowUp(ctx context.Context, id uuid.UUID) (*Case, error)
	Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Case, error)
	Escalate(ctx context.Context, id uuid.UUID, reason string) (*Case, error)
	Exhaust(ctx context.Context, id uuid.UUID) (*Case, error)
	Summary(ctx context.Context) (*StatusSummary, error)

	// Stale returns non-terminal cases that have not been touched since
	// the cutoff, oldest first. The monitor uses this to trigger
	// follow-ups and escalations for silent employees.
	Stale(ctx context.Context, cutoff time.Time, limit int) ([]Case, error)
}
