package policies

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for policy domain operations.
type System interface {
	Handler() *Handler

	// List returns all reasons ordered by position, including inactive ones.
	List(ctx context.Context) ([]Reason, error)
	// Snapshot returns the active reasons ordered by position. Classification
	// runs against a snapshot so mid-run policy edits cannot skew a result.
	Snapshot(ctx context.Context) ([]Reason, error)

	Find(ctx context.Context, id uuid.UUID) (*Reason, error)
	FindByType(ctx context.Context, reasonType string) (*Reason, error)
	Create(ctx context.Context, cmd CreateCommand) (*Reason, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Reason, error)
	Train(ctx context.Context, id uuid.UUID, cmd TrainCommand) (*Reason, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Reason, error)
}
