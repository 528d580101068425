// Package policies implements the absence reason policy domain.
// It provides types, data access, and business logic for the mutable set
// of recognized absence reasons that drives reply classification.
package policies

import (
	"time"

	"github.com/google/uuid"
)

// Reason represents one recognized absence reason and its policy attributes.
// It mirrors the policy_reasons table schema. Position establishes the
// evaluation order used during keyword matching.
type Reason struct {
	ID                    uuid.UUID `json:"id"`
	Type                  string    `json:"type"`
	Keywords              []string  `json:"keywords"`
	RequiresApproval      bool      `json:"requires_approval"`
	MaxDaysPerMonth       int       `json:"max_days_per_month"`
	RequiresDocumentation bool      `json:"requires_documentation"`
	Active                bool      `json:"active"`
	Position              int       `json:"position"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new absence reason.
type CreateCommand struct {
	Type                  string   `json:"type"`
	Keywords              []string `json:"keywords"`
	RequiresApproval      bool     `json:"requires_approval"`
	MaxDaysPerMonth       int      `json:"max_days_per_month"`
	RequiresDocumentation bool     `json:"requires_documentation"`
}

// UpdateCommand carries the data needed to overwrite a reason's policy attributes.
type UpdateCommand struct {
	Keywords              []string `json:"keywords"`
	RequiresApproval      bool     `json:"requires_approval"`
	MaxDaysPerMonth       int      `json:"max_days_per_month"`
	RequiresDocumentation bool     `json:"requires_documentation"`
}

// TrainCommand carries keywords to append to a reason's keyword set.
// Duplicates of existing keywords are ignored.
type TrainCommand struct {
	Keywords []string `json:"keywords"`
}
