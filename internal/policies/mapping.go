package policies

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/clickchain/engage/pkg/repository"
)

const reasonColumns = `id, type, keywords, requires_approval, max_days_per_month,
	requires_documentation, active, position, created_at, updated_at`

func scanReason(s repository.Scanner) (Reason, error) {
	var r Reason
	var keywordsRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Type,
		&keywordsRaw,
		&r.RequiresApproval,
		&r.MaxDaysPerMonth,
		&r.RequiresDocumentation,
		&r.Active,
		&r.Position,
		&r.CreatedAt,
		&r.UpdatedAt,
	)

	if err != nil {
		return r, err
	}

	if len(keywordsRaw) > 0 {
		if err := json.Unmarshal(keywordsRaw, &r.Keywords); err != nil {
			return r, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}

	if r.Keywords == nil {
		r.Keywords = []string{}
	}

	return r, nil
}

// normalizeKeywords lowercases, trims, and de-duplicates keywords while
// preserving first-seen order.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// mergeKeywords appends additions to existing, skipping duplicates.
func mergeKeywords(existing, additions []string) []string {
	merged := slices.Clone(existing)
	for _, k := range normalizeKeywords(additions) {
		if !slices.Contains(merged, k) {
			merged = append(merged, k)
		}
	}
	return merged
}
