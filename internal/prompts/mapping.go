package prompts

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/clickchain/engage/pkg/repository"
)

const promptColumns = "id, name, stage, instructions, description, active"

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored. Stage and Active use exact matching.
type Filters struct {
	Stage  *Stage `json:"stage,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// whereClause builds the WHERE clause and arguments for the filter set,
// combined with an optional case-insensitive search across name and description.
func (f Filters) whereClause(search *string) (string, []any) {
	var conditions []string
	var args []any

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Stage != nil {
		conditions = append(conditions, "stage = "+next())
		args = append(args, *f.Stage)
	}
	if f.Active != nil {
		conditions = append(conditions, "active = "+next())
		args = append(args, *f.Active)
	}
	if search != nil && *search != "" {
		p := next()
		conditions = append(conditions, "(name ILIKE "+p+" OR description ILIKE "+p+")")
		args = append(args, "%"+*search+"%")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("stage"); s != "" {
		if stage, err := ParseStage(s); err == nil {
			f.Stage = &stage
		}
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Stage,
		&p.Instructions,
		&p.Description,
		&p.Active,
	)
	return p, err
}
