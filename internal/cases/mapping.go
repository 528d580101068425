package cases

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/clickchain/engage/pkg/repository"
)

const caseColumns = `id, employee_id, employee_email, timesheet_date, status,
	reply_count, follow_up_count, last_email_sent_at, last_message_id,
	reply_text, reason_type, confidence, explanation, requires_approval,
	source, validated_by, validated_at, escalated_at, created_at, updated_at`

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status     *Status    `json:"status,omitempty"`
	EmployeeID *string    `json:"employee_id,omitempty"`
	ReasonType *string    `json:"reason_type,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// whereClause builds the WHERE clause and arguments for the filter set,
// combined with an optional case-insensitive search across reply text
// and explanation.
func (f Filters) whereClause(search *string) (string, []any) {
	var conditions []string
	var args []any

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Status != nil {
		conditions = append(conditions, "status = "+next())
		args = append(args, *f.Status)
	}
	if f.EmployeeID != nil {
		conditions = append(conditions, "employee_id = "+next())
		args = append(args, *f.EmployeeID)
	}
	if f.ReasonType != nil {
		conditions = append(conditions, "reason_type = "+next())
		args = append(args, *f.ReasonType)
	}
	if f.Date != nil {
		conditions = append(conditions, "timesheet_date = "+next())
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if search != nil && *search != "" {
		p := next()
		conditions = append(conditions, "(reply_text ILIKE "+p+" OR explanation ILIKE "+p+")")
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

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if e := values.Get("employee_id"); e != "" {
		f.EmployeeID = &e
	}

	if rt := values.Get("reason_type"); rt != "" {
		f.ReasonType = &rt
	}

	if d := values.Get("date"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.Date = &t
		}
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case
	err := s.Scan(
		&c.ID,
		&c.EmployeeID,
		&c.EmployeeEmail,
		&c.TimesheetDate,
		&c.Status,
		&c.ReplyCount,
		&c.FollowUpCount,
		&c.LastEmailSentAt,
		&c.LastMessageID,
		&c.ReplyText,
		&c.ReasonType,
		&c.Confidence,
		&c.Explanation,
		&c.RequiresApproval,
		&c.Source,
		&c.ValidatedBy,
		&c.ValidatedAt,
		&c.EscalatedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
