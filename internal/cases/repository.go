package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clickchain/engage/pkg/pagination"
	"github.com/clickchain/engage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	where, args := filters.whereClause(page.Search)

	countQ := "SELECT COUNT(*) FROM cases" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageQ := fmt.Sprintf(
		"SELECT %s FROM cases%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		caseColumns, where, len(args)+1, len(args)+2,
	)
	pageArgs := append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageQ, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q := fmt.Sprintf("SELECT %s FROM cases WHERE id = $1", caseColumns)

	c, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByIdentity(ctx context.Context, employeeID string, timesheetDate time.Time) (*Case, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM cases WHERE employee_id = $1 AND timesheet_date = $2",
		caseColumns,
	)

	args := []any{employeeID, timesheetDate.Format("2006-01-02")}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByContact(ctx context.Context, email string, timesheetDate time.Time) (*Case, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM cases WHERE LOWER(employee_email) = LOWER($1) AND timesheet_date = $2",
		caseColumns,
	)

	args := []any{email, timesheetDate.Format("2006-01-02")}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Case, error) {
	insertQ := fmt.Sprintf(`
		INSERT INTO cases(employee_id, employee_email, timesheet_date, last_message_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, timesheet_date) DO NOTHING
		RETURNING %s`, caseColumns)

	insertArgs := []any{
		cmd.EmployeeID,
		cmd.EmployeeEmail,
		cmd.TimesheetDate.Format("2006-01-02"),
		cmd.MessageID,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		created, err := repository.QueryOne(ctx, tx, insertQ, insertArgs, scanCase)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return Case{}, err
		}

		// Conflict on (employee_id, timesheet_date): hand back the open case.
		findQ := fmt.Sprintf(
			"SELECT %s FROM cases WHERE employee_id = $1 AND timesheet_date = $2",
			caseColumns,
		)
		return repository.QueryOne(ctx, tx, findQ,
			[]any{cmd.EmployeeID, cmd.TimesheetDate.Format("2006-01-02")}, scanCase)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case registered",
		"id", c.ID,
		"employee_id", c.EmployeeID,
		"timesheet_date", c.TimesheetDate.Format("2006-01-02"),
		"status", c.Status,
	)
	return &c, nil
}

func (r *repo) RecordReply(ctx context.Context, id uuid.UUID, cmd ReplyCommand) (*Case, error) {
	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, reply_count = reply_count + 1, last_message_id = $2,
			reply_text = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s`, caseColumns)

	c, err := r.transition(ctx, id, StatusReplied, updateQ,
		StatusReplied, cmd.MessageID, cmd.ReplyText, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("reply recorded", "id", c.ID, "message_id", cmd.MessageID)
	return c, nil
}

func (r *repo) RecordClassification(ctx context.Context, id uuid.UUID, cmd ClassifyCommand) (*Case, error) {
	target := StatusReplied
	if cmd.IsValid {
		target = StatusValidated
	}

	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, reason_type = $2, confidence = $3, explanation = $4,
			requires_approval = $5, source = $6,
			validated_by = CASE WHEN $1 = 'validated' THEN 'system' ELSE validated_by END,
			validated_at = CASE WHEN $1 = 'validated' THEN NOW() ELSE validated_at END,
			updated_at = NOW()
		WHERE id = $7
		RETURNING %s`, caseColumns)

	c, err := r.transition(ctx, id, target, updateQ,
		target, cmd.ReasonType, cmd.Confidence, cmd.Explanation,
		cmd.RequiresApproval, cmd.Source, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("classification recorded",
		"id", c.ID,
		"reason_type", cmd.ReasonType,
		"is_valid", cmd.IsValid,
		"confidence", cmd.Confidence,
		"source", cmd.Source,
		"status", c.Status,
	)
	return c, nil
}

func (r *repo) RecordFollowUp(ctx context.Context, id uuid.UUID) (*Case, error) {
	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, follow_up_count = follow_up_count + 1,
			last_email_sent_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, caseColumns)

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		current, err := r.lockCase(ctx, tx, id)
		if err != nil {
			return Case{}, err
		}
		if current.Status.Terminal() {
			return Case{}, ErrTerminalState
		}
		if current.FollowUpCount >= MaxFollowUps {
			return Case{}, ErrFollowUpLimit
		}
		if current.Status != StatusPending && !CanTransition(current.Status, StatusPending) {
			return Case{}, ErrInvalidTransition
		}

		return repository.QueryOne(ctx, tx, updateQ, []any{StatusPending, id}, scanCase)
	})

	if err != nil {
		return nil, r.mapTransitionError(err)
	}

	r.logger.Info("follow-up recorded", "id", c.ID, "follow_up_count", c.FollowUpCount)
	return &c, nil
}

func (r *repo) Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Case, error) {
	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, reason_type = $2, validated_by = $3, validated_at = NOW(),
			updated_at = NOW()
		WHERE id = $4
		RETURNING %s`, caseColumns)

	c, err := r.transition(ctx, id, StatusValidated, updateQ,
		StatusValidated, cmd.ReasonType, cmd.ValidatedBy, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("case validated",
		"id", c.ID,
		"reason_type", cmd.ReasonType,
		"validated_by", cmd.ValidatedBy,
	)
	return c, nil
}

func (r *repo) Escalate(ctx context.Context, id uuid.UUID, reason string) (*Case, error) {
	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, escalated_at = NOW(),
			explanation = COALESCE(NULLIF($2, ''), explanation),
			updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, caseColumns)

	c, err := r.transition(ctx, id, StatusEscalated, updateQ,
		StatusEscalated, reason, id)
	if err != nil {
		return nil, err
	}

	r.logger.Warn("case escalated", "id", c.ID, "reason", reason)
	return c, nil
}

func (r *repo) Exhaust(ctx context.Context, id uuid.UUID) (*Case, error) {
	updateQ := fmt.Sprintf(`
		UPDATE cases
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, caseColumns)

	c, err := r.transition(ctx, id, StatusMaxFollowUps, updateQ,
		StatusMaxFollowUps, id)
	if err != nil {
		return nil, err
	}

	r.logger.Warn("follow-up limit reached",
		"id", c.ID,
		"follow_up_count", c.FollowUpCount,
	)
	return c, nil
}

func (r *repo) Summary(ctx context.Context) (*StatusSummary, error) {
	q := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'replied'),
			COUNT(*) FILTER (WHERE status = 'validated'),
			COUNT(*) FILTER (WHERE status = 'escalated'),
			COUNT(*) FILTER (WHERE status = 'max_followups_reached'),
			COUNT(*)
		FROM cases`

	var s StatusSummary
	err := r.db.QueryRowContext(ctx, q).Scan(
		&s.Pending, &s.Replied, &s.Validated, &s.Escalated, &s.MaxFollowUps, &s.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize cases: %w", err)
	}
	return &s, nil
}

func (r *repo) Stale(ctx context.Context, cutoff time.Time, limit int) ([]Case, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM cases
		WHERE status IN ('pending', 'replied') AND updated_at < $1
		ORDER BY updated_at
		LIMIT $2`, caseColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{cutoff, limit}, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query stale cases: %w", err)
	}
	return items, nil
}

// transition applies a guarded status change: the case row is locked,
// the move is checked against the transition table, and the update runs
// only when permitted.
func (r *repo) transition(
	ctx context.Context,
	id uuid.UUID,
	target Status,
	updateQ string,
	updateArgs ...any,
) (*Case, error) {
	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		current, err := r.lockCase(ctx, tx, id)
		if err != nil {
			return Case{}, err
		}

		// Same-status updates are no-ops for live cases only; terminal
		// statuses reject every re-apply.
		allowed := (current.Status == target && !current.Status.Terminal()) ||
			CanTransition(current.Status, target)
		if !allowed {
			if current.Status.Terminal() {
				return Case{}, ErrTerminalState
			}
			return Case{}, ErrInvalidTransition
		}

		return repository.QueryOne(ctx, tx, updateQ, updateArgs, scanCase)
	})

	if err != nil {
		return nil, r.mapTransitionError(err)
	}
	return &c, nil
}

func (r *repo) lockCase(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Case, error) {
	q := fmt.Sprintf("SELECT %s FROM cases WHERE id = $1 FOR UPDATE", caseColumns)
	return repository.QueryOne(ctx, tx, q, []any{id}, scanCase)
}

func (r *repo) mapTransitionError(err error) error {
	if errors.Is(err, ErrTerminalState) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrFollowUpLimit) {
		return err
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
