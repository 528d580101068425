package policies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/clickchain/engage/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a policy repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "policies"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context) ([]Reason, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM policy_reasons ORDER BY position",
		reasonColumns,
	)

	reasons, err := repository.QueryMany(ctx, r.db, q, nil, scanReason)
	if err != nil {
		return nil, fmt.Errorf("query reasons: %w", err)
	}
	return reasons, nil
}

func (r *repo) Snapshot(ctx context.Context) ([]Reason, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM policy_reasons WHERE active ORDER BY position",
		reasonColumns,
	)

	reasons, err := repository.QueryMany(ctx, r.db, q, nil, scanReason)
	if err != nil {
		return nil, fmt.Errorf("query active reasons: %w", err)
	}
	return reasons, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Reason, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM policy_reasons WHERE id = $1",
		reasonColumns,
	)

	reason, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanReason)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &reason, nil
}

func (r *repo) FindByType(ctx context.Context, reasonType string) (*Reason, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM policy_reasons WHERE type = $1",
		reasonColumns,
	)

	reason, err := repository.QueryOne(ctx, r.db, q, []any{strings.ToLower(reasonType)}, scanReason)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &reason, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Reason, error) {
	reasonType := strings.ToLower(strings.TrimSpace(cmd.Type))
	if reasonType == "" {
		return nil, ErrEmptyType
	}

	keywords := normalizeKeywords(cmd.Keywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}

	insertQ := fmt.Sprintf(`
		INSERT INTO policy_reasons(
			type, keywords, requires_approval, max_days_per_month,
			requires_documentation, active, position
		)
		VALUES ($1, $2, $3, $4, $5, TRUE,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM policy_reasons))
		RETURNING %s`, reasonColumns)

	insertArgs := []any{
		reasonType,
		keywordsJSON,
		cmd.RequiresApproval,
		cmd.MaxDaysPerMonth,
		cmd.RequiresDocumentation,
	}

	reason, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Reason, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanReason)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("absence reason created",
		"id", reason.ID,
		"type", reason.Type,
		"keywords", len(reason.Keywords),
	)
	return &reason, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Reason, error) {
	keywords := normalizeKeywords(cmd.Keywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}

	updateQ := fmt.Sprintf(`
		UPDATE policy_reasons
		SET keywords = $1, requires_approval = $2, max_days_per_month = $3,
			requires_documentation = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING %s`, reasonColumns)

	updateArgs := []any{
		keywordsJSON,
		cmd.RequiresApproval,
		cmd.MaxDaysPerMonth,
		cmd.RequiresDocumentation,
		id,
	}

	reason, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Reason, error) {
		return repository.QueryOne(ctx, tx, updateQ, updateArgs, scanReason)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("absence reason updated", "id", reason.ID, "type", reason.Type)
	return &reason, nil
}

func (r *repo) Train(ctx context.Context, id uuid.UUID, cmd TrainCommand) (*Reason, error) {
	if len(normalizeKeywords(cmd.Keywords)) == 0 {
		return nil, ErrNoKeywords
	}

	updateQ := fmt.Sprintf(`
		UPDATE policy_reasons
		SET keywords = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, reasonColumns)

	reason, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Reason, error) {
		current, err := repository.QueryOne(ctx, tx,
			fmt.Sprintf("SELECT %s FROM policy_reasons WHERE id = $1 FOR UPDATE", reasonColumns),
			[]any{id}, scanReason,
		)
		if err != nil {
			return Reason{}, err
		}

		merged := mergeKeywords(current.Keywords, cmd.Keywords)
		mergedJSON, err := json.Marshal(merged)
		if err != nil {
			return Reason{}, fmt.Errorf("marshal keywords: %w", err)
		}

		return repository.QueryOne(ctx, tx, updateQ, []any{mergedJSON, id}, scanReason)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("absence reason trained",
		"id", reason.ID,
		"type", reason.Type,
		"keywords", len(reason.Keywords),
	)
	return &reason, nil
}

func (r *repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Reason, error) {
	updateQ := fmt.Sprintf(`
		UPDATE policy_reasons
		SET active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, reasonColumns)

	reason, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Reason, error) {
		if !active {
			var remaining int
			err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM policy_reasons WHERE active AND id <> $1",
				id,
			).Scan(&remaining)
			if err != nil {
				return Reason{}, fmt.Errorf("count active reasons: %w", err)
			}
			if remaining == 0 {
				return Reason{}, ErrLastActive
			}
		}

		return repository.QueryOne(ctx, tx, updateQ, []any{active, id}, scanReason)
	})

	if err != nil {
		if errors.Is(err, ErrLastActive) {
			return nil, err
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("absence reason activation changed",
		"id", reason.ID,
		"type", reason.Type,
		"active", reason.Active,
	)
	return &reason, nil
}
