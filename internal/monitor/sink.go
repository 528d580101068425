package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
)

// sink persists monitor log entries to the monitor_logs table so
// activity survives restarts. Writes are best effort; a sink failure
// never interrupts a poll.
type sink struct {
	db     *sql.DB
	logger *slog.Logger
}

func newSink(db *sql.DB, logger *slog.Logger) *sink {
	return &sink{db: db, logger: logger}
}

func (s *sink) record(ctx context.Context, entry LogEntry) {
	if s.db == nil {
		return
	}

	var details []byte
	if len(entry.Details) > 0 {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warn("monitor log details encode failed", "error", err)
			details = nil
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO monitor_logs(logged_at, level, message, details) VALUES ($1, $2, $3, $4)",
		entry.Timestamp, entry.Level, entry.Message, details,
	)
	if err != nil {
		s.logger.Warn("monitor log write failed", "error", err)
	}
}
