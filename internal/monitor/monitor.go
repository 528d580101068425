// Package monitor polls the inbound message source, routes replies
// through the engagement pipeline, and keeps an activity log of what it
// did. Polling runs on a cron schedule with filesystem nudges between
// ticks so spooled replies are picked up promptly.
package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/engagement"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/metrics"
	"github.com/clickchain/engage/pkg/lifecycle"
	"github.com/clickchain/engage/pkg/storage"
)

// Status reports the monitor's operational state.
type Status struct {
	Active               bool       `json:"active"`
	LastCheckTime        *time.Time `json:"last_check_time"`
	ProcessedCount       int64      `json:"processed_count"`
	CheckIntervalSeconds int        `json:"check_interval_seconds"`
}

// Monitor drives the inbox polling loop.
type Monitor struct {
	cfg     *Config
	source  mail.Source
	rt      *engagement.Runtime
	archive storage.System
	metrics *metrics.Metrics
	sink    *sink
	logger  *slog.Logger
	buffer  *logBuffer
	dedup   *dedup

	mu        sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
	active    bool
	lastCheck time.Time
	processed int64

	pollMu  sync.Mutex
	baseCtx context.Context
}

// New creates a Monitor. The archive system may be nil when archiving
// is disabled.
func New(
	cfg *Config,
	source mail.Source,
	rt *engagement.Runtime,
	archive storage.System,
	m *metrics.Metrics,
	db *sql.DB,
	logger *slog.Logger,
) *Monitor {
	log := logger.With("system", "monitor")
	return &Monitor{
		cfg:     cfg,
		source:  source,
		rt:      rt,
		archive: archive,
		metrics: m,
		sink:    newSink(db, log),
		logger:  log,
		buffer:  newLogBuffer(cfg.LogCapacity),
		dedup:   newDedup(time.Duration(cfg.DedupMaxAgeHours) * time.Hour),
		baseCtx: context.Background(),
	}
}

// Start registers lifecycle hooks: the source begins watching, the
// monitor stops on shutdown, and polling begins immediately when
// auto-start is configured.
func (m *Monitor) Start(lc *lifecycle.Coordinator) error {
	m.baseCtx = lc.Context()

	if err := m.source.Start(lc); err != nil {
		return fmt.Errorf("start message source: %w", err)
	}

	lc.OnShutdown(func() {
		m.StopMonitoring()
	})

	if m.cfg.AutoStart {
		lc.OnStartup(func() {
			if _, err := m.StartMonitoring(); err != nil {
				m.logger.Error("monitor auto-start failed", "error", err)
			}
		})
	}

	return nil
}

// StartMonitoring begins the polling schedule. Calling it while active
// is a no-op that returns the current status.
func (m *Monitor) StartMonitoring() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return m.statusLocked(), nil
	}

	ctx, cancel := context.WithCancel(m.baseCtx)

	c := cron.New()
	spec := fmt.Sprintf("@every %ds", m.cfg.CheckIntervalSeconds)
	if _, err := c.AddFunc(spec, func() { m.poll(ctx) }); err != nil {
		cancel()
		return Status{}, fmt.Errorf("schedule poll: %w", err)
	}

	c.Start()
	m.cron = c
	m.cancel = cancel
	m.active = true

	go m.listen(ctx)
	go m.poll(ctx)

	m.record(ctx, LevelInfo, "monitoring started, checking every %d seconds", m.cfg.CheckIntervalSeconds)
	return m.statusLocked(), nil
}

// StopMonitoring halts the polling schedule, draining any in-flight
// poll before returning. Calling it while inactive is a no-op.
func (m *Monitor) StopMonitoring() Status {
	m.mu.Lock()

	if !m.active {
		defer m.mu.Unlock()
		return m.statusLocked()
	}

	c := m.cron
	cancel := m.cancel
	m.cron = nil
	m.cancel = nil
	m.active = false
	m.mu.Unlock()

	cancel()
	<-c.Stop().Done()

	m.record(context.Background(), LevelInfo, "monitoring stopped")

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Status reports the current operational state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Monitor) statusLocked() Status {
	s := Status{
		Active:               m.active,
		ProcessedCount:       m.processed,
		CheckIntervalSeconds: m.cfg.CheckIntervalSeconds,
	}
	if !m.lastCheck.IsZero() {
		t := m.lastCheck
		s.LastCheckTime = &t
	}
	return s
}

// Logs returns recent activity entries, newest first.
func (m *Monitor) Logs(limit int, level Level) []LogEntry {
	return m.buffer.recent(limit, level)
}

// listen converts source nudges into immediate polls.
func (m *Monitor) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.source.Nudge():
			m.poll(ctx)
		}
	}
}

// poll runs one check cycle: fetch inbound messages, route each through
// the reply pipeline, then sweep stale cases for follow-ups. Cycles
// never overlap; a nudge during a poll waits its turn.
func (m *Monitor) poll(ctx context.Context) {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	timer := prometheus.NewTimer(m.metrics.PollDuration)
	defer timer.ObserveDuration()
	m.metrics.PollsTotal.Inc()

	msgs, err := m.source.Fetch(ctx)
	if err != nil {
		m.record(ctx, LevelError, "inbox fetch failed: %v", err)
		return
	}

	for _, msg := range msgs {
		m.process(ctx, msg)
	}

	m.sweepStale(ctx)

	if pruned := m.dedup.prune(); pruned > 0 {
		m.logger.Debug("dedup pruned", "removed", pruned, "remaining", m.dedup.size())
	}

	m.mu.Lock()
	m.lastCheck = time.Now()
	m.mu.Unlock()
}

// process routes one inbound message through the reply pipeline.
func (m *Monitor) process(ctx context.Context, msg mail.Inbound) {
	if m.dedup.mark(msg.MessageID) {
		m.metrics.MessagesDuplicate.Inc()
		m.record(ctx, LevelInfo, "skipping duplicate message %s", msg.MessageID)
		return
	}

	m.archiveMessage(ctx, msg)

	c, err := m.rt.HandleReply(ctx, msg)
	if err != nil {
		if errors.Is(err, engagement.ErrLateReply) {
			m.recordDetails(ctx, LevelInfo, messageDetails(msg, nil),
				"late reply %s from %s for a closed case, ignored", msg.MessageID, msg.From)
			return
		}

		m.metrics.MessagesUnresolved.Inc()
		m.recordDetails(ctx, LevelWarning, messageDetails(msg, nil),
			"message %s from %s not processed: %v", msg.MessageID, msg.From, err)
		return
	}

	m.metrics.MessagesProcessed.Inc()
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()

	if c.Status == cases.StatusMaxFollowUps {
		m.recordDetails(ctx, LevelNotification, messageDetails(msg, c),
			"case %s reached the follow-up limit, flagged for management review", c.ID)
	}

	m.recordDetails(ctx, LevelInfo, messageDetails(msg, c),
		"processed reply from %s for case %s, status now %s", msg.From, c.ID, c.Status)
}

// previewLength caps the reply excerpt carried in log details.
const previewLength = 100

// messageDetails builds the structured audit payload for log entries
// about an inbound message. Case fields are filled once the message has
// resolved to a case.
func messageDetails(msg mail.Inbound, c *cases.Case) map[string]any {
	details := map[string]any{
		"from_email":      msg.From,
		"from_name":       msg.FromName,
		"subject":         msg.Subject,
		"content_preview": preview(msg.Body),
	}

	if c == nil {
		return details
	}

	details["timesheet_date"] = c.TimesheetDate.Format("2006-01-02")
	details["reason_valid"] = c.Status == cases.StatusValidated || c.Status == cases.StatusEscalated
	if c.ReasonType != nil {
		details["reason_type"] = *c.ReasonType
	}
	return details
}

func preview(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= previewLength {
		return string(runes)
	}
	return string(runes[:previewLength]) + "..."
}

// sweepStale sends follow-ups for cases silent past the configured window.
func (m *Monitor) sweepStale(ctx context.Context) {
	cutoff := time.Now().Add(-time.Duration(m.cfg.FollowUpAfterHours) * time.Hour)

	stale, err := m.rt.Cases.Stale(ctx, cutoff, m.cfg.StaleBatchSize)
	if err != nil {
		m.record(ctx, LevelError, "stale case sweep failed: %v", err)
		return
	}

	for _, c := range stale {
		updated, err := m.rt.SendFollowUp(ctx, c.ID)
		if err != nil {
			m.record(ctx, LevelError, "follow-up for case %s failed: %v", c.ID, err)
			continue
		}

		if updated.Status.Terminal() {
			m.record(ctx, LevelNotification,
				"case %s reached the follow-up limit after %d reminders, flagged for management review",
				updated.ID, updated.FollowUpCount)
			continue
		}

		m.record(ctx, LevelNotification, "follow-up %d/%d sent to %s for case %s",
			updated.FollowUpCount, cases.MaxFollowUps, updated.EmployeeEmail, updated.ID)
	}
}

// archiveMessage stores the raw inbound payload when archiving is enabled.
func (m *Monitor) archiveMessage(ctx context.Context, msg mail.Inbound) {
	if m.archive == nil {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.record(ctx, LevelWarning, "archive encode failed for %s: %v", msg.MessageID, err)
		return
	}

	if err := m.archive.Archive(ctx, msg.MessageID, msg.ReceivedAt, payload); err != nil {
		m.record(ctx, LevelWarning, "archive write failed for %s: %v", msg.MessageID, err)
	}
}

// record appends to the activity log, mirrors to the persistent sink,
// and emits a matching structured log line.
func (m *Monitor) record(ctx context.Context, level Level, format string, args ...any) {
	m.recordDetails(ctx, level, nil, format, args...)
}

// recordDetails is record with a structured details payload attached.
func (m *Monitor) recordDetails(ctx context.Context, level Level, details map[string]any, format string, args ...any) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		Details:   details,
	}

	m.buffer.append(entry)
	m.sink.record(ctx, entry)

	switch level {
	case LevelError:
		m.logger.Error(entry.Message)
	case LevelWarning:
		m.logger.Warn(entry.Message)
	default:
		m.logger.Info(entry.Message)
	}
}
