package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clickchain/engage/pkg/lifecycle"
)

// spool reads inbound messages from JSON files dropped into a directory.
// A filesystem watcher nudges the monitor as soon as a file lands, and
// the periodic poll sweeps up anything the watcher missed. Processed
// files move to a processed/ subdirectory so a fetch never sees the same
// message twice.
type spool struct {
	dir       string
	processed string
	logger    *slog.Logger
	nudge     chan struct{}
}

// NewSpool creates a spool Source rooted at the configured directory.
func NewSpool(cfg *Config, logger *slog.Logger) Source {
	return &spool{
		dir:       cfg.SpoolDir,
		processed: filepath.Join(cfg.SpoolDir, "processed"),
		logger:    logger.With("system", "spool"),
		nudge:     make(chan struct{}, 1),
	}
}

func (s *spool) Start(lc *lifecycle.Coordinator) error {
	if err := os.MkdirAll(s.processed, 0o755); err != nil {
		return fmt.Errorf("create spool directories: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create spool watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch spool directory: %w", err)
	}

	s.logger.Info("spool watching", "dir", s.dir)

	lc.OnShutdown(func() {
		watcher.Close()
	})

	go s.watch(lc.Context(), watcher)
	return nil
}

func (s *spool) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			select {
			case s.nudge <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("spool watcher error", "error", err)
		}
	}
}

func (s *spool) Nudge() <-chan struct{} {
	return s.nudge
}

func (s *spool) Fetch(ctx context.Context) ([]Inbound, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read spool directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var msgs []Inbound
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return msgs, err
		}

		path := filepath.Join(s.dir, name)
		msg, err := s.readMessage(path)
		if err != nil {
			s.logger.Warn("skipping unreadable spool file", "file", name, "error", err)
			continue
		}

		if err := os.Rename(path, filepath.Join(s.processed, name)); err != nil {
			return msgs, fmt.Errorf("move processed spool file %s: %w", name, err)
		}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func (s *spool) readMessage(path string) (Inbound, error) {
	var msg Inbound

	data, err := os.ReadFile(path)
	if err != nil {
		return msg, err
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode message: %w", err)
	}

	if msg.MessageID == "" {
		return msg, fmt.Errorf("message has no message_id")
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	return msg, nil
}
