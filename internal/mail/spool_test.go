package mail_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/pkg/lifecycle"
)

func testSpool(t *testing.T) (mail.Source, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &mail.Config{SpoolDir: dir}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	spool := mail.NewSpool(cfg, logger)

	lc := lifecycle.New()
	if err := spool.Start(lc); err != nil {
		t.Fatalf("spool start failed: %v", err)
	}
	t.Cleanup(func() {
		lc.WaitForStartup()
		lc.Shutdown(time.Second)
	})

	return spool, dir
}

func dropMessage(t *testing.T, dir, name string, msg mail.Inbound) {
	t.Helper()

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSpoolFetch(t *testing.T) {
	spool, dir := testSpool(t)

	dropMessage(t, dir, "b.json", mail.Inbound{
		MessageID: "msg-2",
		From:      "emp42@example.com",
		Subject:   "Re: [TS-emp42-2026-08-14]",
		Body:      "I was out sick",
	})
	dropMessage(t, dir, "a.json", mail.Inbound{
		MessageID: "msg-1",
		From:      "emp43@example.com",
		Subject:   "Re: [TS-emp43-2026-08-14]",
		Body:      "vacation day",
	})

	msgs, err := spool.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("messages: got %d, want 2", len(msgs))
	}
	if msgs[0].MessageID != "msg-1" || msgs[1].MessageID != "msg-2" {
		t.Errorf("messages out of name order: %s, %s", msgs[0].MessageID, msgs[1].MessageID)
	}
	if msgs[0].ReceivedAt.IsZero() {
		t.Error("ReceivedAt should be defaulted")
	}
}

func TestSpoolFetchMovesProcessed(t *testing.T) {
	spool, dir := testSpool(t)

	dropMessage(t, dir, "one.json", mail.Inbound{MessageID: "msg-1", Body: "x"})

	if _, err := spool.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	// A second fetch must not see the same message again.
	msgs, err := spool.Fetch(context.Background())
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("second fetch returned %d messages, want 0", len(msgs))
	}

	if _, err := os.Stat(filepath.Join(dir, "processed", "one.json")); err != nil {
		t.Errorf("processed file missing: %v", err)
	}
}

func TestSpoolFetchSkipsInvalid(t *testing.T) {
	spool, dir := testSpool(t)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	dropMessage(t, dir, "missing-id.json", mail.Inbound{Body: "no id"})
	dropMessage(t, dir, "valid.json", mail.Inbound{MessageID: "msg-1", Body: "real"})

	msgs, err := spool.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages: got %d, want 1", len(msgs))
	}
	if msgs[0].MessageID != "msg-1" {
		t.Errorf("message id = %s", msgs[0].MessageID)
	}
}

func TestSpoolNudgeOnDrop(t *testing.T) {
	spool, dir := testSpool(t)

	dropMessage(t, dir, "new.json", mail.Inbound{MessageID: "msg-1", Body: "hello"})

	select {
	case <-spool.Nudge():
	case <-time.After(5 * time.Second):
		t.Fatal("no nudge after file drop")
	}
}
