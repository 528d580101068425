package mail_test

import (
	"testing"
	"time"

	"github.com/clickchain/engage/internal/mail"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFormatCaseToken(t *testing.T) {
	got := mail.FormatCaseToken("emp42", date("2026-08-14"))
	if got != "[TS-emp42-2026-08-14]" {
		t.Errorf("FormatCaseToken = %q", got)
	}
}

func TestParseCaseToken(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		wantID  string
		wantDay string
		wantOK  bool
	}{
		{
			name:    "plain token",
			subject: "Missing timesheet entry for 2026-08-14 [TS-emp42-2026-08-14]",
			wantID:  "emp42",
			wantDay: "2026-08-14",
			wantOK:  true,
		},
		{
			name:    "reply prefixes preserved",
			subject: "Re: Re: Missing timesheet entry for 2026-08-14 [TS-emp42-2026-08-14]",
			wantID:  "emp42",
			wantDay: "2026-08-14",
			wantOK:  true,
		},
		{
			name:    "forward prefix",
			subject: "Fwd: [TS-a.b_c-2026-01-02] missing entry",
			wantID:  "a.b_c",
			wantDay: "2026-01-02",
			wantOK:  true,
		},
		{
			name:    "hyphenated employee id",
			subject: "Re: Missing timesheet entry for 2026-08-14 [TS-EMP-001-2026-08-14]",
			wantID:  "EMP-001",
			wantDay: "2026-08-14",
			wantOK:  true,
		},
		{
			name:    "date-like segment inside employee id",
			subject: "[TS-batch-2025-12-worker-2026-08-14]",
			wantID:  "batch-2025-12-worker",
			wantDay: "2026-08-14",
			wantOK:  true,
		},
		{
			name:    "no token",
			subject: "Out of office",
			wantOK:  false,
		},
		{
			name:    "date without token brackets",
			subject: "About 2026-08-14",
			wantOK:  false,
		},
		{
			name:    "impossible date rejected",
			subject: "[TS-emp42-2026-13-40]",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, day, ok := mail.ParseCaseToken(tt.subject)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if got := day.Format("2006-01-02"); got != tt.wantDay {
				t.Errorf("date = %s, want %s", got, tt.wantDay)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, employeeID := range []string{"worker_7", "EMP-001", "a-b-c"} {
		t.Run(employeeID, func(t *testing.T) {
			subject := "Re: " + mail.FormatCaseToken(employeeID, date("2026-02-28"))
			id, day, ok := mail.ParseCaseToken(subject)
			if !ok {
				t.Fatal("token not recognized")
			}
			if id != employeeID {
				t.Errorf("id = %q, want %q", id, employeeID)
			}
			if !day.Equal(date("2026-02-28")) {
				t.Errorf("date = %v", day)
			}
		})
	}
}

func TestParseSubjectDate(t *testing.T) {
	t.Run("bare date", func(t *testing.T) {
		day, ok := mail.ParseSubjectDate("Re: missing entry 2026-08-14")
		if !ok {
			t.Fatal("date not recognized")
		}
		if got := day.Format("2006-01-02"); got != "2026-08-14" {
			t.Errorf("date = %s", got)
		}
	})

	t.Run("no date", func(t *testing.T) {
		if _, ok := mail.ParseSubjectDate("Re: missing entry"); ok {
			t.Error("expected no date")
		}
	})
}
