package cases_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/clickchain/engage/internal/cases"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from cases.Status
		to   cases.Status
		want bool
	}{
		{"pending to replied", cases.StatusPending, cases.StatusReplied, true},
		{"pending exhausts", cases.StatusPending, cases.StatusMaxFollowUps, true},
		{"pending to validated", cases.StatusPending, cases.StatusValidated, false},
		{"pending to escalated", cases.StatusPending, cases.StatusEscalated, false},
		{"replied to validated", cases.StatusReplied, cases.StatusValidated, true},
		{"replied back to pending", cases.StatusReplied, cases.StatusPending, true},
		{"replied exhausts", cases.StatusReplied, cases.StatusMaxFollowUps, true},
		{"replied to escalated", cases.StatusReplied, cases.StatusEscalated, false},
		{"validated to escalated", cases.StatusValidated, cases.StatusEscalated, true},
		{"validated not reopened", cases.StatusValidated, cases.StatusReplied, false},
		{"escalated is final", cases.StatusEscalated, cases.StatusPending, false},
		{"exhausted is final", cases.StatusMaxFollowUps, cases.StatusEscalated, false},
		{"no self transition", cases.StatusPending, cases.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cases.CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		status cases.Status
		want   bool
	}{
		{cases.StatusPending, false},
		{cases.StatusReplied, false},
		{cases.StatusValidated, true},
		{cases.StatusEscalated, true},
		{cases.StatusMaxFollowUps, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	got, err := cases.ParseStatus("replied")
	if err != nil {
		t.Fatalf("ParseStatus error: %v", err)
	}
	if got != cases.StatusReplied {
		t.Errorf("ParseStatus = %s, want replied", got)
	}

	if _, err := cases.ParseStatus("archived"); !errors.Is(err, cases.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestStatusUnmarshalJSON(t *testing.T) {
	var s cases.Status
	if err := json.Unmarshal([]byte(`"escalated"`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s != cases.StatusEscalated {
		t.Errorf("status = %s, want escalated", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); !errors.Is(err, cases.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestStatuses(t *testing.T) {
	got := cases.Statuses()
	if len(got) != 5 {
		t.Fatalf("statuses: got %d, want 5", len(got))
	}
	if got[0] != cases.StatusPending {
		t.Errorf("first status = %s, want pending", got[0])
	}
}
