package engagement_test

import (
	"strings"
	"testing"
	"time"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/engagement"
	"github.com/clickchain/engage/internal/mail"
)

func testCase(followUps int) *cases.Case {
	day, _ := time.Parse("2006-01-02", "2026-08-14")
	return &cases.Case{
		EmployeeID:    "emp42",
		EmployeeEmail: "emp42@example.com",
		TimesheetDate: day,
		FollowUpCount: followUps,
	}
}

func TestInquirySubjectCarriesToken(t *testing.T) {
	c := testCase(0)
	subject := engagement.InquirySubject(c.EmployeeID, c.TimesheetDate)

	id, day, ok := mail.ParseCaseToken(subject)
	if !ok {
		t.Fatalf("subject %q has no parseable token", subject)
	}
	if id != "emp42" {
		t.Errorf("token id = %q, want emp42", id)
	}
	if !day.Equal(c.TimesheetDate) {
		t.Errorf("token date = %v, want %v", day, c.TimesheetDate)
	}
}

func TestInquiryBodyNamesDate(t *testing.T) {
	body := engagement.InquiryBody(testCase(0))
	if !strings.Contains(body, "Friday, August 14, 2026") {
		t.Errorf("body does not name the timesheet date:\n%s", body)
	}
}

func TestFollowUpSubjectCarriesToken(t *testing.T) {
	subject := engagement.FollowUpSubject(testCase(1))
	if _, _, ok := mail.ParseCaseToken(subject); !ok {
		t.Fatalf("subject %q has no parseable token", subject)
	}
	if !strings.HasPrefix(subject, "Reminder:") {
		t.Errorf("subject = %q, want Reminder prefix", subject)
	}
}

func TestFollowUpBodyCountsAttempts(t *testing.T) {
	body := engagement.FollowUpBody(testCase(2))
	if !strings.Contains(body, "reminder 2 of 3") {
		t.Errorf("body does not state attempt count:\n%s", body)
	}
	if !strings.Contains(body, "1 more reminder") {
		t.Errorf("body does not state remaining attempts:\n%s", body)
	}
}

func TestFollowUpBodyFinalWarning(t *testing.T) {
	body := engagement.FollowUpBody(testCase(3))
	if !strings.Contains(body, "If we receive no response, this matter will be escalated") {
		t.Errorf("final reminder should warn about escalation:\n%s", body)
	}
}
