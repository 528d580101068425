package engagement

import (
	"fmt"
	"time"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/mail"
)

// InquirySubject builds the initial notification subject. The embedded
// case token is how a reply finds its way back to the case.
func InquirySubject(employeeID string, date time.Time) string {
	return fmt.Sprintf(
		"Missing timesheet entry for %s %s",
		date.Format("2006-01-02"),
		mail.FormatCaseToken(employeeID, date),
	)
}

// InquiryBody builds the initial notification body.
func InquiryBody(c *cases.Case) string {
	return fmt.Sprintf(`Hello,

Our records show no hours were logged on your timesheet for %s.

Please reply to this message with a brief explanation, for example the
reason you were absent or a note that the hours were worked but not
recorded. Keep the subject line intact so your reply is routed correctly.

Thank you,
HR Engagement`,
		c.TimesheetDate.Format("Monday, January 2, 2006"))
}

// FollowUpSubject builds the reminder subject, preserving the case token.
func FollowUpSubject(c *cases.Case) string {
	return fmt.Sprintf(
		"Reminder: missing timesheet entry for %s %s",
		c.TimesheetDate.Format("2006-01-02"),
		mail.FormatCaseToken(c.EmployeeID, c.TimesheetDate),
	)
}

// FollowUpBody builds the reminder body. The attempt counter tells the
// employee where they stand before escalation.
func FollowUpBody(c *cases.Case) string {
	remaining := cases.MaxFollowUps - c.FollowUpCount
	closing := "If we receive no response, this matter will be escalated to your manager."
	if remaining > 0 {
		closing = fmt.Sprintf(
			"If we receive no response after %d more reminder(s), this matter will be escalated to your manager.",
			remaining,
		)
	}

	return fmt.Sprintf(`Hello,

This is reminder %d of %d regarding the missing timesheet entry for %s.
We have not yet received an explanation we could act on.

Please reply to this message with a brief explanation. %s

Thank you,
HR Engagement`,
		c.FollowUpCount,
		cases.MaxFollowUps,
		c.TimesheetDate.Format("Monday, January 2, 2006"),
		closing)
}
