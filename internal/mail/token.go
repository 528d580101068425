package mail

import (
	"fmt"
	"regexp"
	"time"
)

// Case tokens tie a reply back to its case through the subject line.
// The token survives arbitrary "Re:" and "Fwd:" prefixing because it is
// matched anywhere in the subject. Employee IDs may themselves contain
// hyphens, so the date is anchored as the last three hyphen-separated
// fields before the closing bracket. A bare date is accepted as a
// fallback for clients that mangle the token.
var (
	tokenRegex = regexp.MustCompile(`\[TS-([A-Za-z0-9_.-]+)-(\d{4}-\d{2}-\d{2})\]`)
	dateRegex  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// FormatCaseToken builds the subject token for an employee and timesheet date.
func FormatCaseToken(employeeID string, date time.Time) string {
	return fmt.Sprintf("[TS-%s-%s]", employeeID, date.Format("2006-01-02"))
}

// ParseCaseToken extracts the employee ID and timesheet date from a
// subject containing a case token. Returns false when no token is present.
func ParseCaseToken(subject string) (string, time.Time, bool) {
	m := tokenRegex.FindStringSubmatch(subject)
	if m == nil {
		return "", time.Time{}, false
	}

	date, err := time.Parse("2006-01-02", m[2])
	if err != nil {
		return "", time.Time{}, false
	}

	return m[1], date, true
}

// ParseSubjectDate extracts a bare timesheet date from a subject line.
// Used as a fallback when the case token is missing, combined with the
// sender address to resolve the case.
func ParseSubjectDate(subject string) (time.Time, bool) {
	m := dateRegex.FindStringSubmatch(subject)
	if m == nil {
		return time.Time{}, false
	}

	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, false
	}

	return date, true
}
