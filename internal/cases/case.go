// Package cases implements the engagement case domain.
// A case tracks one missing-timesheet inquiry for one employee and date,
// from initial notification through reply, validation, or escalation.
package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case represents a missing-timesheet inquiry. The (EmployeeID, TimesheetDate)
// pair is unique; re-registering the same pair returns the existing case.
type Case struct {
	ID               uuid.UUID  `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	EmployeeEmail    string     `json:"employee_email"`
	TimesheetDate    time.Time  `json:"timesheet_date"`
	Status           Status     `json:"status"`
	ReplyCount       int        `json:"reply_count"`
	FollowUpCount    int        `json:"follow_up_count"`
	LastEmailSentAt  *time.Time `json:"last_email_sent_at"`
	LastMessageID    *string    `json:"last_message_id"`
	ReplyText        *string    `json:"reply_text"`
	ReasonType       *string    `json:"reason_type"`
	Confidence       *int       `json:"confidence"`
	Explanation      *string    `json:"explanation"`
	RequiresApproval bool       `json:"requires_approval"`
	Source           *string    `json:"source"`
	ValidatedBy      *string    `json:"validated_by"`
	ValidatedAt      *time.Time `json:"validated_at"`
	EscalatedAt      *time.Time `json:"escalated_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MaxFollowUps caps reminder messages per case. Once reached, the case
// moves to max_followups_reached and is flagged for management instead
// of receiving further mail.
const MaxFollowUps = 3

// RegisterCommand carries the data needed to open a new case.
type RegisterCommand struct {
	EmployeeID    string    `json:"employee_id"`
	EmployeeEmail string    `json:"employee_email"`
	TimesheetDate time.Time `json:"timesheet_date"`
	MessageID     *string   `json:"message_id"`
}

// ReplyCommand carries an employee reply to record against a case.
type ReplyCommand struct {
	MessageID string `json:"message_id"`
	ReplyText string `json:"reply_text"`
}

// ClassifyCommand carries a classification outcome to record against a case.
type ClassifyCommand struct {
	IsValid          bool   `json:"is_valid"`
	ReasonType       string `json:"reason_type"`
	Confidence       int    `json:"confidence"`
	Explanation      string `json:"explanation"`
	RequiresApproval bool   `json:"requires_approval"`
	Source           string `json:"source"`
}

// ValidateCommand carries the data needed to manually validate a case.
type ValidateCommand struct {
	ReasonType  string `json:"reason_type"`
	ValidatedBy string `json:"validated_by"`
}

// StatusSummary reports case counts per status.
type StatusSummary struct {
	Pending      int `json:"pending"`
	Replied      int `json:"replied"`
	Validated    int `json:"validated"`
	Escalated    int `json:"escalated"`
	MaxFollowUps int `json:"max_followups_reached"`
	Total        int `json:"total"`
}
