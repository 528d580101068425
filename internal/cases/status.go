package cases

import (
	"encoding/json"
	"slices"
)

// Status represents a case's position in the engagement lifecycle.
type Status string

// Case lifecycle statuses. Escalated and max_followups_reached accept no
// further transitions; validated accepts only an escalation request.
const (
	StatusPending      Status = "pending"
	StatusReplied      Status = "replied"
	StatusValidated    Status = "validated"
	StatusEscalated    Status = "escalated"
	StatusMaxFollowUps Status = "max_followups_reached"
)

var statuses = []Status{
	StatusPending,
	StatusReplied,
	StatusValidated,
	StatusEscalated,
	StatusMaxFollowUps,
}

// transitions defines the permitted status moves. A pending case returns
// to pending after each follow-up reminder, so replied may step back.
// Cases exhaust from pending (silence past the limit) or from replied
// (a final invalid reply). Escalation is requested on validated cases.
var transitions = map[Status][]Status{
	StatusPending:      {StatusReplied, StatusMaxFollowUps},
	StatusReplied:      {StatusValidated, StatusPending, StatusMaxFollowUps},
	StatusValidated:    {StatusEscalated},
	StatusEscalated:    {},
	StatusMaxFollowUps: {},
}

// Statuses returns the list of valid case statuses.
func Statuses() []Status {
	return statuses
}

// CanTransition reports whether a case may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// Terminal reports whether automated reply processing is finished for a
// status. Late replies to a terminal case are logged and dropped, never
// reopened. A validated case is terminal for replies but may still be
// escalated to the compliance collaborator.
func (s Status) Terminal() bool {
	return s == StatusValidated || s == StatusEscalated || s == StatusMaxFollowUps
}

// UnmarshalJSON validates that the decoded string is a known status value.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !slices.Contains(statuses, v) {
		return ErrInvalidStatus
	}
	*s = v
	return nil
}

// ParseStatus validates a string as a known case status.
// Returns ErrInvalidStatus if the value is not recognized.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}
