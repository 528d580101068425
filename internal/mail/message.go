// Package mail is the messaging boundary: outbound notifications go out
// over SMTP, inbound replies come in through a watched spool directory.
// The rest of the service only sees the Sender and Source contracts.
package mail

import (
	"context"
	"time"

	"github.com/clickchain/engage/pkg/lifecycle"
)

// Inbound represents a received message.
type Inbound struct {
	MessageID  string    `json:"message_id"`
	From       string    `json:"from"`
	FromName   string    `json:"from_name,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Outbound represents a message to deliver.
type Outbound struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender delivers outbound messages.
type Sender interface {
	Send(ctx context.Context, msg Outbound) error
	// SendBatch delivers messages concurrently and returns the first
	// delivery error, if any.
	SendBatch(ctx context.Context, msgs []Outbound) error
}

// Source provides inbound messages.
type Source interface {
	// Start registers lifecycle hooks for the source's background work.
	Start(lc *lifecycle.Coordinator) error
	// Fetch returns the messages that arrived since the last call.
	Fetch(ctx context.Context) ([]Inbound, error)
	// Nudge signals between polls that new messages may be waiting.
	// Receivers must tolerate spurious signals.
	Nudge() <-chan struct{}
}
