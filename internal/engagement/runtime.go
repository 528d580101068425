// Package engagement orchestrates the reply pipeline: resolving an
// inbound message to its case, classifying the reply, applying the
// outcome, and driving follow-ups and escalations.
package engagement

import (
	"log/slog"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/metrics"
	"github.com/clickchain/engage/internal/policies"
)

// Runtime carries the dependencies shared by the pipeline nodes.
type Runtime struct {
	Cases      cases.System
	Policies   policies.System
	Classifier *classifier.Classifier
	Sender     mail.Sender
	Compliance compliance.Collaborator
	Metrics    *metrics.Metrics
	Locker     *cases.Locker
	Logger     *slog.Logger
}

// State keys used by the reply pipeline graph.
const (
	KeyMessage = "message"
	KeyCase    = "case"
	KeyResult  = "result"
)
