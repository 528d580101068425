package classifier

import (
	"context"
	"log/slog"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/clickchain/engage/internal/policies"
	"github.com/clickchain/engage/internal/prompts"
)

// Classifier runs the two-tier reply assessment.
type Classifier struct {
	agent   gaconfig.AgentConfig
	prompts prompts.System
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Classifier. A non-positive timeout falls back to DefaultTimeout.
func New(
	agent gaconfig.AgentConfig,
	prompts prompts.System,
	timeout time.Duration,
	logger *slog.Logger,
) *Classifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Classifier{
		agent:   agent,
		prompts: prompts,
		timeout: timeout,
		logger:  logger.With("system", "classifier"),
	}
}

// Classify assesses a reply against the reason snapshot. The rule tier
// decides clear-cut replies; everything else goes to the semantic tier.
// When semantic analysis fails, Classify returns a fail-closed invalid
// result so the case stays in the workflow rather than silently resolving.
func (c *Classifier) Classify(
	ctx context.Context,
	reply string,
	reasons []policies.Reason,
) *Result {
	if result, decided := Evaluate(reply, reasons); decided {
		c.logger.Debug("rule tier decided",
			"reason_type", result.ReasonType,
			"is_valid", result.IsValid,
		)
		return result
	}

	result, err := c.semantic(ctx, reply, reasons)
	if err != nil {
		c.logger.Warn("semantic tier failed, failing closed", "error", err)
		return Fallback(err)
	}

	c.logger.Debug("semantic tier decided",
		"reason_type", result.ReasonType,
		"is_valid", result.IsValid,
		"confidence", result.Confidence,
	)
	return result
}

// Fallback builds the fail-closed result used when no tier can assess
// the reply.
func Fallback(err error) *Result {
	return &Result{
		IsValid:     false,
		ReasonType:  ReasonOther,
		Confidence:  0,
		Explanation: "classification unavailable: " + err.Error(),
		Source:      SourceRules,
	}
}
