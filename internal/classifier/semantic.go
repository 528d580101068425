package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/clickchain/engage/internal/policies"
	"github.com/clickchain/engage/internal/prompts"
	"github.com/clickchain/engage/pkg/formatting"
)

type analysisResponse struct {
	IsValid           bool     `json:"is_valid"`
	ReasonType        string   `json:"reason_type"`
	Confidence        int      `json:"confidence"`
	Explanation       string   `json:"explanation"`
	RequiresApproval  bool     `json:"requires_approval"`
	SuggestedKeywords []string `json:"suggested_keywords"`
}

// semantic sends the reply and the reason snapshot to the agent and
// parses the structured assessment out of the response.
func (c *Classifier) semantic(
	ctx context.Context,
	reply string,
	reasons []policies.Reason,
) (*Result, error) {
	prompt, err := c.composePrompt(ctx, reply, reasons)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSemanticUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	a, err := agent.New(&c.agent)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrSemanticUnavailable, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrSemanticUnavailable, err)
	}

	parsed, err := formatting.Parse[analysisResponse](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrSemanticUnavailable, err)
	}

	return c.applyPolicy(parsed, reasons), nil
}

// composePrompt builds the analysis prompt from the stage instructions,
// the immutable output spec, the reason snapshot, and the reply.
func (c *Classifier) composePrompt(
	ctx context.Context,
	reply string,
	reasons []policies.Reason,
) (string, error) {
	instructions, err := c.prompts.Instructions(ctx, prompts.StageAnalyze)
	if err != nil {
		return "", fmt.Errorf("load instructions: %w", err)
	}

	spec, err := c.prompts.Spec(ctx, prompts.StageAnalyze)
	if err != nil {
		return "", fmt.Errorf("load spec: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nRecognized absence reasons:\n")

	for _, r := range reasons {
		fmt.Fprintf(&sb, "- %s (keywords: %s; requires_approval: %t; max_days_per_month: %d)\n",
			r.Type, strings.Join(r.Keywords, ", "), r.RequiresApproval, r.MaxDaysPerMonth)
	}

	sb.WriteString("\nEmployee reply:\n")
	sb.WriteString(reply)

	return sb.String(), nil
}

// applyPolicy reconciles the model's assessment with the reason snapshot:
// unknown reason types collapse to "other", confidence is clamped to
// [0, 100], and requires_approval always comes from policy, never from
// the model.
func (c *Classifier) applyPolicy(resp analysisResponse, reasons []policies.Reason) *Result {
	result := &Result{
		IsValid:           resp.IsValid,
		ReasonType:        strings.ToLower(strings.TrimSpace(resp.ReasonType)),
		Confidence:        clamp(resp.Confidence, 0, 100),
		Explanation:       resp.Explanation,
		SuggestedKeywords: resp.SuggestedKeywords,
		Source:            SourceSemantic,
	}

	if result.ReasonType == "" {
		result.ReasonType = ReasonOther
	}

	matched := false
	for _, r := range reasons {
		if r.Type == result.ReasonType {
			result.RequiresApproval = r.RequiresApproval
			matched = true
			break
		}
	}

	if !matched && result.ReasonType != ReasonOther {
		result.ReasonType = ReasonOther
	}

	if result.SuggestedKeywords == nil {
		result.SuggestedKeywords = []string{}
	}

	return result
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// DefaultTimeout bounds a single semantic analysis call.
const DefaultTimeout = 10 * time.Second
