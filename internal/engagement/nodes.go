package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/policies"
)

// recordNode transitions the case to replied and stores the reply text.
func (rt *Runtime) recordNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		c, err := extractCase(s)
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}
		msg, err := extractMessage(s)
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		updated, err := rt.Cases.RecordReply(ctx, c.ID, cases.ReplyCommand{
			MessageID: msg.MessageID,
			ReplyText: msg.Body,
		})
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		s = s.Set(KeyCase, *updated)
		return s, nil
	})
}

// classifyNode runs the two-tier classifier against the policy snapshot.
func (rt *Runtime) classifyNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		msg, err := extractMessage(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		snapshot, err := rt.Policies.Snapshot(ctx)
		if err != nil {
			return s, fmt.Errorf("classify: policy snapshot: %w", err)
		}

		result := rt.Classifier.Classify(ctx, msg.Body, snapshot)
		rt.Metrics.Classifications.WithLabelValues(string(result.Source)).Inc()

		rt.Logger.Info("reply classified",
			"message_id", msg.MessageID,
			"reason_type", result.ReasonType,
			"is_valid", result.IsValid,
			"confidence", result.Confidence,
			"source", result.Source,
		)

		s = s.Set(KeyResult, *result)
		return s, nil
	})
}

// validateNode records a valid classification. Reasons that require
// approval are escalated to the compliance collaborator right after
// validating. Semantic matches feed their suggested keywords back into
// the policy so the rule tier catches similar replies next time.
func (rt *Runtime) validateNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		c, err := extractCase(s)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}
		result, err := extractResult(s)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}

		updated, err := rt.Cases.RecordClassification(ctx, c.ID, classifyCommand(result))
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}
		rt.Metrics.CasesValidated.Inc()

		if result.RequiresApproval {
			updated, err = rt.Cases.Escalate(ctx, updated.ID, "reason requires management approval")
			if err != nil {
				return s, fmt.Errorf("validate: %w", err)
			}
			rt.Metrics.EscalationsTotal.Inc()
		}

		rt.train(ctx, result)

		s = s.Set(KeyCase, *updated)
		return s, nil
	})
}

// followUpNode records an invalid classification and sends a reminder.
// Once the follow-up limit is reached the case is flagged for management
// instead, and no further mail goes out.
func (rt *Runtime) followUpNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		c, err := extractCase(s)
		if err != nil {
			return s, fmt.Errorf("followup: %w", err)
		}
		result, err := extractResult(s)
		if err != nil {
			return s, fmt.Errorf("followup: %w", err)
		}

		updated, err := rt.Cases.RecordClassification(ctx, c.ID, classifyCommand(result))
		if err != nil {
			return s, fmt.Errorf("followup: %w", err)
		}

		updated, err = rt.followUp(ctx, updated)
		if err != nil {
			return s, fmt.Errorf("followup: %w", err)
		}

		s = s.Set(KeyCase, *updated)
		return s, nil
	})
}

// finalizeNode submits escalated cases to the compliance collaborator.
// Validated and exhausted cases stay local: the former needs no handoff,
// the latter waits for a human decision.
func (rt *Runtime) finalizeNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		c, err := extractCase(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		if c.Status == cases.StatusEscalated {
			if err := rt.Compliance.Submit(ctx, Summarize(c)); err != nil {
				// Submission failures must not undo the case outcome.
				rt.Logger.Error("compliance submission failed", "case_id", c.ID, "error", err)
			}
		}

		return s, nil
	})
}

// followUp sends the reminder, then advances the follow-up counter.
// Delivery happens first: a failed send leaves the record untouched and
// the next stale sweep retries the same reminder. At the limit the case
// moves to max_followups_reached instead and no mail is sent.
func (rt *Runtime) followUp(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	if c.FollowUpCount >= cases.MaxFollowUps {
		return rt.exhaust(ctx, c)
	}

	next := *c
	next.FollowUpCount++
	if err := rt.Sender.Send(ctx, rt.followUpMessage(&next)); err != nil {
		return nil, fmt.Errorf("send reminder: %w", err)
	}

	updated, err := rt.Cases.RecordFollowUp(ctx, c.ID)
	if err != nil {
		if errors.Is(err, cases.ErrFollowUpLimit) {
			return rt.exhaust(ctx, c)
		}
		return nil, err
	}

	rt.Metrics.FollowUpsTotal.Inc()
	return updated, nil
}

// exhaust moves a case past the follow-up limit.
func (rt *Runtime) exhaust(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	exhausted, err := rt.Cases.Exhaust(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	rt.Metrics.CasesExhausted.Inc()
	return exhausted, nil
}

// train appends semantic suggested keywords to the matched reason.
// Training is best effort; a policy write failure never fails the reply.
func (rt *Runtime) train(ctx context.Context, result classifier.Result) {
	if result.Source != classifier.SourceSemantic ||
		result.ReasonType == classifier.ReasonOther ||
		len(result.SuggestedKeywords) == 0 {
		return
	}

	reason, err := rt.Policies.FindByType(ctx, result.ReasonType)
	if err != nil {
		rt.Logger.Warn("training lookup failed", "reason_type", result.ReasonType, "error", err)
		return
	}

	cmd := policies.TrainCommand{Keywords: result.SuggestedKeywords}
	if _, err := rt.Policies.Train(ctx, reason.ID, cmd); err != nil {
		rt.Logger.Warn("training update failed", "reason_type", result.ReasonType, "error", err)
	}
}

// Summarize converts a case into its compliance submission record.
func Summarize(c *cases.Case) compliance.CaseSummary {
	summary := compliance.CaseSummary{
		CaseID:        c.ID,
		EmployeeID:    c.EmployeeID,
		TimesheetDate: c.TimesheetDate.Format("2006-01-02"),
		Status:        string(c.Status),
		FollowUpCount: c.FollowUpCount,
		ResolvedAt:    c.UpdatedAt,
	}

	if c.ReasonType != nil {
		summary.ReasonType = *c.ReasonType
	}
	if c.Confidence != nil {
		summary.Confidence = *c.Confidence
	}
	if c.Explanation != nil {
		summary.Explanation = *c.Explanation
	}

	return summary
}

func classifyCommand(result classifier.Result) cases.ClassifyCommand {
	return cases.ClassifyCommand{
		IsValid:          result.IsValid,
		ReasonType:       result.ReasonType,
		Confidence:       result.Confidence,
		Explanation:      result.Explanation,
		RequiresApproval: result.RequiresApproval,
		Source:           string(result.Source),
	}
}
