package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/mail"
)

// HandleReply runs the reply pipeline for one inbound message. The case
// is resolved and locked up front; the graph then records the reply,
// classifies it, applies the outcome, and finalizes terminal cases.
func (rt *Runtime) HandleReply(ctx context.Context, msg mail.Inbound) (*cases.Case, error) {
	if strings.TrimSpace(msg.Body) == "" {
		return nil, ErrEmptyReply
	}

	c, err := rt.resolve(ctx, msg)
	if err != nil {
		return nil, err
	}

	// Closed cases never reopen; a late reply is noted and dropped.
	if c.Status.Terminal() {
		rt.Logger.Info("late reply for closed case",
			"case_id", c.ID,
			"status", c.Status,
			"message_id", msg.MessageID,
		)
		return nil, ErrLateReply
	}

	rt.Locker.Lock(c.ID)
	defer rt.Locker.Unlock(c.ID)

	graph, err := rt.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyMessage, msg)
	initial = initial.Set(KeyCase, *c)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractCase(final)
}

// resolve locates the case an inbound message belongs to: first by the
// subject token, then by sender address and bare subject date.
func (rt *Runtime) resolve(ctx context.Context, msg mail.Inbound) (*cases.Case, error) {
	if employeeID, date, ok := mail.ParseCaseToken(msg.Subject); ok {
		c, err := rt.Cases.FindByIdentity(ctx, employeeID, date)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, cases.ErrNotFound) {
			return nil, err
		}
	}

	if date, ok := mail.ParseSubjectDate(msg.Subject); ok {
		c, err := rt.Cases.FindByContact(ctx, msg.From, date)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, cases.ErrNotFound) {
			return nil, err
		}
	}

	rt.Logger.Warn("unresolved message",
		"message_id", msg.MessageID,
		"from", msg.From,
		"subject", msg.Subject,
	)
	return nil, ErrUnresolvedCase
}

// buildGraph assembles the reply pipeline:
// record → classify → (validate | followup) → finalize.
func (rt *Runtime) buildGraph() (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("engage-reply")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("record", rt.recordNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("classify", rt.classifyNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("validate", rt.validateNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("followup", rt.followUpNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("finalize", rt.finalizeNode()); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("record", "classify", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("classify", "validate", resultValid); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("classify", "followup", state.Not(resultValid)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("validate", "finalize", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("followup", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("record"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func resultValid(s state.State) bool {
	val, ok := s.Get(KeyResult)
	if !ok {
		return false
	}

	result, ok := val.(classifier.Result)
	if !ok {
		return false
	}

	return result.IsValid
}

func extractCase(s state.State) (*cases.Case, error) {
	val, ok := s.Get(KeyCase)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyCase)
	}

	c, ok := val.(cases.Case)
	if !ok {
		return nil, fmt.Errorf("%s is not cases.Case", KeyCase)
	}

	return &c, nil
}

func extractMessage(s state.State) (mail.Inbound, error) {
	val, ok := s.Get(KeyMessage)
	if !ok {
		return mail.Inbound{}, fmt.Errorf("missing %s in state", KeyMessage)
	}

	msg, ok := val.(mail.Inbound)
	if !ok {
		return mail.Inbound{}, fmt.Errorf("%s is not mail.Inbound", KeyMessage)
	}

	return msg, nil
}

func extractResult(s state.State) (classifier.Result, error) {
	val, ok := s.Get(KeyResult)
	if !ok {
		return classifier.Result{}, fmt.Errorf("missing %s in state", KeyResult)
	}

	result, ok := val.(classifier.Result)
	if !ok {
		return classifier.Result{}, fmt.Errorf("%s is not classifier.Result", KeyResult)
	}

	return result, nil
}
