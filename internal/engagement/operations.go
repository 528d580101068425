package engagement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/mail"
)

// Notify opens a case for a missing timesheet entry and sends the
// initial inquiry. Re-notifying an open case resends the inquiry
// without resetting its state.
func (rt *Runtime) Notify(ctx context.Context, cmd cases.RegisterCommand) (*cases.Case, error) {
	c, err := rt.Cases.Register(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if c.Status.Terminal() {
		return nil, cases.ErrTerminalState
	}

	msg := mail.Outbound{
		To:      []string{c.EmployeeEmail},
		Subject: InquirySubject(c.EmployeeID, c.TimesheetDate),
		Body:    InquiryBody(c),
	}

	if err := rt.Sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("send inquiry: %w", err)
	}

	return c, nil
}

// NotifyBatch opens cases for a batch of missing entries and sends the
// inquiries concurrently. Registration failures abort the batch before
// any mail goes out; delivery failures surface from the batch send.
func (rt *Runtime) NotifyBatch(ctx context.Context, cmds []cases.RegisterCommand) ([]cases.Case, error) {
	opened := make([]cases.Case, 0, len(cmds))
	msgs := make([]mail.Outbound, 0, len(cmds))

	for _, cmd := range cmds {
		c, err := rt.Cases.Register(ctx, cmd)
		if err != nil {
			return nil, fmt.Errorf("register %s %s: %w",
				cmd.EmployeeID, cmd.TimesheetDate.Format("2006-01-02"), err)
		}
		if c.Status.Terminal() {
			continue
		}

		opened = append(opened, *c)
		msgs = append(msgs, mail.Outbound{
			To:      []string{c.EmployeeEmail},
			Subject: InquirySubject(c.EmployeeID, c.TimesheetDate),
			Body:    InquiryBody(c),
		})
	}

	if err := rt.Sender.SendBatch(ctx, msgs); err != nil {
		return nil, err
	}

	return opened, nil
}

// SendFollowUp manually triggers a reminder for a case. At the
// follow-up limit the case moves to max_followups_reached and is left
// for a human decision; nothing is handed to compliance.
func (rt *Runtime) SendFollowUp(ctx context.Context, id uuid.UUID) (*cases.Case, error) {
	rt.Locker.Lock(id)
	defer rt.Locker.Unlock(id)

	c, err := rt.Cases.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	return rt.followUp(ctx, c)
}

// EscalateCase manually escalates a case and submits the outcome.
func (rt *Runtime) EscalateCase(ctx context.Context, id uuid.UUID, reason string) (*cases.Case, error) {
	rt.Locker.Lock(id)
	defer rt.Locker.Unlock(id)

	c, err := rt.Cases.Escalate(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	rt.Metrics.EscalationsTotal.Inc()

	if err := rt.Compliance.Submit(ctx, Summarize(c)); err != nil {
		rt.Logger.Error("compliance submission failed", "case_id", c.ID, "error", err)
	}

	return c, nil
}

// followUpMessage builds the reminder for a case.
func (rt *Runtime) followUpMessage(c *cases.Case) mail.Outbound {
	return mail.Outbound{
		To:      []string{c.EmployeeEmail},
		Subject: FollowUpSubject(c),
		Body:    FollowUpBody(c),
	}
}
