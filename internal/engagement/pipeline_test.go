package engagement_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/engagement"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/metrics"
	"github.com/clickchain/engage/internal/policies"
	"github.com/clickchain/engage/pkg/pagination"
)

// fakeCases is an in-memory cases.System mirroring the repository's
// transition semantics closely enough for pipeline tests.
type fakeCases struct {
	byID map[uuid.UUID]*cases.Case
}

func newFakeCases() *fakeCases {
	return &fakeCases{byID: make(map[uuid.UUID]*cases.Case)}
}

func (f *fakeCases) add(c cases.Case) *cases.Case {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.byID[c.ID] = &c
	return &c
}

func (f *fakeCases) Handler() *cases.Handler { return nil }

func (f *fakeCases) List(ctx context.Context, page pagination.PageRequest, filters cases.Filters) (*pagination.PageResult[cases.Case], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) Find(ctx context.Context, id uuid.UUID) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCases) FindByIdentity(ctx context.Context, employeeID string, timesheetDate time.Time) (*cases.Case, error) {
	for _, c := range f.byID {
		if c.EmployeeID == employeeID && c.TimesheetDate.Equal(timesheetDate) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, cases.ErrNotFound
}

func (f *fakeCases) FindByContact(ctx context.Context, email string, timesheetDate time.Time) (*cases.Case, error) {
	for _, c := range f.byID {
		if c.EmployeeEmail == email && c.TimesheetDate.Equal(timesheetDate) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, cases.ErrNotFound
}

func (f *fakeCases) Register(ctx context.Context, cmd cases.RegisterCommand) (*cases.Case, error) {
	if existing, err := f.FindByIdentity(ctx, cmd.EmployeeID, cmd.TimesheetDate); err == nil {
		return existing, nil
	}
	return f.add(cases.Case{
		EmployeeID:    cmd.EmployeeID,
		EmployeeEmail: cmd.EmployeeEmail,
		TimesheetDate: cmd.TimesheetDate,
		Status:        cases.StatusPending,
	}), nil
}

func (f *fakeCases) RecordReply(ctx context.Context, id uuid.UUID, cmd cases.ReplyCommand) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	if c.Status.Terminal() {
		return nil, cases.ErrTerminalState
	}
	c.Status = cases.StatusReplied
	c.ReplyCount++
	c.LastMessageID = &cmd.MessageID
	c.ReplyText = &cmd.ReplyText
	copied := *c
	return &copied, nil
}

func (f *fakeCases) RecordClassification(ctx context.Context, id uuid.UUID, cmd cases.ClassifyCommand) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	if c.Status.Terminal() {
		return nil, cases.ErrTerminalState
	}

	c.ReasonType = &cmd.ReasonType
	c.Confidence = &cmd.Confidence
	c.Explanation = &cmd.Explanation
	c.RequiresApproval = cmd.RequiresApproval
	c.Source = &cmd.Source

	if cmd.IsValid {
		c.Status = cases.StatusValidated
		by := "system"
		c.ValidatedBy = &by
	}

	copied := *c
	return &copied, nil
}

func (f *fakeCases) RecordFollowUp(ctx context.Context, id uuid.UUID) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	if c.Status.Terminal() {
		return nil, cases.ErrTerminalState
	}
	if c.FollowUpCount >= cases.MaxFollowUps {
		return nil, cases.ErrFollowUpLimit
	}
	c.Status = cases.StatusPending
	c.FollowUpCount++
	now := time.Now()
	c.LastEmailSentAt = &now
	copied := *c
	return &copied, nil
}

func (f *fakeCases) Validate(ctx context.Context, id uuid.UUID, cmd cases.ValidateCommand) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	c.Status = cases.StatusValidated
	c.ReasonType = &cmd.ReasonType
	c.ValidatedBy = &cmd.ValidatedBy
	copied := *c
	return &copied, nil
}

func (f *fakeCases) Escalate(ctx context.Context, id uuid.UUID, reason string) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	if !cases.CanTransition(c.Status, cases.StatusEscalated) {
		if c.Status.Terminal() {
			return nil, cases.ErrTerminalState
		}
		return nil, cases.ErrInvalidTransition
	}
	c.Status = cases.StatusEscalated
	if reason != "" {
		c.Explanation = &reason
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCases) Exhaust(ctx context.Context, id uuid.UUID) (*cases.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	if !cases.CanTransition(c.Status, cases.StatusMaxFollowUps) {
		if c.Status.Terminal() {
			return nil, cases.ErrTerminalState
		}
		return nil, cases.ErrInvalidTransition
	}
	c.Status = cases.StatusMaxFollowUps
	copied := *c
	return &copied, nil
}

func (f *fakeCases) Summary(ctx context.Context) (*cases.StatusSummary, error) {
	return &cases.StatusSummary{}, nil
}

func (f *fakeCases) Stale(ctx context.Context, cutoff time.Time, limit int) ([]cases.Case, error) {
	return nil, nil
}

// fakePolicies serves a fixed reason snapshot and records training calls.
type fakePolicies struct {
	reasons []policies.Reason
	trained [][]string
}

func newFakePolicies() *fakePolicies {
	return &fakePolicies{
		reasons: []policies.Reason{
			{ID: uuid.New(), Type: "sick", Keywords: []string{"sick", "flu"}, Active: true, Position: 1},
			{ID: uuid.New(), Type: "leave", Keywords: []string{"vacation", "pto"}, RequiresApproval: true, Active: true, Position: 2},
		},
	}
}

func (f *fakePolicies) Handler() *policies.Handler { return nil }

func (f *fakePolicies) List(ctx context.Context) ([]policies.Reason, error) {
	return f.reasons, nil
}

func (f *fakePolicies) Snapshot(ctx context.Context) ([]policies.Reason, error) {
	return f.reasons, nil
}

func (f *fakePolicies) Find(ctx context.Context, id uuid.UUID) (*policies.Reason, error) {
	for i := range f.reasons {
		if f.reasons[i].ID == id {
			return &f.reasons[i], nil
		}
	}
	return nil, policies.ErrNotFound
}

func (f *fakePolicies) FindByType(ctx context.Context, reasonType string) (*policies.Reason, error) {
	for i := range f.reasons {
		if f.reasons[i].Type == reasonType {
			return &f.reasons[i], nil
		}
	}
	return nil, policies.ErrNotFound
}

func (f *fakePolicies) Create(ctx context.Context, cmd policies.CreateCommand) (*policies.Reason, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePolicies) Update(ctx context.Context, id uuid.UUID, cmd policies.UpdateCommand) (*policies.Reason, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePolicies) Train(ctx context.Context, id uuid.UUID, cmd policies.TrainCommand) (*policies.Reason, error) {
	f.trained = append(f.trained, cmd.Keywords)
	return f.Find(ctx, id)
}

func (f *fakePolicies) SetActive(ctx context.Context, id uuid.UUID, active bool) (*policies.Reason, error) {
	return nil, errors.New("not implemented")
}

// fakeSender records outbound messages. A non-nil sendErr makes every
// delivery fail.
type fakeSender struct {
	sent    []mail.Outbound
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Outbound) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) SendBatch(ctx context.Context, msgs []mail.Outbound) error {
	f.sent = append(f.sent, msgs...)
	return nil
}

// fakeCompliance records submitted summaries.
type fakeCompliance struct {
	submitted []compliance.CaseSummary
}

func (f *fakeCompliance) Submit(ctx context.Context, summary compliance.CaseSummary) error {
	f.submitted = append(f.submitted, summary)
	return nil
}

// agentConfig returns an agent config for tests. Every reply in these
// tests is decided by the rule tier, so the agent is never contacted.
func agentConfig() gaconfig.AgentConfig {
	return gaconfig.AgentConfig{}
}

type fixture struct {
	rt         *engagement.Runtime
	cases      *fakeCases
	policies   *fakePolicies
	sender     *fakeSender
	compliance *fakeCompliance
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := newFakeCases()
	fp := newFakePolicies()
	sender := &fakeSender{}
	collab := &fakeCompliance{}

	rt := &engagement.Runtime{
		Cases:      fc,
		Policies:   fp,
		Classifier: classifier.New(agentConfig(), nil, time.Second, logger),
		Sender:     sender,
		Compliance: collab,
		Metrics:    metrics.New(prometheus.NewRegistry()),
		Locker:     cases.NewLocker(),
		Logger:     logger,
	}

	return &fixture{rt: rt, cases: fc, policies: fp, sender: sender, compliance: collab}
}

func openCase(f *fixture, followUps int) *cases.Case {
	day, _ := time.Parse("2006-01-02", "2026-08-14")
	return f.cases.add(cases.Case{
		EmployeeID:    "emp42",
		EmployeeEmail: "emp42@example.com",
		TimesheetDate: day,
		Status:        cases.StatusPending,
		FollowUpCount: followUps,
	})
}

func replyTo(c *cases.Case, body string) mail.Inbound {
	return mail.Inbound{
		MessageID:  "msg-1",
		From:       c.EmployeeEmail,
		Subject:    "Re: " + engagement.InquirySubject(c.EmployeeID, c.TimesheetDate),
		Body:       body,
		ReceivedAt: time.Now(),
	}
}

func TestHandleReplyValidReasonValidates(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	got, err := f.rt.HandleReply(context.Background(), replyTo(c, "I was home sick with the flu that day"))
	if err != nil {
		t.Fatalf("HandleReply failed: %v", err)
	}

	if got.Status != cases.StatusValidated {
		t.Errorf("status = %s, want validated", got.Status)
	}
	if got.ReplyCount != 1 {
		t.Errorf("reply_count = %d, want 1", got.ReplyCount)
	}
	if got.ReasonType == nil || *got.ReasonType != "sick" {
		t.Errorf("reason = %v, want sick", got.ReasonType)
	}
	if got.ValidatedBy == nil || *got.ValidatedBy != "system" {
		t.Errorf("validated_by = %v, want system", got.ValidatedBy)
	}
	if len(f.compliance.submitted) != 0 {
		t.Errorf("compliance submissions = %d, want 0 for a plain validation", len(f.compliance.submitted))
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(f.sender.sent))
	}
}

func TestHandleReplyApprovalReasonEscalates(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	got, err := f.rt.HandleReply(context.Background(), replyTo(c, "I took a vacation day and forgot to log it"))
	if err != nil {
		t.Fatalf("HandleReply failed: %v", err)
	}

	if got.Status != cases.StatusEscalated {
		t.Errorf("status = %s, want escalated", got.Status)
	}
	if len(f.compliance.submitted) != 1 {
		t.Errorf("compliance submissions = %d, want 1", len(f.compliance.submitted))
	}
}

func TestHandleReplyInvalidSendsReminder(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	got, err := f.rt.HandleReply(context.Background(), replyTo(c, "I forgot"))
	if err != nil {
		t.Fatalf("HandleReply failed: %v", err)
	}

	if got.Status != cases.StatusPending {
		t.Errorf("status = %s, want pending after reminder", got.Status)
	}
	if got.FollowUpCount != 1 {
		t.Errorf("follow_up_count = %d, want 1", got.FollowUpCount)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(f.sender.sent))
	}
	if len(f.compliance.submitted) != 0 {
		t.Errorf("compliance submissions = %d, want 0", len(f.compliance.submitted))
	}

	reminder := f.sender.sent[0]
	if reminder.To[0] != c.EmployeeEmail {
		t.Errorf("reminder to = %v", reminder.To)
	}
	if _, _, ok := mail.ParseCaseToken(reminder.Subject); !ok {
		t.Errorf("reminder subject lost the token: %q", reminder.Subject)
	}
}

func TestHandleReplyFollowUpLimitExhausts(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, cases.MaxFollowUps)

	got, err := f.rt.HandleReply(context.Background(), replyTo(c, "I forgot"))
	if err != nil {
		t.Fatalf("HandleReply failed: %v", err)
	}

	if got.Status != cases.StatusMaxFollowUps {
		t.Errorf("status = %s, want max_followups_reached", got.Status)
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d messages, want 0 at limit", len(f.sender.sent))
	}
	if len(f.compliance.submitted) != 0 {
		t.Errorf("compliance submissions = %d, want 0 for an exhausted case", len(f.compliance.submitted))
	}
}

func TestHandleReplyEmptyBody(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	_, err := f.rt.HandleReply(context.Background(), replyTo(c, "   "))
	if !errors.Is(err, engagement.ErrEmptyReply) {
		t.Errorf("error = %v, want ErrEmptyReply", err)
	}
}

func TestHandleReplyUnresolved(t *testing.T) {
	f := newFixture(t)
	openCase(f, 0)

	msg := mail.Inbound{
		MessageID: "msg-9",
		From:      "stranger@example.com",
		Subject:   "hello there",
		Body:      "not about any case",
	}

	_, err := f.rt.HandleReply(context.Background(), msg)
	if !errors.Is(err, engagement.ErrUnresolvedCase) {
		t.Errorf("error = %v, want ErrUnresolvedCase", err)
	}
}

func TestHandleReplyBareDateFallback(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	msg := mail.Inbound{
		MessageID: "msg-2",
		From:      c.EmployeeEmail,
		Subject:   "about my missing entry on 2026-08-14",
		Body:      "I was out sick with the flu",
	}

	got, err := f.rt.HandleReply(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleReply failed: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("resolved case %s, want %s", got.ID, c.ID)
	}
	if got.Status != cases.StatusValidated {
		t.Errorf("status = %s, want validated", got.Status)
	}
}

func TestNotifySendsInquiry(t *testing.T) {
	f := newFixture(t)
	day, _ := time.Parse("2006-01-02", "2026-08-14")

	c, err := f.rt.Notify(context.Background(), cases.RegisterCommand{
		EmployeeID:    "emp42",
		EmployeeEmail: "emp42@example.com",
		TimesheetDate: day,
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if c.Status != cases.StatusPending {
		t.Errorf("status = %s, want pending", c.Status)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(f.sender.sent))
	}

	id, tokenDay, ok := mail.ParseCaseToken(f.sender.sent[0].Subject)
	if !ok {
		t.Fatalf("inquiry subject has no token: %q", f.sender.sent[0].Subject)
	}
	if id != "emp42" || !tokenDay.Equal(day) {
		t.Errorf("token = %s %v", id, tokenDay)
	}
}

func TestNotifyBatchSkipsTerminal(t *testing.T) {
	f := newFixture(t)
	day, _ := time.Parse("2006-01-02", "2026-08-14")

	f.cases.add(cases.Case{
		EmployeeID:    "done",
		EmployeeEmail: "done@example.com",
		TimesheetDate: day,
		Status:        cases.StatusValidated,
	})

	opened, err := f.rt.NotifyBatch(context.Background(), []cases.RegisterCommand{
		{EmployeeID: "done", EmployeeEmail: "done@example.com", TimesheetDate: day},
		{EmployeeID: "emp43", EmployeeEmail: "emp43@example.com", TimesheetDate: day},
	})
	if err != nil {
		t.Fatalf("NotifyBatch failed: %v", err)
	}

	if len(opened) != 1 {
		t.Fatalf("opened %d cases, want 1", len(opened))
	}
	if opened[0].EmployeeID != "emp43" {
		t.Errorf("opened case for %s, want emp43", opened[0].EmployeeID)
	}
	if len(f.sender.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(f.sender.sent))
	}
}

func TestSendFollowUpExhaustsAtLimit(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, cases.MaxFollowUps)

	got, err := f.rt.SendFollowUp(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("SendFollowUp failed: %v", err)
	}
	if got.Status != cases.StatusMaxFollowUps {
		t.Errorf("status = %s, want max_followups_reached", got.Status)
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d messages, want 0 at limit", len(f.sender.sent))
	}
	if len(f.compliance.submitted) != 0 {
		t.Errorf("compliance submissions = %d, want 0 for an exhausted case", len(f.compliance.submitted))
	}
}

func TestSendFollowUpDeliveryFailureLeavesRecord(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 1)
	f.sender.sendErr = errors.New("smtp unreachable")

	if _, err := f.rt.SendFollowUp(context.Background(), c.ID); err == nil {
		t.Fatal("expected delivery error")
	}

	stored, err := f.cases.Find(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if stored.FollowUpCount != 1 {
		t.Errorf("follow_up_count = %d, want 1 after failed delivery", stored.FollowUpCount)
	}
	if stored.LastEmailSentAt != nil {
		t.Error("last_email_sent_at set despite failed delivery")
	}
	if stored.Status != cases.StatusPending {
		t.Errorf("status = %s, want pending", stored.Status)
	}
}

func TestEscalateCase(t *testing.T) {
	f := newFixture(t)
	day, _ := time.Parse("2006-01-02", "2026-08-14")
	c := f.cases.add(cases.Case{
		EmployeeID:    "emp42",
		EmployeeEmail: "emp42@example.com",
		TimesheetDate: day,
		Status:        cases.StatusValidated,
	})

	got, err := f.rt.EscalateCase(context.Background(), c.ID, "manager request")
	if err != nil {
		t.Fatalf("EscalateCase failed: %v", err)
	}
	if got.Status != cases.StatusEscalated {
		t.Errorf("status = %s, want escalated", got.Status)
	}
	if got.Explanation == nil || *got.Explanation != "manager request" {
		t.Errorf("explanation = %v", got.Explanation)
	}
	if len(f.compliance.submitted) != 1 {
		t.Errorf("compliance submissions = %d, want 1", len(f.compliance.submitted))
	}
}

func TestEscalateCaseRequiresValidated(t *testing.T) {
	f := newFixture(t)
	c := openCase(f, 0)

	if _, err := f.rt.EscalateCase(context.Background(), c.ID, "too soon"); !errors.Is(err, cases.ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
	if len(f.compliance.submitted) != 0 {
		t.Errorf("compliance submissions = %d, want 0", len(f.compliance.submitted))
	}
}

func TestHandleReplyLateReplyRejected(t *testing.T) {
	f := newFixture(t)
	day, _ := time.Parse("2006-01-02", "2026-08-14")
	c := f.cases.add(cases.Case{
		EmployeeID:    "emp42",
		EmployeeEmail: "emp42@example.com",
		TimesheetDate: day,
		Status:        cases.StatusMaxFollowUps,
	})

	_, err := f.rt.HandleReply(context.Background(), replyTo(c, "I was home sick with the flu that day"))
	if !errors.Is(err, engagement.ErrLateReply) {
		t.Errorf("error = %v, want ErrLateReply", err)
	}

	stored, _ := f.cases.Find(context.Background(), c.ID)
	if stored.Status != cases.StatusMaxFollowUps {
		t.Errorf("status = %s, terminal case must not change", stored.Status)
	}
}
