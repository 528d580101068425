package api

import (
	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/engagement"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/metrics"
	"github.com/clickchain/engage/internal/monitor"
	"github.com/clickchain/engage/internal/policies"
	"github.com/clickchain/engage/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Policies   policies.System
	Prompts    prompts.System
	Cases      cases.System
	Engagement *engagement.Runtime
	Monitor    *monitor.Monitor
}

// NewDomain creates all domain systems from the API runtime. The
// engagement runtime and monitor share a single metrics set and case
// locker so pipeline and sweep activity stay consistent.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	policiesSystem := policies.New(db, runtime.Logger)
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)
	casesSystem := cases.New(db, runtime.Logger, runtime.Pagination)

	m := metrics.New(runtime.Registry)

	engagementRuntime := &engagement.Runtime{
		Cases:      casesSystem,
		Policies:   policiesSystem,
		Classifier: classifier.New(runtime.Agent, promptsSystem, runtime.ClassifierTimeout, runtime.Logger),
		Sender:     mail.NewSender(runtime.Mail, runtime.Logger),
		Compliance: compliance.New(runtime.Compliance, runtime.Logger),
		Metrics:    m,
		Locker:     cases.NewLocker(),
		Logger:     runtime.Logger,
	}

	monitorSystem := monitor.New(
		runtime.Monitor,
		mail.NewSpool(runtime.Mail, runtime.Logger),
		engagementRuntime,
		runtime.Archive,
		m,
		db,
		runtime.Logger,
	)

	return &Domain{
		Policies:   policiesSystem,
		Prompts:    promptsSystem,
		Cases:      casesSystem,
		Engagement: engagementRuntime,
		Monitor:    monitorSystem,
	}
}
