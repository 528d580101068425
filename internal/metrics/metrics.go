// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	PollsTotal         prometheus.Counter
	MessagesProcessed  prometheus.Counter
	MessagesDuplicate  prometheus.Counter
	MessagesUnresolved prometheus.Counter
	Classifications    *prometheus.CounterVec
	FollowUpsTotal     prometheus.Counter
	EscalationsTotal   prometheus.Counter
	CasesValidated     prometheus.Counter
	CasesExhausted     prometheus.Counter
	PollDuration       prometheus.Histogram
}

// New registers the service collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PollsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_monitor_polls_total",
			Help: "Number of inbox poll cycles completed.",
		}),
		MessagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_monitor_messages_processed_total",
			Help: "Number of inbound messages processed.",
		}),
		MessagesDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_monitor_messages_duplicate_total",
			Help: "Number of inbound messages skipped as duplicates.",
		}),
		MessagesUnresolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_monitor_messages_unresolved_total",
			Help: "Number of inbound messages that matched no open case.",
		}),
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_classifications_total",
			Help: "Number of reply classifications by source tier.",
		}, []string{"source"}),
		FollowUpsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_followups_total",
			Help: "Number of follow-up reminders sent.",
		}),
		EscalationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_escalations_total",
			Help: "Number of cases escalated.",
		}),
		CasesValidated: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_cases_validated_total",
			Help: "Number of cases validated.",
		}),
		CasesExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_cases_exhausted_total",
			Help: "Number of cases that reached the follow-up limit.",
		}),
		PollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "engage_monitor_poll_duration_seconds",
			Help:    "Duration of inbox poll cycles.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
