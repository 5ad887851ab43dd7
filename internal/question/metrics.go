package question

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts selection activity per realm.
type Metrics struct {
	Selections     *prometheus.CounterVec
	Served         *prometheus.CounterVec
	Backfilled     *prometheus.CounterVec
	CooldownResets *prometheus.CounterVec
	Fallbacks      *prometheus.CounterVec
	BatchSize      prometheus.Histogram
}

// NewMetrics registers the selection collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "selections_total",
			Help:      "Question batches served, by resolved realm.",
		}, []string{"realm"}),
		Served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "questions_served_total",
			Help:      "Questions served, by resolved realm and difficulty.",
		}, []string{"realm", "difficulty"}),
		Backfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "backfilled_questions_total",
			Help:      "Questions picked outside their tier because a tier ran short.",
		}, []string{"realm"}),
		CooldownResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "cooldown_resets_total",
			Help:      "Times a realm's cooldown set was cleared for scarcity.",
		}, []string{"realm"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "realm_fallbacks_total",
			Help:      "Requests answered from a fallback realm, by the realm used.",
		}, []string{"realm"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quiz",
			Name:      "batch_size",
			Help:      "Number of questions returned per selection.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Selections, m.Served, m.Backfilled, m.CooldownResets, m.Fallbacks, m.BatchSize)
	}
	return m
}
