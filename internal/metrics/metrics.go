// Package metrics exposes prometheus counters for the spot lifecycle.
//
//   - spot_sagas_total{saga,outcome}: saga runs by final outcome (ok, failed)
//   - spot_saga_duration_seconds{saga}: saga wall time
//   - spot_compensations_total{step,result}: compensation attempts (ok, failed)
//   - spot_reports_total: reports recorded against spots
//   - spot_moderation_removals_total: spots removed by report threshold
//   - spot_update_conflicts_total{op}: optimistic version conflicts retried
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	SagasTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_sagas_total",
			Help: "Spot sagas by final outcome",
		},
		[]string{"saga", "outcome"},
	)

	SagaDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spot_saga_duration_seconds",
			Help:    "Spot saga wall time",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"saga"},
	)

	CompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_compensations_total",
			Help: "Compensating actions by step and result",
		},
		[]string{"step", "result"},
	)

	ReportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spot_reports_total",
			Help: "Reports recorded against spots",
		},
	)

	ModerationRemovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spot_moderation_removals_total",
			Help: "Spots removed because their report score crossed the threshold",
		},
	)

	UpdateConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_update_conflicts_total",
			Help: "Optimistic version conflicts on spot updates",
		},
		[]string{"op"},
	)
)

func RecordSaga(saga string, duration time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	SagasTotal.WithLabelValues(saga, outcome).Inc()
	SagaDuration.WithLabelValues(saga).Observe(duration.Seconds())
}

func RecordCompensation(step string, err error) {
	result := OutcomeOK
	if err != nil {
		result = OutcomeFailed
	}
	CompensationsTotal.WithLabelValues(step, result).Inc()
}

func RecordConflict(op string) {
	UpdateConflicts.WithLabelValues(op).Inc()
}
