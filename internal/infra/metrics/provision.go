package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(provisionRunsTotal, provisionDuration, codesDeactivatedTotal, codesInsertedTotal)
}

var (
	provisionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_runs_total",
			Help: "Promo code provisioning runs, labeled by status.",
		},
		[]string{"status"}, // 'succeeded', 'failed'
	)

	provisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "provision_duration_seconds",
			Help:    "Wall time of a provisioning run.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	codesDeactivatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_codes_deactivated_total",
			Help: "Promo code documents switched to inactive.",
		},
	)

	codesInsertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_codes_inserted_total",
			Help: "Promo codes inserted, labeled by type.",
		},
		[]string{"type"},
	)
)

func ObserveProvision(success bool, elapsed time.Duration) {
	status := "succeeded"
	if !success {
		status = "failed"
	}
	provisionRunsTotal.WithLabelValues(status).Inc()
	provisionDuration.Observe(elapsed.Seconds())
}

func AddDeactivated(n int64) {
	if n > 0 {
		codesDeactivatedTotal.Add(float64(n))
	}
}

func IncInserted(codeType string) {
	codesInsertedTotal.WithLabelValues(norm(codeType)).Inc()
}
