// ABOUTME: Prometheus collectors for correlation scan activity.
// ABOUTME: Registered once at serve start; observed from the service layer.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels scans that ran to completion.
	OutcomeSuccess = "success"
	// OutcomeError labels scans that failed or were interrupted.
	OutcomeError = "error"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifelog",
			Name:      "correlation_scans_total",
			Help:      "Total number of pairwise correlation scans, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lifelog",
			Name:      "correlation_scan_seconds",
			Help:      "Pairwise scan latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	pairsExamined = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifelog",
			Name:      "correlation_pairs_examined_total",
			Help:      "Total (driver, outcome, lag) triples examined across all scans.",
		},
	)

	recordsUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifelog",
			Name:      "correlation_records_upserted_total",
			Help:      "Total qualifying correlation records created or refreshed.",
		},
	)
)

// Register attaches the collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		scansTotal,
		scanDurationSeconds,
		pairsExamined,
		recordsUpserted,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveScan records one scan run.
func ObserveScan(duration time.Duration, outcome string, examined, upserted int) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	scansTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	scanDurationSeconds.Observe(duration.Seconds())
	pairsExamined.Add(float64(examined))
	recordsUpserted.Add(float64(upserted))
}
