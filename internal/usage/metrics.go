package usage

import "github.com/prometheus/client_golang/prometheus"

var (
	envelopesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usagestats",
			Subsystem: "deployment",
			Name:      "envelopes_total",
			Help:      "Deployment envelopes handed to the sender",
		},
		[]string{"diagram_type", "outcome"},
	)

	skippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usagestats",
			Subsystem: "deployment",
			Name:      "skipped_total",
			Help:      "Deployment events not reported",
		},
		[]string{"reason"},
	)

	failedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usagestats",
			Subsystem: "deployment",
			Name:      "failed_total",
			Help:      "Deployment events that failed during extraction or sending",
		},
		[]string{"stage"},
	)

	extractDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "usagestats",
			Subsystem: "diagram",
			Name:      "extract_duration_seconds",
			Help:      "Time spent computing diagram metrics",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"diagram_type"},
	)
)

func init() {
	prometheus.MustRegister(envelopesTotal, skippedTotal, failedTotal, extractDuration)
}
