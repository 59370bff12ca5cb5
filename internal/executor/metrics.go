package executor

import "github.com/prometheus/client_golang/prometheus"

var (
	applyTxDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_staking",
		Subsystem: "executor",
		Name:      "apply_tx_duration_second",
		Help:      "The total latency of transaction execution and persist",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	txCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "axiom_staking",
		Subsystem: "executor",
		Name:      "tx_total",
		Help:      "The number of executed transactions by receipt status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(applyTxDuration)
	prometheus.MustRegister(txCounter)
}
