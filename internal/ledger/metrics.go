package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	readAccount = "account"
	readState   = "state"
)

var (
	commitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_staking",
		Subsystem: "ledger",
		Name:      "commit_duration_seconds",
		Help:      "Latency of committing the state of a block to the kv store",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
	})

	committedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "axiom_staking",
		Subsystem: "ledger",
		Name:      "committed_height",
		Help:      "Height of the latest committed state",
	})

	// labeled by what was read, account or state
	kvReadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "axiom_staking",
		Subsystem: "ledger",
		Name:      "kv_read_duration_seconds",
		Help:      "Latency of reading from the kv store on a cache miss",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	}, []string{"kind"})
)
