package staking

import "github.com/prometheus/client_golang/prometheus"

var (
	operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "axiom_staking",
		Subsystem: "staking",
		Name:      "operation_total",
		Help:      "The number of staking operations by method and result",
	}, []string{"method", "result"})

	claimedRewardsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_staking",
		Subsystem: "staking",
		Name:      "claimed_rewards_total",
		Help:      "The rewards paid by claims, in the smallest unit of the rewards token",
	})
)

func init() {
	prometheus.MustRegister(operationCounter)
	prometheus.MustRegister(claimedRewardsCounter)
}

func recordOperation(method string, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	operationCounter.WithLabelValues(method, result).Inc()
}
