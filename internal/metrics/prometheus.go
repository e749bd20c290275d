package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Runs     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "analysis",
				Name:      "runs_total",
				Help:      "Number of analysis runs per method and outcome.",
			}, []string{"method", "outcome"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of the analysis runs per method.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			}, []string{"method"}),
	}
}
