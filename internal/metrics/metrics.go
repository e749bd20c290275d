package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Runs, Observer.prometheus.Duration)
}

type Metrics struct {
	prometheus Prometheus
}

// Observe records one analysis run.
func (m *Metrics) Observe(method, outcome string, duration time.Duration) {
	m.prometheus.Runs.WithLabelValues(method, outcome).Inc()
	m.prometheus.Duration.WithLabelValues(method).Observe(duration.Seconds())
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
