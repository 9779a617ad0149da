// Package metrics bridges httpcore attempt observations to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arcusvpn/httpcore"
)

// Observer records one counter increment and one latency sample per
// completed attempt. Wire it into a client with
// httpcore.WithObserver(obs.Observe).
type Observer struct {
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
}

// New creates and registers the attempt metrics. A nil registerer uses the
// default registry.
func New(namespace string, reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Observer{
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_attempts_total",
				Help:      "Completed HTTP attempts by method, status, and retry flag",
			},
			[]string{"method", "status", "retry"},
		),
		attemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_attempt_duration_seconds",
				Help:      "HTTP attempt latency histogram",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"method"},
		),
	}
}

// Observe implements the httpcore.Observer shape.
func (o *Observer) Observe(obs httpcore.Observation) {
	status := "error"
	if obs.Status != 0 {
		status = strconv.Itoa(obs.Status)
	}
	retry := "0"
	if obs.Attempt > 1 {
		retry = "1"
	}
	o.attemptsTotal.WithLabelValues(obs.Method, status, retry).Inc()
	o.attemptDuration.WithLabelValues(obs.Method).Observe(obs.Elapsed.Seconds())
}
