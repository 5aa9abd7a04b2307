// Package metrics exposes prometheus instruments for PrivacyFlow API calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess labels calls that returned a 2xx response.
const OutcomeSuccess = "success"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacyflow_requests_total",
			Help: "Total PrivacyFlow API calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "privacyflow_request_duration_seconds",
			Help:    "Duration of PrivacyFlow API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	pollMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "privacyflow_poll_messages_total",
		Help: "Total messages delivered by poll ticks",
	})
)

// RecordRequest records one outbound call. outcome is OutcomeSuccess or an error kind.
func RecordRequest(operation, outcome string, duration time.Duration) {
	requestsTotal.WithLabelValues(operation, outcome).Inc()
	requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPolledMessages counts messages handed to the host by a poll tick.
func RecordPolledMessages(count int) {
	if count > 0 {
		pollMessages.Add(float64(count))
	}
}
