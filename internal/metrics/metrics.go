// Package metrics defines the Prometheus collectors shared by the HTTP layer
// and the remote clients. Collectors are package-level so that Record* helpers
// work from any layer without threading a registry through.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Requests handled, by endpoint and status",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	UpstreamCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_calls_total",
		Help: "Remote calls to identity, store and email services, by result",
	}, []string{"service", "op", "result"})

	UpstreamCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_call_duration_seconds",
		Help:    "Remote call latency",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
	}, []string{"service", "op"})

	WebhookEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Email webhook deliveries, by event type and result",
	}, []string{"type", "result"})

	ProvisionOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_outcomes_total",
		Help: "Cross-system create/delete sequences, by final outcome",
	}, []string{"op", "outcome"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamCallsTotal,
		UpstreamCallDuration,
		WebhookEventsTotal,
		ProvisionOutcomesTotal,
	}
}

// Register adds every collector to reg (default registerer when nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Handler returns the /metrics handler for the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTP(method, endpoint string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// RecordUpstream records one remote call. result is "ok" or "error".
func RecordUpstream(service, op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamCallsTotal.WithLabelValues(service, op, result).Inc()
	UpstreamCallDuration.WithLabelValues(service, op).Observe(d.Seconds())
}

func RecordWebhook(eventType, result string) {
	if eventType == "" {
		eventType = "unknown"
	}
	WebhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

func RecordProvision(op, outcome string) {
	ProvisionOutcomesTotal.WithLabelValues(op, outcome).Inc()
}
