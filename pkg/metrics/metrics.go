package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Relay request metrics
	RelayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_relay_requests_total",
		Help: "Total number of relay requests accepted for processing",
	}, []string{"account", "mode"})
	RelayRecipients = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailgate_relay_recipients",
		Help:    "Number of recipients per relay request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"mode"})
	RelayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailgate_relay_duration_seconds",
		Help:    "Wall-clock time spent processing a relay request",
		Buckets: prometheus.DefBuckets,
	}, []string{"account", "mode"})

	// Per-recipient delivery outcomes as seen by the dispatcher. A blind-copy
	// request counts every recipient once even though it is a single send.
	DeliverySuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_delivery_success_total",
		Help: "Total number of recipients delivered successfully",
	}, []string{"account", "mode"})
	DeliveryFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_delivery_failure_total",
		Help: "Total number of recipients whose delivery failed",
	}, []string{"account", "mode"})

	// Mail transport metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"account", "provider"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"account", "provider"})

	RequestsThrottled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mailgate_requests_throttled_total",
		Help: "Total number of requests rejected by the rate limiter",
	})

	// API endpoint metrics
	APIEndpointRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_api_endpoint_requests_total",
		Help: "Total number of requests per API endpoint",
	}, []string{"endpoint"})
	APIEndpointDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailgate_api_endpoint_duration_seconds",
		Help:    "Request handling time per API endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	APIEndpointErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailgate_api_endpoint_errors_total",
		Help: "Total number of error responses per API endpoint and status",
	}, []string{"endpoint", "status"})
)

func init() {
	prometheus.MustRegister(RelayRequests)
	prometheus.MustRegister(RelayRecipients)
	prometheus.MustRegister(RelayDuration)
	prometheus.MustRegister(DeliverySuccess)
	prometheus.MustRegister(DeliveryFailure)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(RequestsThrottled)
	prometheus.MustRegister(APIEndpointRequests)
	prometheus.MustRegister(APIEndpointDuration)
	prometheus.MustRegister(APIEndpointErrors)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
