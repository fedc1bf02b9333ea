package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimited         *prometheus.CounterVec
	RegistrationsTotal  *prometheus.CounterVec
	NotificationsFailed prometheus.Counter
	LoginFailures       prometheus.Counter
}

// New creates a registry with the Go and process collectors plus the application metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusevents_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by limiter",
		}, []string{"limiter"}),
		RegistrationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_registrations_total",
			Help: "Registrations created, by resulting status",
		}, []string{"status"}),
		NotificationsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_notifications_failed_total",
			Help: "Registration notifications that could not be published",
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_login_failures_total",
			Help: "Rejected login attempts",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementRateLimited(limiter string) {
	m.RateLimited.WithLabelValues(limiter).Inc()
}

func (m *Metrics) IncrementRegistrations(status string) {
	m.RegistrationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementNotificationsFailed() {
	m.NotificationsFailed.Inc()
}

func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailures.Inc()
}
