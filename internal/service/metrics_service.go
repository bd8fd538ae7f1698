package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduling engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	unitsPlaced      prometheus.Counter
	unitsUnplaceable prometheus.Counter
	softViolations   prometheus.Counter
}

// NewMetricsService registers the service's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Completed scheduling runs by terminal status",
	}, []string{"status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Wall-clock duration of scheduling runs",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	unitsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_units_placed_total",
		Help: "Teaching units committed across all runs",
	})

	unitsUnplaceable := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_units_unplaceable_total",
		Help: "Teaching units that exhausted every candidate",
	})

	softViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_soft_violations_total",
		Help: "Soft-rule violations accepted across all runs",
	})

	registry.MustRegister(requestDuration, requestTotal, runsTotal, runDuration, unitsPlaced, unitsUnplaceable, softViolations)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		runsTotal:        runsTotal,
		runDuration:      runDuration,
		unitsPlaced:      unitsPlaced,
		unitsUnplaceable: unitsUnplaceable,
		softViolations:   softViolations,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveRun records a completed scheduling run.
func (m *MetricsService) ObserveRun(status models.RunStatus, placed, unplaceable, softViolations int) {
	m.runsTotal.WithLabelValues(string(status)).Inc()
	m.unitsPlaced.Add(float64(placed))
	m.unitsUnplaceable.Add(float64(unplaceable))
	m.softViolations.Add(float64(softViolations))
}

// ObserveRunDuration records engine wall-clock time.
func (m *MetricsService) ObserveRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
