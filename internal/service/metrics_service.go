package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates the Prometheus instrumentation this service
// exposes at /metrics (spec §5's 10-second generator soft-cap and the
// CAS-retry-exhaustion / slot-conflict counters named in SPEC_FULL.md).
// Grounded on the teacher's internal/service/metrics_service.go, with the
// cache/db-query collectors replaced by the domain's own hot paths.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generatorDuration prometheus.Histogram
	slotConflicts     prometheus.Counter
	casRetryExhausted *prometheus.CounterVec
}

// NewMetricsService registers the collectors this service emits.
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

	generatorDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generator_duration_seconds",
		Help:    "Duration of schedule generator runs, against the 10s soft cap",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20},
	})

	slotConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slot_overlap_conflicts_total",
		Help: "Total SLOT_CONFLICT rejections from the overlap guard",
	})

	casRetryExhausted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cas_retry_exhausted_total",
		Help: "Total CONFLICT_RETRY_EXHAUSTED outcomes by operation",
	}, []string{"operation"})

	registry.MustRegister(requestDuration, requestTotal, generatorDuration, slotConflicts, casRetryExhausted)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		generatorDuration: generatorDuration,
		slotConflicts:     slotConflicts,
		casRetryExhausted: casRetryExhausted,
	}
}

// Handler exposes the Prometheus scrape handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request's method/path/status/latency.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneratorRun records one Generate() call's wall-clock duration.
func (m *MetricsService) ObserveGeneratorRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.generatorDuration.Observe(duration.Seconds())
}

// IncSlotConflict records one SLOT_CONFLICT rejection.
func (m *MetricsService) IncSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

// IncCASRetryExhausted records one CONFLICT_RETRY_EXHAUSTED outcome for
// the named operation (e.g. "slot.approve", "slot.create").
func (m *MetricsService) IncCASRetryExhausted(operation string) {
	if m == nil {
		return
	}
	m.casRetryExhausted.WithLabelValues(operation).Inc()
}
