package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns a private Prometheus registry with HTTP and
// scheduling collectors.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	signups         *prometheus.CounterVec
	grades          *prometheus.CounterVec
	flushDuration   prometheus.Histogram
	flushFailures   prometheus.Counter
	mirrorSyncs     *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_operations_total",
			Help: "Sign-up and withdraw attempts by outcome",
		}, []string{"outcome"}),
		grades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grade_submissions_total",
			Help: "Grade submissions split by created or merged",
		}, []string{"mode"}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "snapshot_flush_duration_seconds",
			Help:    "Time spent writing the state snapshot",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		flushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapshot_flush_failures_total",
			Help: "Snapshot writes that failed and rolled the transaction back",
		}),
		mirrorSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapshot_mirror_syncs_total",
			Help: "Redis mirror synchronisations by result",
		}, []string{"result"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.signups, m.grades, m.flushDuration, m.flushFailures, m.mirrorSyncs, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSignup counts a sign-up or withdraw outcome.
func (m *MetricsService) RecordSignup(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

// RecordGrade counts a grade submission.
func (m *MetricsService) RecordGrade(merged bool) {
	if m == nil {
		return
	}
	mode := "created"
	if merged {
		mode = "merged"
	}
	m.grades.WithLabelValues(mode).Inc()
}

// ObserveSnapshotFlush records a durable write of the state document.
func (m *MetricsService) ObserveSnapshotFlush(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.flushDuration.Observe(duration.Seconds())
	if err != nil {
		m.flushFailures.Inc()
	}
}

// ObserveMirrorSync counts a Redis mirror attempt.
func (m *MetricsService) ObserveMirrorSync(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mirrorSyncs.WithLabelValues(result).Inc()
}
