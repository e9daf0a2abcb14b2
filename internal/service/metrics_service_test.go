package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.RecordSignup(SignupOutcomeAccepted)
	m.RecordSignup(SignupOutcomeFull)
	m.RecordSignup(SignupOutcomeFull)
	m.RecordGrade(false)
	m.RecordGrade(true)
	m.ObserveSnapshotFlush(time.Millisecond, nil)
	m.ObserveSnapshotFlush(time.Millisecond, errors.New("disk full"))
	m.ObserveMirrorSync(nil)

	body := scrape(t, m)
	assert.Contains(t, body, `signup_operations_total{outcome="full"} 2`)
	assert.Contains(t, body, `grade_submissions_total{mode="merged"} 1`)
	assert.Contains(t, body, "snapshot_flush_failures_total 1")
	assert.Contains(t, body, "snapshot_flush_duration_seconds_count 2")
	assert.Contains(t, body, `snapshot_mirror_syncs_total{result="ok"} 1`)
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/courses", http.StatusOK, 5*time.Millisecond)

	assert.Contains(t, scrape(t, m), `http_requests_total{method="GET",path="/api/courses",status="200"} 1`)
}

func scrape(t *testing.T, m *MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordSignup(SignupOutcomeAccepted)
	m.ObserveSnapshotFlush(time.Second, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
