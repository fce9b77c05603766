package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthReportsBuildInfo(t *testing.T) {
	s := NewServer(Config{ServiceName: "courtside", Version: "1.2.3", Commit: "abc1234"})

	rec := get(t, s.routes(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body probeStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "courtside", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "abc1234", body.Commit)
}

func TestReadyGatesOnSetReady(t *testing.T) {
	s := NewServer(Config{ServiceName: "courtside"})
	h := s.routes()

	rec := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readiness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "not_ready", body.Checks["service"])

	s.SetReady(true)
	rec = get(t, h, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyRequiresDatabase(t *testing.T) {
	s := NewServer(Config{
		ServiceName: "courtside",
		DB: pingerFunc(func(ctx context.Context) error {
			return errors.New("connection refused")
		}),
	})
	s.SetReady(true)

	rec := get(t, s.routes(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readiness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["service"])
	assert.Equal(t, "error: connection refused", body.Checks["database"])
}

func TestMetricsMountedWhenConfigured(t *testing.T) {
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withMetrics := NewServer(Config{Metrics: stub, MetricsPath: "/internal/metrics"})
	assert.Equal(t, http.StatusOK, get(t, withMetrics.routes(), "/internal/metrics").Code)

	without := NewServer(Config{})
	assert.Equal(t, http.StatusNotFound, get(t, without.routes(), "/metrics").Code)
}

func TestLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "courtside"})
	rec := get(t, s.routes(), "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}
