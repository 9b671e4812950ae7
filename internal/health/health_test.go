package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterHealth(t *testing.T) {
	started := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	clock := started.Add(90 * time.Second)
	reporter := NewReporter("institution-service", "1.0.0", started, func() time.Time { return clock })

	status := reporter.Health()

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "institution-service", status.Service)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, int64(90_000), status.Uptime)

	ts, err := time.Parse(time.RFC3339Nano, status.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(clock))
}

func TestReporterInfo(t *testing.T) {
	reporter := NewReporter("institution-service", "1.0.0", time.Now(), nil)

	info := reporter.Info()

	assert.Equal(t, "MediQ Institution Service", info.Service)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "running", info.Status)
}

func TestHandlerEndpoints(t *testing.T) {
	started := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	reporter := NewReporter("institution-service", "1.0.0", started, func() time.Time { return started.Add(time.Second) })

	r := chi.NewRouter()
	NewHandler(reporter).Register(r)

	t.Run("info", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var info Info
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "MediQ Institution Service", info.Service)
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var status Status
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, int64(1000), status.Uptime)
	})
}
