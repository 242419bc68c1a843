package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth bool

func (h stubHealth) Healthy(context.Context) bool { return bool(h) }

func testConfig() *Config {
	return &Config{Port: "0", CorsOrigins: []string{"*"}, BodyLimit: "1K"}
}

func TestServer_HealthChecks(t *testing.T) {
	tests := []struct {
		name   string
		health stubHealth
		status int
	}{
		{name: "healthy", health: true, status: http.StatusOK},
		{name: "unhealthy", health: false, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testConfig(), tt.health).SetupHealthChecks("/health")
			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "relecov_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New(testConfig(), stubHealth(true)).SetupMetrics("/metrics", reg)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "relecov_test_total 1")
}

func TestServer_BodyLimit(t *testing.T) {
	s := New(testConfig(), stubHealth(true)).SetupMiddlewares().SetupErrorHandler()
	s.Echo.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	big := make([]byte, 2048)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(big))
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("8080"))
	assert.Error(t, validatePort("http"))
	assert.Error(t, validatePort("70000"))
}
