package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	logs := captureLogs(t)

	e := echo.New()
	e.Use(Logger(WithSkipPaths("/health")))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/bad", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	for _, path := range []string{"/health", "/ok", "/bad", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := logs.String()
	assert.NotContains(t, out, "uri=/health")
	assert.Contains(t, out, "msg=REQUEST method=GET uri=/ok status=200")
	assert.Contains(t, out, "msg=REQUEST_REJECTED method=GET uri=/bad status=400")
	assert.Contains(t, out, "msg=REQUEST_ERROR method=GET uri=/boom status=500")
}
