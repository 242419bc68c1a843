package testing

import (
	"os"
	"testing"
)

// RequireDocker skips integration tests unless TESTCONTAINERS is set and
// the run is not -short.
func RequireDocker(tb testing.TB) {
	tb.Helper()
	if testing.Short() || os.Getenv("TESTCONTAINERS") == "" {
		tb.Skip("set TESTCONTAINERS=1 to run container backed integration tests")
	}
}

func imageOr(envKey, fallback string) string {
	if img := os.Getenv(envKey); img != "" {
		return img
	}
	return fallback
}
