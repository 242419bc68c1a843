package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultPGImage = "postgres:17.5"
	pgTestDatabase = "relecov_test_db"
	pgTestUser     = "test"
)

// PGContainer is a throwaway samples database.
type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

// NewPGContainerWithCleanup starts Postgres with the repo migrations applied
// and terminates it on test cleanup. PG_TEST_IMAGE overrides the image.
func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()

	scripts, err := upMigrations(migrationsDir())
	if err != nil {
		tb.Fatalf("samples migrations: %v", err)
	}

	c, err := postgres.Run(ctx,
		imageOr("PG_TEST_IMAGE", defaultPGImage),
		postgres.WithDatabase(pgTestDatabase),
		postgres.WithUsername(pgTestUser),
		postgres.WithPassword(pgTestUser),
		// the entrypoint runs init scripts in name order
		postgres.WithInitScripts(scripts...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("terminate postgres: %v", err)
		}
	})
	if err != nil {
		tb.Fatalf("start postgres: %v", err)
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("postgres connection string: %v", err)
	}
	return &PGContainer{Container: c, ConnString: connStr}
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")
}

// upMigrations lists the *.up.sql files of dir in apply order.
func upMigrations(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no *.up.sql files in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}
