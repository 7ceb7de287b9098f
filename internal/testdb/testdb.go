// Package testdb connects integration tests to a disposable PostgreSQL
// database named by TASKFLOW_TEST_DATABASE_URL.
package testdb

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
)

// EnvDatabaseURL names the database the integration tests may wipe.
const EnvDatabaseURL = "TASKFLOW_TEST_DATABASE_URL"

// ciEnvVars are set by common CI providers.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI"}

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// URL returns the test database URL. Without one the test is skipped
// locally and fails in CI, where a missing database is a setup error.
func URL(t *testing.T) string {
	t.Helper()
	url := os.Getenv(EnvDatabaseURL)
	if url != "" {
		return url
	}
	if IsCI() {
		t.Fatalf("%s must be set in CI", EnvDatabaseURL)
	}
	t.Skipf("%s not set; skipping PostgreSQL integration test", EnvDatabaseURL)
	return ""
}

// Open connects to the test database, applies the migrations and empties
// every table. The connection is closed when the test ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	url := URL(t)

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(ctx, url, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, log))
	_, err = db.ExecContext(ctx, `TRUNCATE tasks, users RESTART IDENTITY`)
	require.NoError(t, err)
	return db
}
