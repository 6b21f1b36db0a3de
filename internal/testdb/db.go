//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/biblioteca-api/internal/platform/postgres"
	"github.com/phrazzld/biblioteca-api/internal/redact"
	"github.com/pressly/goose/v3"
)

// testGooseLogger routes goose output through the test log.
type testGooseLogger struct {
	t testing.TB
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Logf("goose: "+format, v...)
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Errorf("goose: "+format, v...)
}

// GetTestDBWithT opens the test database, migrates it to the latest version
// and truncates every table. The connection is closed when the test ends.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		if isCIEnvironment() {
			t.Fatalf("no test database configured: set one of %v", databaseURLEnvVars)
		}
		t.Skipf("no test database configured: set one of %v", databaseURLEnvVars)
	}

	dbURL := GetTestDatabaseURL()
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.String(dbURL), err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database %s: %s", redact.String(dbURL), redact.Error(err))
	}

	if err := ApplyMigrations(t, db); err != nil {
		t.Fatalf("%v", err)
	}
	CleanupDB(t, db)
	return db
}

// ApplyMigrations brings the schema up to date from the embedded migrations.
func ApplyMigrations(t testing.TB, db *sql.DB) error {
	goose.SetBaseFS(postgres.MigrationsFS)
	goose.SetLogger(&testGooseLogger{t: t})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// CleanupDB removes every row and restarts id sequences, so ids start at 1 again.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`TRUNCATE loans, users, books RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to clean test database: %v", err)
	}
}
