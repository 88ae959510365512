package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	migrationsPath = "db/migrations"
	seedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies the SQL migrations under db/migrations and,
// when seeding is on, the default concept catalogue under db/seeds.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	seed           bool
}

func NewMigrationRunner(db *sql.DB, seed bool) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		seedsPath:      seedsPath,
		seed:           seed,
	}
}

// WaitForDatabase pings until the database answers, maxRetries is reached
// or ctx is done
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if lastErr = mr.db.PingContext(ctx); lastErr == nil {
			slog.Info("Database is ready", "attempts", attempt)
			return nil
		}
		slog.Warn("Database not ready", "attempt", attempt, "max_attempts", maxRetries, "error", lastErr)

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", maxRetries, lastErr)
}

// RunMigrations applies every pending up migration. A dirty schema is forced
// back to its recorded version first. A missing directory is not an error.
func (mr *MigrationRunner) RunMigrations() error {
	if !dirExists(mr.migrationsPath) {
		slog.Warn("Migrations directory not found, skipping migrations", "path", mr.migrationsPath)
		return nil
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		slog.Warn("Schema is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version %d: %w", version, err)
		}
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("Schema is up to date", "version", version)
		return nil
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	}

	if version, _, err = m.Version(); err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	slog.Info("Applied migrations", "version", version)
	return nil
}

// LoadSeeds executes every *.sql file in the seeds directory in name order and
// returns how many ran. A failing file is logged and skipped; an unreadable
// one aborts.
func (mr *MigrationRunner) LoadSeeds(ctx context.Context) (int, error) {
	if !mr.seed {
		return 0, nil
	}
	if !dirExists(mr.seedsPath) {
		slog.Warn("Seeds directory not found, skipping seed data", "path", mr.seedsPath)
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to list seed files: %w", err)
	}

	executed := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return executed, fmt.Errorf("failed to read seed file %s: %w", filepath.Base(file), err)
		}
		if _, err := mr.db.ExecContext(ctx, string(content)); err != nil {
			slog.Warn("Seed file failed", "file", filepath.Base(file), "error", err)
			continue
		}
		executed++
	}

	slog.Info("Seed data loaded", "files", executed, "found", len(files))
	return executed, nil
}

// RunMigrationsIfEnabled waits for the database, then migrates and seeds.
// Seed failures are logged only.
func RunMigrationsIfEnabled(ctx context.Context, db *sql.DB, enabled, seed bool) error {
	if !enabled {
		slog.Info("SQL migrations disabled")
		return nil
	}

	runner := NewMigrationRunner(db, seed)
	if err := runner.WaitForDatabase(ctx); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}
	if _, err := runner.LoadSeeds(ctx); err != nil {
		slog.Warn("Seed data loading failed", "error", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
