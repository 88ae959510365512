package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// schemaIndexes complement the gorm tags. They are idempotent and also run
// after golang-migrate so older schemas pick them up.
var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_concepts_name_lower ON concepts(LOWER(name))",
	"CREATE INDEX IF NOT EXISTS idx_providers_name_lower ON providers(LOWER(name))",
	"CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date DESC)",
	"CREATE INDEX IF NOT EXISTS idx_transactions_type_date ON transactions(type, date DESC)",
	"CREATE INDEX IF NOT EXISTS idx_transactions_concept_id ON transactions(concept_id)",
	"CREATE INDEX IF NOT EXISTS idx_transactions_provider_id ON transactions(provider_id) WHERE provider_id IS NOT NULL",
	"CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource, resource_id)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at)",
}

// schemaModels are the tables owned by this service, in dependency order
var schemaModels = []interface{}{
	&models.Concept{},
	&models.Provider{},
	&models.Transaction{},
	&models.AuditLog{},
}

type DB struct {
	*gorm.DB
}

// Open connects to postgres and applies the pool limits. gorm's own log lines
// go through slog so they share the service's format.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{DB: db}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(schemaModels...)
}

// CreateIndexes creates the extra indexes, logging the ones the dialect rejects
func (db *DB) CreateIndexes() int {
	failed := 0
	for _, stmt := range schemaIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			slog.Warn("Failed to create index", "statement", stmt, "error", err)
			failed++
		}
	}
	return failed
}

// Initialize connects and brings the schema up to date. golang-migrate is
// tried first when enabled; AutoMigrate covers the rest.
func Initialize(ctx context.Context, cfg *config.Config, seed bool) (*gorm.DB, error) {
	db, err := Open(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	migrated := false
	if cfg.Database.RunMigrations {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := RunMigrationsIfEnabled(ctx, sqlDB, true, seed); err != nil {
			slog.Warn("Migration runner failed, falling back to AutoMigrate", "error", err)
		} else {
			migrated = true
		}
	}

	if !migrated {
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
	}

	failedIndexes := db.CreateIndexes()
	slog.Info("Database initialized", "sql_migrations", migrated, "failed_indexes", failedIndexes)
	return db.DB, nil
}
