package database

import (
	"fmt"
	"testing"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	testDB := &DB{DB: db}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestConcept(t *testing.T, db *DB, name, txType string) *models.Concept {
	t.Helper()

	concept := &models.Concept{Name: name, Type: txType}
	if err := db.Create(concept).Error; err != nil {
		t.Fatalf("failed to create test concept: %v", err)
	}

	return concept
}

func CreateTestProvider(t *testing.T, db *DB, name string) *models.Provider {
	t.Helper()

	provider := &models.Provider{Name: name}
	if err := db.Create(provider).Error; err != nil {
		t.Fatalf("failed to create test provider: %v", err)
	}

	return provider
}

func CreateTestTransaction(t *testing.T, db *DB, concept *models.Concept, provider *models.Provider, amount string, date time.Time) *models.Transaction {
	t.Helper()

	var providerID *uuid.UUID
	if provider != nil {
		providerID = &provider.ID
	}

	tx := &models.Transaction{
		Type:       concept.Type,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		ConceptID:  concept.ID,
		ProviderID: providerID,
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return tx
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"transactions",
		"audit_logs",
		"providers",
		"concepts",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
