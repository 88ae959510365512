package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIndexes_IsIdempotent(t *testing.T) {
	db := SetupTestDB(t)

	assert.Zero(t, db.CreateIndexes())
	assert.Zero(t, db.CreateIndexes())

	var names []string
	require.NoError(t, db.Raw("SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'").Scan(&names).Error)
	assert.Contains(t, names, "idx_transactions_provider_id")
	assert.Contains(t, names, "idx_audit_logs_resource")
}

func TestAutoMigrate_CreatesOwnedTables(t *testing.T) {
	db := SetupTestDB(t)

	for _, model := range schemaModels {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}
