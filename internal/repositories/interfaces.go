package repositories

import (
	"context"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
)

// ConceptRepositoryInterface defines the contract for concept repository operations
type ConceptRepositoryInterface interface {
	Create(concept *models.Concept) error
	GetByID(id uuid.UUID) (*models.Concept, error)
	List(conceptType string, offset, limit int) ([]models.Concept, int64, error)
	ListAll(ctx context.Context) ([]models.Concept, error)
	Update(concept *models.Concept) error
	Delete(id uuid.UUID) error
}

// ProviderRepositoryInterface defines the contract for provider repository operations
type ProviderRepositoryInterface interface {
	Create(provider *models.Provider) error
	GetByID(id uuid.UUID) (*models.Provider, error)
	List(nameQuery string, offset, limit int) ([]models.Provider, int64, error)
	ListAll(ctx context.Context) ([]models.Provider, error)
	Update(provider *models.Provider) error
	Delete(id uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	Update(transaction *models.Transaction) error
	UpdateStatus(id uuid.UUID, status string) error
	Delete(id uuid.UUID) error

	// ImportBatch inserts new providers and transactions atomically
	ImportBatch(providers []models.Provider, transactions []models.Transaction) error

	// Read paths of the chatbot and the summary report
	ListRecent(ctx context.Context, limit int) ([]models.Transaction, error)
	GetByDateRange(ctx context.Context, startDate, endDate *time.Time) ([]models.Transaction, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByID(id uuid.UUID) (*models.AuditLog, error)
	GetByResource(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
	List(filters models.AuditLogFilters) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}
