package services

import (
	"context"
	"io"
	"time"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"

	"github.com/google/uuid"
)

// ConceptServiceInterface defines concept management operations
type ConceptServiceInterface interface {
	CreateConcept(req *dto.ConceptRequest, actor models.RequestActor) (*models.Concept, error)
	GetConcept(id uuid.UUID) (*models.Concept, error)
	ListConcepts(conceptType string, offset, limit int) ([]models.Concept, int64, error)
	UpdateConcept(id uuid.UUID, req *dto.ConceptRequest, actor models.RequestActor) (*models.Concept, error)
	DeleteConcept(id uuid.UUID, actor models.RequestActor) error
}

// ProviderServiceInterface defines provider management operations
type ProviderServiceInterface interface {
	CreateProvider(req *dto.ProviderRequest, actor models.RequestActor) (*models.Provider, error)
	GetProvider(id uuid.UUID) (*models.Provider, error)
	ListProviders(nameQuery string, offset, limit int) ([]models.Provider, int64, error)
	UpdateProvider(id uuid.UUID, req *dto.ProviderRequest, actor models.RequestActor) (*models.Provider, error)
	DeleteProvider(id uuid.UUID, actor models.RequestActor) error
}

// TransactionServiceInterface defines transaction management operations
type TransactionServiceInterface interface {
	CreateTransaction(req *dto.TransactionRequest, actor models.RequestActor) (*models.Transaction, error)
	GetTransaction(id uuid.UUID) (*models.Transaction, error)
	ListTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	UpdateTransaction(id uuid.UUID, req *dto.TransactionRequest, actor models.RequestActor) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor models.RequestActor) (*models.Transaction, error)
	DeleteTransaction(id uuid.UUID, actor models.RequestActor) error
}

// ImportServiceInterface validates and loads CSV files of transactions
type ImportServiceInterface interface {
	ImportCSV(ctx context.Context, r io.Reader, dryRun bool, actor models.RequestActor) (*dto.ImportResult, error)
}

// ReportServiceInterface builds aggregate financial reports
type ReportServiceInterface interface {
	GetSummary(ctx context.Context, startDate, endDate *time.Time, bucket string) (*models.FinancialReport, error)
}

// AuditServiceInterface defines the contract for audit logging operations
type AuditServiceInterface interface {
	CreateAuditLog(log *models.AuditLog) error
	Record(actor models.RequestActor, action, resource, resourceID string, metadata map[string]interface{})
	ListAuditLogs(filters models.AuditLogFilters) ([]*models.AuditLog, int64, error)
	GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
	PurgeOlderThan(retention time.Duration) (int64, error)
}

// ChatbotServiceInterface answers free-text financial questions
type ChatbotServiceInterface interface {
	Ask(ctx context.Context, question string) (*dto.ChatbotResponse, error)
}

// DemoDataServiceInterface seeds development databases with sample movements
type DemoDataServiceInterface interface {
	Seed(ctx context.Context, months int, actor models.RequestActor) (*dto.DemoSeedResult, error)
}

// TextGeneratorInterface is an opaque text-completion endpoint
type TextGeneratorInterface interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuditLoggerInterface interface {
	LogQuestionAnalyzed(ctx context.Context, analysis models.QuestionAnalysis, rowsRead int)
	LogAIRequestFailed(ctx context.Context, reason string, err error, durationMs int64)
	LogFallbackUsed(ctx context.Context, reason string)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
	LogImportCompleted(ctx context.Context, result *dto.ImportResult)
	LogStatusTransition(ctx context.Context, transactionID uuid.UUID, oldStatus, newStatus string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// TokenServiceInterface verifies access tokens issued by the identity provider
type TokenServiceInterface interface {
	ValidateAccessToken(tokenString string) (*models.AdminClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}
