package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionConceptMismatch = errors.New("concept type does not match transaction type")
	ErrInvalidDateRange           = errors.New("start date must not be after end date")
)

// transactionService implements TransactionServiceInterface
type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	conceptRepo     repositories.ConceptRepositoryInterface
	providerRepo    repositories.ProviderRepositoryInterface
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
}

// NewTransactionService creates a transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	conceptRepo repositories.ConceptRepositoryInterface,
	providerRepo repositories.ProviderRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		conceptRepo:     conceptRepo,
		providerRepo:    providerRepo,
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
	}
}

// CreateTransaction stores a new transaction. The concept must be on the same
// side of the ledger as the transaction.
func (s *transactionService) CreateTransaction(req *dto.TransactionRequest, actor models.RequestActor) (*models.Transaction, error) {
	transaction, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}
	if transaction.Status == "" {
		transaction.Status = models.TransactionStatusPending
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionCreate, models.AuditResourceTransaction, transaction.ID.String(),
		map[string]interface{}{
			"type":   transaction.Type,
			"amount": transaction.Amount.StringFixed(2),
			"status": transaction.Status,
		})
	recordMutation(s.metrics, models.AuditResourceTransaction, models.AuditActionCreate)

	return transaction, nil
}

func (s *transactionService) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions returns transactions newest first with the total matching count
func (s *transactionService) ListTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	if filters.Type != "" && !models.IsValidTransactionType(filters.Type) {
		return nil, 0, models.ErrInvalidTransactionType
	}
	if filters.Status != "" && !models.IsValidTransactionStatus(filters.Status) {
		return nil, 0, models.ErrInvalidTransactionStatus
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, 0, ErrInvalidDateRange
	}

	filters.Offset, filters.Limit = normalizePage(filters.Offset, filters.Limit)

	transactions, total, err := s.transactionRepo.GetWithFilters(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

// UpdateTransaction replaces every field of a transaction. Amounts may be
// corrected in any status; a status change must be a valid transition.
func (s *transactionService) UpdateTransaction(id uuid.UUID, req *dto.TransactionRequest, actor models.RequestActor) (*models.Transaction, error) {
	existing, err := s.GetTransaction(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Status == "" || updated.Status == existing.Status {
		updated.Status = existing.Status
	} else if !existing.CanTransitionTo(updated.Status) {
		return nil, models.ErrInvalidStatusTransition
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Update(updated); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	changes := map[string]interface{}{}
	if !existing.Amount.Equal(updated.Amount) {
		changes["old_amount"] = existing.Amount.StringFixed(2)
		changes["new_amount"] = updated.Amount.StringFixed(2)
	}
	if existing.Status != updated.Status {
		changes["old_status"] = existing.Status
		changes["new_status"] = updated.Status
	}
	s.auditService.Record(actor, models.AuditActionUpdate, models.AuditResourceTransaction, id.String(), changes)
	recordMutation(s.metrics, models.AuditResourceTransaction, models.AuditActionUpdate)

	return updated, nil
}

// UpdateStatus moves a transaction along pending -> partial -> paid
func (s *transactionService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor models.RequestActor) (*models.Transaction, error) {
	transaction, err := s.GetTransaction(id)
	if err != nil {
		return nil, err
	}

	oldStatus := transaction.Status
	if err := transaction.TransitionTo(status); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.auditLogger.LogStatusTransition(ctx, id, oldStatus, status)
	s.auditService.Record(actor, models.AuditActionStatusChange, models.AuditResourceTransaction, id.String(),
		map[string]interface{}{"old_status": oldStatus, "new_status": status})
	recordMutation(s.metrics, models.AuditResourceTransaction, models.AuditActionStatusChange)

	return transaction, nil
}

func (s *transactionService) DeleteTransaction(id uuid.UUID, actor models.RequestActor) error {
	if err := s.transactionRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionDelete, models.AuditResourceTransaction, id.String(), nil)
	recordMutation(s.metrics, models.AuditResourceTransaction, models.AuditActionDelete)
	return nil
}

// buildTransaction resolves the request's references and parses its amount
func (s *transactionService) buildTransaction(req *dto.TransactionRequest) (*models.Transaction, error) {
	if !models.IsValidTransactionType(req.Type) {
		return nil, models.ErrInvalidTransactionType
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || amount.IsNegative() {
		return nil, models.ErrInvalidAmount
	}

	if req.Date.IsZero() {
		return nil, models.ErrMissingDate
	}

	conceptID, err := uuid.Parse(req.ConceptID)
	if err != nil {
		return nil, models.ErrMissingConcept
	}
	concept, err := s.conceptRepo.GetByID(conceptID)
	if err != nil {
		if errors.Is(err, repositories.ErrConceptNotFound) {
			return nil, ErrConceptNotFound
		}
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	if concept.Type != req.Type {
		return nil, ErrTransactionConceptMismatch
	}

	transaction := &models.Transaction{
		Type:        req.Type,
		Amount:      amount.Round(2),
		Date:        req.Date.Time(),
		ConceptID:   concept.ID,
		Concept:     concept,
		Status:      req.Status,
		Description: strings.TrimSpace(req.Description),
	}

	if req.ProviderID != "" {
		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			return nil, ErrProviderNotFound
		}
		provider, err := s.providerRepo.GetByID(providerID)
		if err != nil {
			if errors.Is(err, repositories.ErrProviderNotFound) {
				return nil, ErrProviderNotFound
			}
			return nil, fmt.Errorf("failed to get provider: %w", err)
		}
		transaction.ProviderID = &provider.ID
		transaction.Provider = provider
	}

	return transaction, nil
}
