package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Omit("Concept", "Provider").Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID with its concept and provider
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	if err := r.db.Preload("Concept").Preload("Provider").
		Where("id = ?", id).
		First(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// GetWithFilters retrieves transactions newest first. The total ignores the cursor.
func (r *transactionRepository) GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{})

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ConceptID != nil {
		query = query.Where("concept_id = ?", *filters.ConceptID)
	}
	if filters.ProviderID != nil {
		query = query.Where("provider_id = ?", *filters.ProviderID)
	}
	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count filtered transactions: %w", err)
	}

	if filters.CursorDate != nil {
		query = query.Where("(date < ?) OR (date = ? AND id < ?)",
			*filters.CursorDate, *filters.CursorDate, filters.CursorID)
	}

	if err := query.Preload("Concept").Preload("Provider").
		Offset(filters.Offset).Limit(filters.Limit).
		Order("date DESC").Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get filtered transactions: %w", err)
	}

	return transactions, total, nil
}

// Update saves every column of transaction
func (r *transactionRepository) Update(transaction *models.Transaction) error {
	result := r.db.Model(&models.Transaction{ID: transaction.ID}).Updates(map[string]interface{}{
		"type":        transaction.Type,
		"amount":      transaction.Amount,
		"date":        transaction.Date,
		"concept_id":  transaction.ConceptID,
		"provider_id": transaction.ProviderID,
		"status":      transaction.Status,
		"description": transaction.Description,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// UpdateStatus updates only the status column
func (r *transactionRepository) UpdateStatus(id uuid.UUID, status string) error {
	result := r.db.Model(&models.Transaction{ID: id}).Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *transactionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ImportBatch creates providers then transactions in one database transaction
func (r *transactionRepository) ImportBatch(providers []models.Provider, transactions []models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(providers) > 0 {
			if err := tx.Create(&providers).Error; err != nil {
				return fmt.Errorf("failed to create providers: %w", err)
			}
		}

		if len(transactions) > 0 {
			if err := tx.Omit("Concept", "Provider").CreateInBatches(&transactions, 200).Error; err != nil {
				return fmt.Errorf("failed to create transactions: %w", err)
			}
		}

		return nil
	})
}

// ListRecent returns at most limit transactions, newest first
func (r *transactionRepository) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Order("date DESC").Order("id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return transactions, nil
}

// GetByDateRange returns transactions in [startDate, endDate], either bound optional
func (r *transactionRepository) GetByDateRange(ctx context.Context, startDate, endDate *time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction

	query := r.db.WithContext(ctx).Preload("Concept").Preload("Provider")
	if startDate != nil {
		query = query.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("date <= ?", *endDate)
	}

	if err := query.Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}
