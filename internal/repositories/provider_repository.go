package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
)

type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *gorm.DB) ProviderRepositoryInterface {
	return &providerRepository{
		db: db,
	}
}

func (r *providerRepository) Create(provider *models.Provider) error {
	if err := r.db.Create(provider).Error; err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepository) GetByID(id uuid.UUID) (*models.Provider, error) {
	provider := &models.Provider{}
	if err := r.db.Where("id = ?", id).First(provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return provider, nil
}

// List returns providers ordered by name; nameQuery is a case-insensitive substring
func (r *providerRepository) List(nameQuery string, offset, limit int) ([]models.Provider, int64, error) {
	var providers []models.Provider
	var total int64

	query := r.db.Model(&models.Provider{})
	if q := strings.TrimSpace(nameQuery); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&providers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}

	return providers, total, nil
}

func (r *providerRepository) ListAll(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) Update(provider *models.Provider) error {
	result := r.db.Model(&models.Provider{ID: provider.ID}).Update("name", provider.Name)
	if result.Error != nil {
		return fmt.Errorf("failed to update provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// Delete removes the provider and detaches it from its transactions
func (r *providerRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("provider_id = ?", id).
			Update("provider_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach provider: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Provider{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete provider: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProviderNotFound
		}
		return nil
	})
}
