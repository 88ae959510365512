package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrConceptNotFound = errors.New("concept not found")
	ErrConceptInUse    = errors.New("concept is referenced by transactions")
)

type conceptRepository struct {
	db *gorm.DB
}

// NewConceptRepository creates a new concept repository
func NewConceptRepository(db *gorm.DB) ConceptRepositoryInterface {
	return &conceptRepository{
		db: db,
	}
}

func (r *conceptRepository) Create(concept *models.Concept) error {
	if err := r.db.Create(concept).Error; err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}
	return nil
}

func (r *conceptRepository) GetByID(id uuid.UUID) (*models.Concept, error) {
	concept := &models.Concept{}
	if err := r.db.Where("id = ?", id).First(concept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConceptNotFound
		}
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	return concept, nil
}

// List returns concepts ordered by name, optionally restricted to one ledger side
func (r *conceptRepository) List(conceptType string, offset, limit int) ([]models.Concept, int64, error) {
	var concepts []models.Concept
	var total int64

	query := r.db.Model(&models.Concept{})
	if conceptType != "" {
		query = query.Where("type = ?", conceptType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count concepts: %w", err)
	}

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&concepts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list concepts: %w", err)
	}

	return concepts, total, nil
}

func (r *conceptRepository) ListAll(ctx context.Context) ([]models.Concept, error) {
	var concepts []models.Concept
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&concepts).Error; err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	return concepts, nil
}

func (r *conceptRepository) Update(concept *models.Concept) error {
	result := r.db.Model(&models.Concept{ID: concept.ID}).Updates(map[string]interface{}{
		"name": concept.Name,
		"type": concept.Type,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update concept: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConceptNotFound
	}
	return nil
}

// Delete removes a concept that no transaction references
func (r *conceptRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Transaction{}).Where("concept_id = ?", id).Count(&inUse).Error; err != nil {
			return fmt.Errorf("failed to count concept transactions: %w", err)
		}
		if inUse > 0 {
			return ErrConceptInUse
		}

		result := tx.Where("id = ?", id).Delete(&models.Concept{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete concept: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConceptNotFound
		}
		return nil
	})
}
