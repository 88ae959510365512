package services

import (
	"errors"
	"fmt"
	"strings"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrConceptNotFound   = errors.New("concept not found")
	ErrConceptInUse      = errors.New("concept is referenced by transactions")
	ErrConceptTypeLocked = errors.New("concept type cannot change while transactions reference it")
)

// conceptService implements ConceptServiceInterface
type conceptService struct {
	conceptRepo     repositories.ConceptRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	auditService    AuditServiceInterface
	metrics         MetricsRecorderInterface
}

// NewConceptService creates a concept service
func NewConceptService(
	conceptRepo repositories.ConceptRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
) ConceptServiceInterface {
	return &conceptService{
		conceptRepo:     conceptRepo,
		transactionRepo: transactionRepo,
		auditService:    auditService,
		metrics:         metrics,
	}
}

func (s *conceptService) CreateConcept(req *dto.ConceptRequest, actor models.RequestActor) (*models.Concept, error) {
	concept := &models.Concept{
		Name: strings.TrimSpace(req.Name),
		Type: req.Type,
	}
	if err := concept.Validate(); err != nil {
		return nil, err
	}

	if err := s.conceptRepo.Create(concept); err != nil {
		return nil, fmt.Errorf("failed to create concept: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionCreate, models.AuditResourceConcept, concept.ID.String(),
		map[string]interface{}{"name": concept.Name, "type": concept.Type})
	recordMutation(s.metrics, models.AuditResourceConcept, models.AuditActionCreate)

	return concept, nil
}

func (s *conceptService) GetConcept(id uuid.UUID) (*models.Concept, error) {
	concept, err := s.conceptRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrConceptNotFound) {
			return nil, ErrConceptNotFound
		}
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	return concept, nil
}

// ListConcepts returns a page of concepts, optionally of a single type
func (s *conceptService) ListConcepts(conceptType string, offset, limit int) ([]models.Concept, int64, error) {
	if conceptType != "" && !models.IsValidTransactionType(conceptType) {
		return nil, 0, models.ErrInvalidConceptType
	}

	offset, limit = normalizePage(offset, limit)
	return s.conceptRepo.List(conceptType, offset, limit)
}

// UpdateConcept renames a concept. The type may only change while no
// transaction is filed under it.
func (s *conceptService) UpdateConcept(id uuid.UUID, req *dto.ConceptRequest, actor models.RequestActor) (*models.Concept, error) {
	concept, err := s.GetConcept(id)
	if err != nil {
		return nil, err
	}

	oldName, oldType := concept.Name, concept.Type
	concept.Name = strings.TrimSpace(req.Name)
	concept.Type = req.Type
	if err := concept.Validate(); err != nil {
		return nil, err
	}

	if concept.Type != oldType {
		_, inUse, err := s.transactionRepo.GetWithFilters(models.TransactionFilters{ConceptID: &id, Limit: 1})
		if err != nil {
			return nil, fmt.Errorf("failed to check concept usage: %w", err)
		}
		if inUse > 0 {
			return nil, ErrConceptTypeLocked
		}
	}

	if err := s.conceptRepo.Update(concept); err != nil {
		if errors.Is(err, repositories.ErrConceptNotFound) {
			return nil, ErrConceptNotFound
		}
		return nil, fmt.Errorf("failed to update concept: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionUpdate, models.AuditResourceConcept, id.String(),
		map[string]interface{}{"old_name": oldName, "new_name": concept.Name, "old_type": oldType, "new_type": concept.Type})
	recordMutation(s.metrics, models.AuditResourceConcept, models.AuditActionUpdate)

	return concept, nil
}

func (s *conceptService) DeleteConcept(id uuid.UUID, actor models.RequestActor) error {
	if err := s.conceptRepo.Delete(id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConceptNotFound):
			return ErrConceptNotFound
		case errors.Is(err, repositories.ErrConceptInUse):
			return ErrConceptInUse
		default:
			return fmt.Errorf("failed to delete concept: %w", err)
		}
	}

	s.auditService.Record(actor, models.AuditActionDelete, models.AuditResourceConcept, id.String(), nil)
	recordMutation(s.metrics, models.AuditResourceConcept, models.AuditActionDelete)
	return nil
}
