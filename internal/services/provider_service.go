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

var ErrProviderNotFound = errors.New("provider not found")

// providerService implements ProviderServiceInterface
type providerService struct {
	providerRepo repositories.ProviderRepositoryInterface
	auditService AuditServiceInterface
	metrics      MetricsRecorderInterface
}

// NewProviderService creates a provider service
func NewProviderService(
	providerRepo repositories.ProviderRepositoryInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
) ProviderServiceInterface {
	return &providerService{
		providerRepo: providerRepo,
		auditService: auditService,
		metrics:      metrics,
	}
}

func (s *providerService) CreateProvider(req *dto.ProviderRequest, actor models.RequestActor) (*models.Provider, error) {
	provider := &models.Provider{Name: strings.TrimSpace(req.Name)}
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Create(provider); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionCreate, models.AuditResourceProvider, provider.ID.String(),
		map[string]interface{}{"name": provider.Name})
	recordMutation(s.metrics, models.AuditResourceProvider, models.AuditActionCreate)

	return provider, nil
}

func (s *providerService) GetProvider(id uuid.UUID) (*models.Provider, error) {
	provider, err := s.providerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return provider, nil
}

func (s *providerService) ListProviders(nameQuery string, offset, limit int) ([]models.Provider, int64, error) {
	offset, limit = normalizePage(offset, limit)
	return s.providerRepo.List(nameQuery, offset, limit)
}

func (s *providerService) UpdateProvider(id uuid.UUID, req *dto.ProviderRequest, actor models.RequestActor) (*models.Provider, error) {
	provider, err := s.GetProvider(id)
	if err != nil {
		return nil, err
	}

	oldName := provider.Name
	provider.Name = strings.TrimSpace(req.Name)
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Update(provider); err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionUpdate, models.AuditResourceProvider, id.String(),
		map[string]interface{}{"old_name": oldName, "new_name": provider.Name})
	recordMutation(s.metrics, models.AuditResourceProvider, models.AuditActionUpdate)

	return provider, nil
}

// DeleteProvider removes a provider; its transactions are kept without one
func (s *providerService) DeleteProvider(id uuid.UUID, actor models.RequestActor) error {
	if err := s.providerRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return ErrProviderNotFound
		}
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	s.auditService.Record(actor, models.AuditActionDelete, models.AuditResourceProvider, id.String(), nil)
	recordMutation(s.metrics, models.AuditResourceProvider, models.AuditActionDelete)
	return nil
}
