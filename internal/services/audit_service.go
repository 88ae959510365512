package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-admin/internal/models"
	"finance-admin/internal/repositories"
)

// AuditService handles audit logging operations
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

var (
	ErrInvalidAuditLog       = errors.New("invalid audit log")
	ErrAuditDateRange        = errors.New("invalid date range: start date must be before end date")
	ErrInvalidAuditResource  = errors.New("invalid audit resource")
	ErrInvalidAuditRetention = errors.New("audit retention must be positive")
)

// ValidateActivityType validates that the activity type is one of the allowed types
func ValidateActivityType(action string) error {
	validActions := map[string]bool{
		models.AuditActionCreate:       true,
		models.AuditActionUpdate:       true,
		models.AuditActionDelete:       true,
		models.AuditActionStatusChange: true,
		models.AuditActionImport:       true,
	}

	if !validActions[action] {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

// ValidateResource checks the resource is one the admin app mutates
func ValidateResource(resource string) error {
	switch resource {
	case models.AuditResourceTransaction, models.AuditResourceConcept, models.AuditResourceProvider:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAuditResource, resource)
	}
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if err := ValidateResource(log.Resource); err != nil {
		return err
	}

	if err := s.repo.Create(log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// Record stores an audit entry for a completed mutation. A failure is logged
// and never undoes the mutation.
func (s *AuditService) Record(actor models.RequestActor, action, resource, resourceID string, metadata map[string]interface{}) {
	log := models.NewAuditLog(actor, action, resource, resourceID, metadata)

	if err := s.CreateAuditLog(log); err != nil {
		s.logger.Error("failed to record audit log",
			slog.Any("audit_log", log),
			slog.String("error", err.Error()),
		)
	}
}

// ListAuditLogs returns entries matching filters, newest first
func (s *AuditService) ListAuditLogs(filters models.AuditLogFilters) ([]*models.AuditLog, int64, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, 0, ErrAuditDateRange
	}

	if filters.Resource != "" {
		if err := ValidateResource(filters.Resource); err != nil {
			return nil, 0, err
		}
	}

	if filters.Action != "" {
		if err := ValidateActivityType(filters.Action); err != nil {
			return nil, 0, err
		}
	}

	return s.repo.List(filters)
}

// GetResourceHistory returns the entries of a single record
func (s *AuditService) GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	if err := ValidateResource(resource); err != nil {
		return nil, 0, err
	}

	return s.repo.GetByResource(resource, resourceID, offset, limit)
}

// PurgeOlderThan deletes entries older than the retention period
func (s *AuditService) PurgeOlderThan(retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, ErrInvalidAuditRetention
	}

	deleted, err := s.repo.DeleteOlderThan(retention)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	return deleted, nil
}
