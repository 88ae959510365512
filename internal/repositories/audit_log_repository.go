package repositories

import (
	"errors"
	"fmt"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 1000
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
	ErrNilAuditLog      = errors.New("audit log cannot be nil")
)

// AuditLogRepository stores the append-only audit trail. Entries are never
// updated; only retention purges delete them.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	if log == nil {
		return ErrNilAuditLog
	}
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) GetByID(id uuid.UUID) (*models.AuditLog, error) {
	var log models.AuditLog
	err := r.db.First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuditLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log %s: %w", id, err)
	}
	return &log, nil
}

// GetByResource is the history of one record, newest first
func (r *AuditLogRepository) GetByResource(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	return r.List(models.AuditLogFilters{
		Resource:   resource,
		ResourceID: resourceID,
		Offset:     offset,
		Limit:      limit,
	})
}

// List returns one page of matching entries newest first, plus the total
// number of matches
func (r *AuditLogRepository) List(filters models.AuditLogFilters) ([]*models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{}).Scopes(auditFilterScope(filters))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	logs := make([]*models.AuditLog, 0)
	if total == 0 {
		return logs, 0, nil
	}

	offset, limit := auditPage(filters.Offset, filters.Limit)
	// id breaks ties between entries written in the same instant.
	err := query.Order("created_at DESC").Order("id").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

// DeleteOlderThan purges entries created before now minus age
func (r *AuditLogRepository) DeleteOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)

	result := r.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete audit logs before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}

func auditFilterScope(f models.AuditLogFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Resource != "" {
			db = db.Where("resource = ?", f.Resource)
			if f.ResourceID != "" {
				db = db.Where("resource_id = ?", f.ResourceID)
			}
		}
		if f.Action != "" {
			db = db.Where("action = ?", f.Action)
		}
		if f.StartDate != nil {
			db = db.Where("created_at >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("created_at <= ?", *f.EndDate)
		}
		return db
	}
}

func auditPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxAuditPageSize {
		limit = defaultAuditPageSize
	}
	return offset, limit
}
