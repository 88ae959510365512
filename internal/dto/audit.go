package dto

import (
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
)

// AuditLogResponse represents an audit log entry
type AuditLogResponse struct {
	ID         uuid.UUID            `json:"id"`
	UserID     *uuid.UUID           `json:"userId,omitempty"`
	Action     string               `json:"action"`
	Resource   string               `json:"resource"`
	ResourceID string               `json:"resourceId"`
	IPAddress  string               `json:"ipAddress"`
	UserAgent  string               `json:"userAgent"`
	Metadata   models.AuditMetadata `json:"metadata,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// AuditLogsListResponse represents a paginated list of audit logs
type AuditLogsListResponse struct {
	AuditLogs []AuditLogResponse `json:"auditLogs"`
	Total     int64              `json:"total"`
	Offset    int                `json:"offset"`
	Limit     int                `json:"limit"`
}

// NewAuditLogResponse converts a stored audit log into its API shape
func NewAuditLogResponse(log *models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         log.ID,
		UserID:     log.UserID,
		Action:     log.Action,
		Resource:   log.Resource,
		ResourceID: log.ResourceID,
		IPAddress:  log.IPAddress,
		UserAgent:  log.UserAgent,
		Metadata:   log.Metadata,
		CreatedAt:  log.CreatedAt,
	}
}
