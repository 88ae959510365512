package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditActionCreate       = "create"
	AuditActionUpdate       = "update"
	AuditActionDelete       = "delete"
	AuditActionStatusChange = "status_change"
	AuditActionImport       = "import"

	AuditResourceTransaction = "transaction"
	AuditResourceConcept     = "concept"
	AuditResourceProvider    = "provider"
)

// RequestActor identifies who performed a mutation. UserID is nil when the
// request was not authenticated (development mode).
type RequestActor struct {
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
}

// AuditLog is an append-only record of a mutation on a concept, provider or
// transaction
type AuditLog struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string        `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string        `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string        `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string        `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string        `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata   AuditMetadata `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;index" json:"created_at"`
}

// NewAuditLog builds an entry for a mutation on resource performed by actor.
// metadata is copied; an empty map is stored as NULL.
func NewAuditLog(actor RequestActor, action, resource, resourceID string, metadata map[string]interface{}) *AuditLog {
	log := &AuditLog{
		UserID:     actor.UserID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}
	if len(metadata) > 0 {
		log.Metadata = make(AuditMetadata, len(metadata))
		for k, v := range metadata {
			log.Metadata[k] = v
		}
	}
	return log
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now().UTC()
	}
	return nil
}

// LogValue keeps audit entries readable in structured logs
func (al *AuditLog) LogValue() slog.Value {
	actor := "anonymous"
	if al.UserID != nil {
		actor = al.UserID.String()
	}
	return slog.GroupValue(
		slog.String("actor", actor),
		slog.String("action", al.Action),
		slog.String("resource", al.Resource),
		slog.String("resource_id", al.ResourceID),
		slog.String("ip", al.IPAddress),
	)
}

// AuditMetadata is the free-form detail of an audit entry, stored as JSON text
// so the same column works on postgres and sqlite
type AuditMetadata map[string]interface{}

func (m AuditMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit metadata: %w", err)
	}
	return string(raw), nil
}

func (m *AuditMetadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AuditMetadata", value)
	}

	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, (*map[string]interface{})(m))
}
