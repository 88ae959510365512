package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters contains filtering options for transaction queries.
// EndDate is inclusive. When CursorDate is set only rows strictly after the
// cursor position in (date DESC, id DESC) order are returned.
type TransactionFilters struct {
	Type       string
	Status     string
	ConceptID  *uuid.UUID
	ProviderID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	CursorDate *time.Time
	CursorID   uuid.UUID
	Offset     int
	Limit      int
}

// AuditLogFilters narrows audit log listings; zero values match everything.
// ResourceID only applies together with Resource.
type AuditLogFilters struct {
	Resource   string
	ResourceID string
	Action     string
	StartDate  *time.Time
	EndDate    *time.Time
	Offset     int
	Limit      int
}
