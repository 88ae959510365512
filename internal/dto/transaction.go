package dto

import (
	"finance-admin/internal/models"
)

// TransactionRequest is the payload for creating or replacing a transaction.
// Date accepts RFC3339 timestamps as well as plain "YYYY-MM-DD" dates.
type TransactionRequest struct {
	Type        string           `json:"type" validate:"required,tx_type"`
	Amount      string           `json:"amount" validate:"required,money"`
	Date        models.DateValue `json:"date"`
	ConceptID   string           `json:"concept_id" validate:"required,uuid"`
	ProviderID  string           `json:"provider_id,omitempty" validate:"omitempty,uuid"`
	Status      string           `json:"status,omitempty" validate:"omitempty,tx_status"`
	Description string           `json:"description,omitempty" validate:"max=500"`
}

// UpdateStatusRequest is the payload of the status transition endpoint
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,tx_status"`
}

// TransactionListFilters carries the raw query parameters of the list endpoint
type TransactionListFilters struct {
	Type       string `query:"type"`
	Status     string `query:"status"`
	ConceptID  string `query:"concept_id"`
	ProviderID string `query:"provider_id"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total,omitempty"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   PaginationInfo       `json:"pagination"`
}
