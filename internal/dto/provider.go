package dto

import "finance-admin/internal/models"

// ProviderRequest is the payload for creating or renaming a provider
type ProviderRequest struct {
	Name string `json:"name" validate:"required,notblank,max=150"`
}

// ProviderListResponse represents a paginated list of providers
type ProviderListResponse struct {
	Providers []models.Provider `json:"providers"`
	Total     int64             `json:"total"`
	Offset    int               `json:"offset"`
	Limit     int               `json:"limit"`
}
