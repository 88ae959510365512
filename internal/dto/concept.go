package dto

import "finance-admin/internal/models"

// ConceptRequest is the payload for creating or replacing a concept
type ConceptRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Type string `json:"type" validate:"required,tx_type"`
}

// ConceptListResponse represents a paginated list of concepts
type ConceptListResponse struct {
	Concepts []models.Concept `json:"concepts"`
	Total    int64            `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}
