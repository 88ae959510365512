package handlers

import (
	"net/http"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// ConceptHandler handles concept catalog requests
type ConceptHandler struct {
	conceptService services.ConceptServiceInterface
}

// NewConceptHandler creates a new concept handler
func NewConceptHandler(conceptService services.ConceptServiceInterface) *ConceptHandler {
	return &ConceptHandler{conceptService: conceptService}
}

// CreateConcept creates a concept
// @Summary Create concept
// @Tags Concepts
// @Accept json
// @Produce json
// @Param request body dto.ConceptRequest true "Concept"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Router /concepts [post]
func (h *ConceptHandler) CreateConcept(c echo.Context) error {
	var req dto.ConceptRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	concept, err := h.conceptService.CreateConcept(&req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: concept, Message: "Concept created"})
}

// GetConcept returns a concept by ID
// @Summary Get concept
// @Tags Concepts
// @Produce json
// @Param id path string true "Concept ID (UUID)"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "CONCEPT_001 - Concept not found"
// @Router /concepts/{id} [get]
func (h *ConceptHandler) GetConcept(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	concept, err := h.conceptService.GetConcept(id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: concept})
}

// ListConcepts returns a page of concepts
// @Summary List concepts
// @Tags Concepts
// @Produce json
// @Param type query string false "Filter by type" Enums(income, expense)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.ConceptListResponse
// @Router /concepts [get]
func (h *ConceptHandler) ListConcepts(c echo.Context) error {
	offset, limit, err := parsePage(c, services.DefaultPageLimit, services.MaxPageLimit)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	concepts, total, err := h.conceptService.ListConcepts(c.QueryParam("type"), offset, limit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ConceptListResponse{
		Concepts: concepts,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	})
}

// UpdateConcept replaces a concept's name and type
// @Summary Update concept
// @Tags Concepts
// @Accept json
// @Produce json
// @Param id path string true "Concept ID (UUID)"
// @Param request body dto.ConceptRequest true "Concept"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} errors.ErrorResponse "CONCEPT_004 - Type change while in use"
// @Router /concepts/{id} [put]
func (h *ConceptHandler) UpdateConcept(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.ConceptRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	concept, err := h.conceptService.UpdateConcept(id, &req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: concept, Message: "Concept updated"})
}

// DeleteConcept removes a concept that no transaction references
// @Summary Delete concept
// @Tags Concepts
// @Param id path string true "Concept ID (UUID)"
// @Success 204
// @Failure 409 {object} errors.ErrorResponse "CONCEPT_002 - Concept in use"
// @Router /concepts/{id} [delete]
func (h *ConceptHandler) DeleteConcept(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	if err := h.conceptService.DeleteConcept(id, actorFromContext(c)); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
