package handlers

import (
	"net/http"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// ProviderHandler handles provider catalog requests
type ProviderHandler struct {
	providerService services.ProviderServiceInterface
}

func NewProviderHandler(providerService services.ProviderServiceInterface) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

// CreateProvider creates a provider
// @Summary Create provider
// @Tags Providers
// @Accept json
// @Produce json
// @Param request body dto.ProviderRequest true "Provider"
// @Success 201 {object} SuccessResponse
// @Router /providers [post]
func (h *ProviderHandler) CreateProvider(c echo.Context) error {
	var req dto.ProviderRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	provider, err := h.providerService.CreateProvider(&req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: provider, Message: "Provider created"})
}

// @Summary Get provider
// @Tags Providers
// @Produce json
// @Param id path string true "Provider ID (UUID)"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "PROVIDER_001 - Provider not found"
// @Router /providers/{id} [get]
func (h *ProviderHandler) GetProvider(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	provider, err := h.providerService.GetProvider(id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: provider})
}

// ListProviders returns a page of providers, optionally filtered by name
// @Summary List providers
// @Tags Providers
// @Produce json
// @Param q query string false "Name contains"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.ProviderListResponse
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(c echo.Context) error {
	offset, limit, err := parsePage(c, services.DefaultPageLimit, services.MaxPageLimit)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	providers, total, err := h.providerService.ListProviders(c.QueryParam("q"), offset, limit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ProviderListResponse{
		Providers: providers,
		Total:     total,
		Offset:    offset,
		Limit:     limit,
	})
}

// @Summary Rename provider
// @Tags Providers
// @Accept json
// @Produce json
// @Param id path string true "Provider ID (UUID)"
// @Param request body dto.ProviderRequest true "Provider"
// @Success 200 {object} SuccessResponse
// @Router /providers/{id} [put]
func (h *ProviderHandler) UpdateProvider(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.ProviderRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	provider, err := h.providerService.UpdateProvider(id, &req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: provider, Message: "Provider updated"})
}

// DeleteProvider removes a provider. Its transactions keep their data and
// lose the provider reference.
// @Summary Delete provider
// @Tags Providers
// @Param id path string true "Provider ID (UUID)"
// @Success 204
// @Router /providers/{id} [delete]
func (h *ProviderHandler) DeleteProvider(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	if err := h.providerService.DeleteProvider(id, actorFromContext(c)); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
