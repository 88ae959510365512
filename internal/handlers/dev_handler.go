package handlers

import (
	"net/http"
	"strconv"

	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be registered in development environments
type DevHandler struct {
	demoService services.DemoDataServiceInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(demoService services.DemoDataServiceInterface) *DevHandler {
	return &DevHandler{demoService: demoService}
}

// SeedDemoData fills the database with sample concepts, providers and movements
//
// Method: POST /dev/seed
// Environment: Development only
//
// Query parameters:
//   - months: Months of history ending today (default: 6, max: 24)
//
// Success Response: 201 Created with the number of rows written
//
// Error Responses:
//   - 400: months is not a number or out of range
//   - 500: Internal server error
func (h *DevHandler) SeedDemoData(c echo.Context) error {
	months := services.DefaultDemoMonths
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("months must be an integer"))
		}
		months = parsed
	}

	result, err := h.demoService.Seed(c.Request().Context(), months, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: result, Message: "Demo data created"})
}
