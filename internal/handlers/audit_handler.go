package handlers

import (
	"net/http"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/models"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditHandler exposes the mutation history
type AuditHandler struct {
	auditService services.AuditServiceInterface
}

func NewAuditHandler(auditService services.AuditServiceInterface) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogs returns audit entries newest first
// @Summary List audit logs
// @Tags Audit
// @Produce json
// @Param resource query string false "Resource" Enums(transaction, concept, provider)
// @Param action query string false "Action" Enums(create, update, delete, status_change, import)
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.AuditLogsListResponse
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c echo.Context) error {
	offset, limit, err := parsePage(c, services.DefaultPageLimit, services.MaxPageLimit)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	filters := models.AuditLogFilters{
		Resource: c.QueryParam("resource"),
		Action:   c.QueryParam("action"),
		Offset:   offset,
		Limit:    limit,
	}
	if filters.StartDate, err = parseDateQuery(c, "start_date", false); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	if filters.EndDate, err = parseDateQuery(c, "end_date", true); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	logs, total, err := h.auditService.ListAuditLogs(filters)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, newAuditLogsListResponse(logs, total, offset, limit))
}

// GetResourceHistory returns the audit trail of a single record
// @Summary Audit trail of a record
// @Tags Audit
// @Produce json
// @Param resource path string true "Resource" Enums(transaction, concept, provider)
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} dto.AuditLogsListResponse
// @Router /audit-logs/{resource}/{id} [get]
func (h *AuditHandler) GetResourceHistory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	offset, limit, err := parsePage(c, services.DefaultPageLimit, services.MaxPageLimit)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	logs, total, err := h.auditService.GetResourceHistory(c.Param("resource"), id.String(), offset, limit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, newAuditLogsListResponse(logs, total, offset, limit))
}

func newAuditLogsListResponse(logs []*models.AuditLog, total int64, offset, limit int) dto.AuditLogsListResponse {
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		items = append(items, dto.NewAuditLogResponse(log))
	}
	return dto.AuditLogsListResponse{
		AuditLogs: items,
		Total:     total,
		Offset:    offset,
		Limit:     limit,
	}
}
