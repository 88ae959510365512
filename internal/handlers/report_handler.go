package handlers

import (
	"net/http"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves aggregate reports
type ReportHandler struct {
	reportService services.ReportServiceInterface
}

func NewReportHandler(reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns totals, groupings and period buckets for a date range
// @Summary Financial summary
// @Tags Reports
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param bucket query string false "Period size" Enums(day, week, month) default(month)
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_007 - Invalid date or range"
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummary(c echo.Context) error {
	var query dto.SummaryReportQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	startDate, err := parseDate(query.StartDate, "start_date", false)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	endDate, err := parseDate(query.EndDate, "end_date", true)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	report, err := h.reportService.GetSummary(c.Request().Context(), startDate, endDate, query.Bucket)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: report})
}
