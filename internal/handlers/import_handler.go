package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/services"

	"github.com/labstack/echo/v4"
)

// ImportRejectedResponse is returned when at least one CSV row is invalid.
// Nothing is written in that case.
type ImportRejectedResponse struct {
	*errors.ErrorResponse
	Result *dto.ImportResult `json:"result"`
}

// ImportHandler handles CSV uploads of transactions
type ImportHandler struct {
	importService  services.ImportServiceInterface
	maxUploadBytes int64
}

func NewImportHandler(importService services.ImportServiceInterface, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ImportTransactions validates a CSV file and inserts every row, or none
// @Summary Import transactions from CSV
// @Description Columns: date,type,amount,concept,provider,status,description. Send the file as a text/csv body or as the multipart field "file".
// @Tags Transactions
// @Accept text/csv,multipart/form-data
// @Produce json
// @Param dry_run query bool false "Validate without writing"
// @Success 200 {object} SuccessResponse "Dry run result"
// @Success 201 {object} SuccessResponse "Rows imported"
// @Failure 400 {object} errors.ErrorResponse "IMPORT_001 - Unreadable file or IMPORT_003 - No data rows"
// @Failure 422 {object} ImportRejectedResponse "IMPORT_002 - Row errors"
// @Router /transactions/import [post]
func (h *ImportHandler) ImportTransactions(c echo.Context) error {
	dryRun := false
	if raw := c.QueryParam("dry_run"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("dry_run must be true or false"))
		}
		dryRun = parsed
	}

	content, err := h.readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return SendError(c, errors.ImportInvalidFile,
				errors.WithDetails(fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes)))
		}
		return SendError(c, errors.ImportInvalidFile, errors.WithDetails(err.Error()))
	}

	result, err := h.importService.ImportCSV(c.Request().Context(), bytes.NewReader(content), dryRun, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	if result.HasErrors() {
		rejected := errors.NewErrorResponse(errors.ImportInvalidRows, getTraceID(c),
			errors.WithDetails(fmt.Sprintf("%d of %d rows are invalid", len(result.Errors), result.TotalRows)))
		return c.JSON(http.StatusUnprocessableEntity, ImportRejectedResponse{ErrorResponse: rejected, Result: result})
	}

	if dryRun {
		return c.JSON(http.StatusOK, SuccessResponse{Data: result, Message: "File is valid"})
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Data: result, Message: "Transactions imported"})
}

// readUpload returns the CSV bytes from a multipart "file" field or the raw body
func (h *ImportHandler) readUpload(c echo.Context) ([]byte, error) {
	req := c.Request()
	if h.maxUploadBytes > 0 {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUploadBytes)
	}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("multipart field %q is required: %w", "file", err)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(req.Body)
}
