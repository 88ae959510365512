package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finance-admin/internal/dto"
	"finance-admin/internal/errors"
	"finance-admin/internal/models"
	"finance-admin/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// One extra row is fetched in cursor mode to tell whether another page exists
const maxTransactionPageLimit = services.MaxPageLimit - 1

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// cursorData represents the data encoded in a pagination cursor
type cursorData struct {
	Date          time.Time `json:"date"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// encodeCursor creates a cursor string from a transaction's date and ID
func encodeCursor(date time.Time, transactionID uuid.UUID) string {
	data := cursorData{
		Date:          date,
		TransactionID: transactionID,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonData)
}

// decodeCursor decodes a cursor string to date and transaction ID
func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, fmt.Errorf("empty cursor")
	}

	jsonData, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	var data cursorData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format: %w", err)
	}
	if data.TransactionID == uuid.Nil || data.Date.IsZero() {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format: missing position")
	}

	return data.Date, data.TransactionID, nil
}

// CreateTransaction records an income or expense
// @Summary Create transaction
// @Description Date accepts RFC3339 timestamps or YYYY-MM-DD. Status defaults to pending.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "CONCEPT_001 - Concept not found or PROVIDER_001 - Provider not found"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_008 - Concept type does not match"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	transaction, err := h.transactionService.CreateTransaction(&req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: transaction, Message: "Transaction created"})
}

// GetTransaction retrieves a specific transaction by ID
// @Summary Get transaction by ID
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionService.GetTransaction(id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: transaction})
}

// ListTransactions returns transactions newest first. With page set the
// listing is offset based; otherwise it follows the opaque cursor.
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param cursor query string false "Pagination cursor for next page"
// @Param page query int false "Page number, switches to offset pagination"
// @Param limit query int false "Number of results per page (max 99)" default(20)
// @Param start_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param end_date query string false "Filter by end date (YYYY-MM-DD), inclusive"
// @Param type query string false "Filter by transaction type" Enums(income, expense)
// @Param status query string false "Filter by status" Enums(pending, partial, paid)
// @Param concept_id query string false "Filter by concept"
// @Param provider_id query string false "Filter by provider"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid parameters"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	offset, limit, err := parsePage(c, services.DefaultPageLimit, maxTransactionPageLimit)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	pageMode := c.QueryParam("page") != ""
	if pageMode {
		filters.Offset, filters.Limit = offset, limit
	} else {
		filters.Limit = limit + 1
		if cursor := c.QueryParam("cursor"); cursor != "" {
			cursorDate, cursorID, err := decodeCursor(cursor)
			if err != nil {
				return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid cursor"))
			}
			filters.CursorDate = &cursorDate
			filters.CursorID = cursorID
		}
	}

	transactions, total, err := h.transactionService.ListTransactions(filters)
	if err != nil {
		return sendServiceError(c, err)
	}

	pagination := dto.PaginationInfo{Limit: limit, Total: total}
	if pageMode {
		pagination.HasMore = int64(offset+len(transactions)) < total
	} else if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		pagination.HasMore = true
		pagination.NextCursor = encodeCursor(last.Date, last.ID)
	}

	return c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: transactions,
		Pagination:   pagination,
	})
}

// parseTransactionFilters parses and validates transaction filter parameters
func parseTransactionFilters(c echo.Context) (models.TransactionFilters, error) {
	var filters models.TransactionFilters
	var err error

	if filters.StartDate, err = parseDateQuery(c, "start_date", false); err != nil {
		return filters, err
	}
	if filters.EndDate, err = parseDateQuery(c, "end_date", true); err != nil {
		return filters, err
	}

	if txType := c.QueryParam("type"); txType != "" {
		if !models.IsValidTransactionType(txType) {
			return filters, fmt.Errorf("invalid type, must be 'income' or 'expense'")
		}
		filters.Type = txType
	}

	if status := c.QueryParam("status"); status != "" {
		if !models.IsValidTransactionStatus(status) {
			return filters, fmt.Errorf("invalid status, must be 'pending', 'partial' or 'paid'")
		}
		filters.Status = status
	}

	if filters.ConceptID, err = parseOptionalUUID(c, "concept_id"); err != nil {
		return filters, err
	}
	if filters.ProviderID, err = parseOptionalUUID(c, "provider_id"); err != nil {
		return filters, err
	}

	return filters, nil
}

// UpdateTransaction replaces a transaction
// @Summary Update transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_007 - Status transition not allowed"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	transaction, err := h.transactionService.UpdateTransaction(id, &req, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: transaction, Message: "Transaction updated"})
}

// UpdateStatus moves a transaction to partial or paid
// @Summary Update transaction status
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} errors.ErrorResponse "TRANSACTION_007 - Status transition not allowed"
// @Router /transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return sendBindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	transaction, err := h.transactionService.UpdateStatus(c.Request().Context(), id, req.Status, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: transaction, Message: "Transaction status updated"})
}

// @Summary Delete transaction
// @Tags Transactions
// @Param id path string true "Transaction ID (UUID)"
// @Success 204
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	if err := h.transactionService.DeleteTransaction(id, actorFromContext(c)); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
