package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"finance-admin/internal/errors"
	"finance-admin/internal/models"
	"finance-admin/internal/services"
	"finance-admin/internal/validation"

	"github.com/labstack/echo/v4"
)

// ERROR HANDLING
//
// Handlers answer failures through two helpers:
//
// 1. SendError - client and business rule errors (4xx)
//    SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    SendError(c, errors.ConceptNotFound)
//
// 2. SendSystemError - anything unexpected (500). The internal error is
//    logged with the trace ID and never returned to the client.
//
// Service sentinels are translated in one place, sendServiceError.
// The chatbot endpoint is the exception: it keeps its {success, message} body.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internalErr := errors.WrapSystemError(err, traceID)
	slog.Error("request failed",
		slog.String("trace_id", traceID),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Any("error", internalErr),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// sendBindError answers a body that could not be decoded
func sendBindError(c echo.Context, err error) error {
	if stderrors.Is(err, models.ErrInvalidDate) {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
}

// sendValidationError answers a failed struct validation with one detail per field
func sendValidationError(c echo.Context, err error) error {
	errorResponse := errors.NewValidationErrorFromList(validation.FormatErrors(err), getTraceID(c))
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// sendServiceError maps service and model sentinels to coded responses
func sendServiceError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrConceptNotFound):
		return SendError(c, errors.ConceptNotFound)
	case stderrors.Is(err, services.ErrConceptInUse):
		return SendError(c, errors.ConceptInUse)
	case stderrors.Is(err, services.ErrConceptTypeLocked):
		return SendError(c, errors.ConceptTypeLocked)
	case stderrors.Is(err, models.ErrInvalidConceptType):
		return SendError(c, errors.ConceptInvalidType)
	case stderrors.Is(err, services.ErrProviderNotFound):
		return SendError(c, errors.ProviderNotFound)
	case stderrors.Is(err, services.ErrTransactionNotFound):
		return SendError(c, errors.TransactionNotFound)
	case stderrors.Is(err, services.ErrTransactionConceptMismatch):
		return SendError(c, errors.TransactionConceptMismatch)
	case stderrors.Is(err, models.ErrInvalidStatusTransition):
		return SendError(c, errors.TransactionInvalidTransition)
	case stderrors.Is(err, models.ErrInvalidAmount):
		return SendError(c, errors.TransactionInvalidAmount)
	case stderrors.Is(err, models.ErrInvalidTransactionType):
		return SendError(c, errors.TransactionInvalidType)
	case stderrors.Is(err, models.ErrMissingDate),
		stderrors.Is(err, services.ErrInvalidDateRange),
		stderrors.Is(err, services.ErrAuditDateRange):
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInvalidBucket),
		stderrors.Is(err, services.ErrInvalidDemoMonths):
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrImportEmptyFile):
		return SendError(c, errors.ImportEmptyFile)
	case stderrors.Is(err, services.ErrImportInvalidFile):
		return SendError(c, errors.ImportInvalidFile, errors.WithDetails(err.Error()))
	case stderrors.Is(err, models.ErrInvalidTransactionStatus),
		stderrors.Is(err, models.ErrMissingConcept),
		stderrors.Is(err, models.ErrConceptNameRequired),
		stderrors.Is(err, models.ErrConceptNameTooLong),
		stderrors.Is(err, models.ErrProviderNameRequired),
		stderrors.Is(err, models.ErrProviderNameTooLong),
		stderrors.Is(err, services.ErrInvalidAuditLog),
		stderrors.Is(err, services.ErrInvalidAuditResource):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}
