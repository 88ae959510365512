package errors

import (
	"net/http"
)

// ErrorResponse is the body of every non-chatbot error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes a response built by NewErrorResponse
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail list, e.g. one entry per invalid field
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the default message for the code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the response for code with its default message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			Details: []string{},
			TraceID: traceID,
		},
	}
	for _, opt := range opts {
		opt(response)
	}
	return response
}

// NewValidationErrorFromList builds a VALIDATION_001 response listing each failure
func NewValidationErrorFromList(details []string, traceID string) *ErrorResponse {
	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind a generic SYSTEM_001 response. err is
// returned unchanged for server-side logging.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

var httpStatus = map[ErrorCode]int{
	ValidationGeneral:        http.StatusBadRequest,
	ValidationRequiredField:  http.StatusBadRequest,
	ValidationInvalidFormat:  http.StatusBadRequest,
	ValidationOutOfRange:     http.StatusBadRequest,
	ValidationInvalidDate:    http.StatusBadRequest,
	TransactionInvalidAmount: http.StatusBadRequest,
	TransactionInvalidType:   http.StatusBadRequest,
	ConceptInvalidType:       http.StatusBadRequest,
	ImportInvalidFile:        http.StatusBadRequest,
	ImportEmptyFile:          http.StatusBadRequest,
	ChatbotInvalidQuestion:   http.StatusBadRequest,

	AuthMissingToken:           http.StatusUnauthorized,
	AuthExpiredToken:           http.StatusUnauthorized,
	AuthInvalidTokenFormat:     http.StatusUnauthorized,
	AuthInsufficientPermission: http.StatusForbidden,

	ConceptNotFound:     http.StatusNotFound,
	ProviderNotFound:    http.StatusNotFound,
	TransactionNotFound: http.StatusNotFound,
	SystemRouteNotFound: http.StatusNotFound,

	ChatbotMethodNotAllowed: http.StatusMethodNotAllowed,

	ConceptInUse:                 http.StatusConflict,
	ConceptTypeLocked:            http.StatusConflict,
	TransactionInvalidTransition: http.StatusConflict,

	TransactionValidationFailed: http.StatusUnprocessableEntity,
	TransactionConceptMismatch:  http.StatusUnprocessableEntity,
	ImportInvalidRows:           http.StatusUnprocessableEntity,

	SystemRateLimitExceeded:  http.StatusTooManyRequests,
	SystemServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus maps a code to its status. Unknown and SYSTEM_* codes are 500
// unless listed above.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
