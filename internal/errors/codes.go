package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
)

// Concept error codes (CONCEPT_*)
const (
	ConceptNotFound    ErrorCode = "CONCEPT_001"
	ConceptInUse       ErrorCode = "CONCEPT_002"
	ConceptInvalidType ErrorCode = "CONCEPT_003"
	ConceptTypeLocked  ErrorCode = "CONCEPT_004"
)

// Provider error codes (PROVIDER_*)
const (
	ProviderNotFound ErrorCode = "PROVIDER_001"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound          ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount     ErrorCode = "TRANSACTION_002"
	TransactionValidationFailed  ErrorCode = "TRANSACTION_005"
	TransactionInvalidType       ErrorCode = "TRANSACTION_006"
	TransactionInvalidTransition ErrorCode = "TRANSACTION_007"
	TransactionConceptMismatch   ErrorCode = "TRANSACTION_008"
)

// Import error codes (IMPORT_*)
const (
	ImportInvalidFile ErrorCode = "IMPORT_001"
	ImportInvalidRows ErrorCode = "IMPORT_002"
	ImportEmptyFile   ErrorCode = "IMPORT_003"
)

// Chatbot error codes (CHATBOT_*)
const (
	ChatbotInvalidQuestion  ErrorCode = "CHATBOT_001"
	ChatbotMethodNotAllowed ErrorCode = "CHATBOT_002"
	ChatbotDataUnavailable  ErrorCode = "CHATBOT_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",

	// Concept errors
	ConceptNotFound:    "Concept not found",
	ConceptInUse:       "Concept is referenced by existing transactions",
	ConceptInvalidType: "Concept type must be income or expense",
	ConceptTypeLocked:  "Concept type cannot change while transactions reference it",

	// Provider errors
	ProviderNotFound: "Provider not found",

	// Transaction errors
	TransactionNotFound:          "Transaction not found",
	TransactionInvalidAmount:     "Invalid transaction amount",
	TransactionValidationFailed:  "Transaction validation failed",
	TransactionInvalidType:       "Invalid transaction type",
	TransactionInvalidTransition: "Transaction status transition is not allowed",
	TransactionConceptMismatch:   "Concept type does not match transaction type",

	// Import errors
	ImportInvalidFile: "Uploaded file is not a readable CSV",
	ImportInvalidRows: "One or more rows failed validation",
	ImportEmptyFile:   "Uploaded file contains no data rows",

	// Chatbot errors (shown to end users in Spanish)
	ChatbotInvalidQuestion:  "La pregunta es requerida",
	ChatbotMethodNotAllowed: "Método no permitido",
	ChatbotDataUnavailable:  "No fue posible obtener la información financiera",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Route not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
