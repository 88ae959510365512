package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "7d1c6f0e-trace"
}

func (s *ResponseTestSuite) TestNewErrorResponse_Defaults() {
	response := NewErrorResponse(ConceptNotFound, s.traceID)

	s.Equal("CONCEPT_001", response.Error.Code)
	s.Equal("Concept not found", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	response := NewErrorResponse(ImportInvalidRows, s.traceID,
		WithMessage("El archivo tiene errores"),
		WithDetails("row 2: amount: must be a non-negative decimal", "row 5: concept: not found"),
	)

	s.Equal("El archivo tiene errores", response.Error.Message)
	s.Len(response.Error.Details, 2)
	s.Equal(http.StatusUnprocessableEntity, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestNewValidationErrorFromList() {
	details := []string{"name: is required", "type: must be one of: income expense"}

	response := NewValidationErrorFromList(details, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal(details, response.Error.Details)
	s.Equal(http.StatusBadRequest, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesCause() {
	cause := fmt.Errorf("select transactions: %w", fmt.Errorf("pq: relation does not exist"))

	response, internalErr := WrapSystemError(cause, s.traceID)

	s.Same(cause, internalErr)
	s.Equal(string(SystemInternalError), response.Error.Code)

	body, err := json.Marshal(response)
	s.Require().NoError(err)
	s.NotContains(string(body), "relation")
	s.True(strings.Contains(string(body), s.traceID))
}

func (s *ResponseTestSuite) TestJSONOmitsEmptyDetails() {
	body, err := json.Marshal(NewErrorResponse(SystemRouteNotFound, s.traceID))
	s.Require().NoError(err)

	s.JSONEq(`{"error":{"code":"SYSTEM_007","message":"Route not found","trace_id":"7d1c6f0e-trace"}}`, string(body))
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code ErrorCode
		want int
	}{
		{ValidationInvalidDate, http.StatusBadRequest},
		{ConceptInvalidType, http.StatusBadRequest},
		{ImportEmptyFile, http.StatusBadRequest},
		{ChatbotInvalidQuestion, http.StatusBadRequest},
		{AuthExpiredToken, http.StatusUnauthorized},
		{AuthInsufficientPermission, http.StatusForbidden},
		{ProviderNotFound, http.StatusNotFound},
		{SystemRouteNotFound, http.StatusNotFound},
		{ChatbotMethodNotAllowed, http.StatusMethodNotAllowed},
		{ConceptInUse, http.StatusConflict},
		{ConceptTypeLocked, http.StatusConflict},
		{TransactionInvalidTransition, http.StatusConflict},
		{TransactionConceptMismatch, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{ChatbotDataUnavailable, http.StatusInternalServerError},
		{"UNKNOWN_999", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.want, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestEveryCodeHasAStatus() {
	for _, code := range allCodes {
		status := GetHTTPStatus(code)
		s.GreaterOrEqual(status, 400, code)
		s.Less(status, 600, code)
	}
}
