package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	"finance-admin/internal/validation"

	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.GetValidator()
	return e
}

// newJSONContext builds a request context; pathParams alternate name, value
func newJSONContext(e *echo.Echo, method, target, body string, pathParams ...string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(pathParams) > 0 {
		names := make([]string, 0, len(pathParams)/2)
		values := make([]string, 0, len(pathParams)/2)
		for i := 0; i+1 < len(pathParams); i += 2 {
			names = append(names, pathParams[i])
			values = append(values, pathParams[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	c.Set(TraceIDContextKey, "trace-test")
	return c, rec
}

func decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}
