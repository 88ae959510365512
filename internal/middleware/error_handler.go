package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"finance-admin/internal/errors"
	"finance-admin/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Errors returned by the error handler by code, route and status",
	},
	[]string{"code", "route", "status"},
)

// CustomHTTPErrorHandler renders errors that reach Echo (router misses, bind
// failures, unhandled handler errors) in the coded error envelope
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	response, status := errorResponseFor(err, traceID)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "request error",
		slog.String("trace_id", traceID),
		slog.String("code", response.Error.Code),
		slog.Int("status", status),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", err),
	)

	route := c.Path()
	if route == "" {
		route = "unmatched"
	}
	apiErrorsTotal.WithLabelValues(response.Error.Code, route, strconv.Itoa(status)).Inc()

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, response)
	}
	if err != nil {
		slog.Error("failed to send error response", slog.String("trace_id", traceID), slog.Any("error", err))
	}
}

func errorResponseFor(err error, traceID string) (*errors.ErrorResponse, int) {
	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case stderrors.As(err, &validationErrs):
		return errors.NewValidationErrorFromList(validation.FormatErrors(validationErrs), traceID), http.StatusBadRequest
	case stderrors.As(err, &echoErr):
		code := codeForStatus(echoErr.Code)
		if code == errors.SystemRouteNotFound || echoErr.Code >= http.StatusInternalServerError {
			return errors.NewErrorResponse(code, traceID), echoErr.Code
		}
		return errors.NewErrorResponse(code, traceID, errors.WithDetails(fmt.Sprint(echoErr.Message))), echoErr.Code
	default:
		response, _ := errors.WrapSystemError(err, traceID)
		return response, response.GetHTTPStatus()
	}
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingToken
	case http.StatusForbidden:
		return errors.AuthInsufficientPermission
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.SystemRouteNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	default:
		return errors.SystemUnexpectedError
	}
}
