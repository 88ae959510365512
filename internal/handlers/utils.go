package handlers

import (
	"fmt"
	"strconv"
	"time"

	"finance-admin/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// Echo context keys filled in by the auth middleware
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
)

// getUserIDFromContext returns the authenticated user, if any
func getUserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// actorFromContext describes who issued the request for audit records
func actorFromContext(c echo.Context) models.RequestActor {
	actor := models.RequestActor{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if userID, ok := getUserIDFromContext(c); ok {
		actor.UserID = &userID
	}
	return actor
}

// parseIDParam parses a UUID path parameter
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return id, nil
}

// parseOptionalUUID parses a UUID query parameter; empty values yield nil
func parseOptionalUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return &id, nil
}

// parseDateQuery reads a YYYY-MM-DD query parameter
func parseDateQuery(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	return parseDate(c.QueryParam(name), name, endOfDay)
}

// parseDate parses an optional YYYY-MM-DD value. End dates cover the whole
// day up to the last nanosecond.
func parseDate(raw, name string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format, use YYYY-MM-DD", name)
	}
	if endOfDay {
		date = date.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &date, nil
}

// parsePage reads page (1-based) and limit into an offset and limit
func parsePage(c echo.Context, defaultLimit, maxLimit int) (offset, limit int, err error) {
	limit = defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}

	return (page - 1) * limit, limit, nil
}
