package handler // handler defines the HTTP layer on top of the services

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/service"
)

// getUserID extracts the user_id placed in context by the JWTAuth
// middleware and converts it to uint64.  JWT numeric claims arrive as
// float64 after JSON decoding, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseUintParam parses a positive numeric query value.
func parseUintParam(v string) (uint64, error) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseTimeParam parses an RFC3339 timestamp from a request value.  A
// zero time and an error are returned for empty or malformed input.
func parseTimeParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339, v)
}

// serviceError translates the typed service errors into HTTP
// responses: 400 for bad input, 404 for not-found kinds, 409 for
// conflicts and state violations, 500 for store failures.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInterval), errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrFacilityNotFound), errors.Is(err, service.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSlotUnavailable), errors.Is(err, service.ErrAlreadyCancelled), errors.Is(err, service.ErrTerminalStatus):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
