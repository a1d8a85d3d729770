package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/domain/apperr"
)

// Map domain errors → HTTP codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrStateTransition):
		return http.StatusInternalServerError
	case errors.Is(err, apperr.ErrBusinessRule):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		if !errors.Is(err, apperr.ErrStateTransition) {
			msg = "internal error"
		}
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindValid binds the body into req and runs the validator.
// It writes the 400/422 response itself and reports whether to continue.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// pathID reads a positive numeric path param.
func pathID(c echo.Context, name string) (uint64, bool, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
	}
	return id, true, nil
}
