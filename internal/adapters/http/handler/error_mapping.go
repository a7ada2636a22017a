package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
)

func toHTTPError(err error) *echo.HTTPError {
	var httpErr *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidSortOrder),
		errors.Is(err, employee.ErrEmailAlreadyExists),
		errors.Is(err, employee.ErrValueTooLong),
		errors.Is(err, department.ErrInvalidID),
		errors.Is(err, department.ErrInvalidName),
		errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, role.ErrInvalidID),
		errors.Is(err, role.ErrInvalidTitle),
		errors.Is(err, role.ErrRoleNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

func notFound(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, message)
}

// ErrorHandler は 404 を {"message"}、それ以外を {"error"} として返す echo.HTTPErrorHandler です。
func ErrorHandler(fallback zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := toHTTPError(err)
		message := fmt.Sprint(he.Message)

		if he.Code >= http.StatusInternalServerError {
			l := logger.FromContext(c.Request().Context(), fallback)
			l.Error().Err(err).Int("status", he.Code).Msg("request failed")
		}

		var body any = errorResponse{Error: message}
		if he.Code == http.StatusNotFound {
			body = messageResponse{Message: message}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			l := logger.FromContext(c.Request().Context(), fallback)
			l.Error().Err(err).Msg("failed to write error response")
		}
	}
}
