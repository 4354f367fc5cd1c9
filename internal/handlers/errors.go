package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/bank-backoffice/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// toHTTPError turns a service failure into the response Echo renders.
// Unclassified errors are logged and hidden behind a generic 500.
func toHTTPError(c echo.Context, log *slog.Logger, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindNotFound:
			return echo.NewHTTPError(http.StatusNotFound, svcErr.Message)
		case services.KindInvalidArgument:
			return echo.NewHTTPError(http.StatusBadRequest, svcErr.Message)
		case services.KindConflict:
			return echo.NewHTTPError(http.StatusConflict, svcErr.Message)
		}
	}

	log.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func bindError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s: %v", be.Field, be.Message))
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
