package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/bank-backoffice/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *services.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *services.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, logger: logger}
}

// RegisterAccountRoutes registers account routes
func (h *AccountHandler) RegisterAccountRoutes(g *echo.Group) {
	g.GET("/accounts", h.ListAccounts)
	g.DELETE("/accounts/:accountNumber", h.DeleteAccount)
}

// ListAccounts returns accounts ordered by number, archived ones only on request
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	var (
		query           string
		includeArchived bool
	)
	err := echo.QueryParamsBinder(c).
		String("q", &query).
		Bool("includeArchived", &includeArchived).
		BindError()
	if err != nil {
		return bindError(err)
	}

	accounts, err := h.accountService.List(c.Request().Context(), query, includeArchived)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"accounts": accounts,
		},
	})
}

// DeleteAccount deletes an account nothing depends on
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	if err := h.accountService.Delete(c.Request().Context(), c.Param("accountNumber")); err != nil {
		return toHTTPError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
