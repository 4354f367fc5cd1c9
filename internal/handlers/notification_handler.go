package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"github.com/anonto42/bank-backoffice/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications", h.CreateNotification)
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/mark-all-read", h.MarkAllAsRead)
	g.GET("/notifications/:id", h.GetNotification)
	g.PATCH("/notifications/:id", h.UpdateNotification)
	g.POST("/notifications/:id/mark-read", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// CreateNotification stores a new unread notification
func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	var req models.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	notification, err := h.notificationService.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, services.Location(notification.ID))
	return c.JSON(http.StatusCreated, notification)
}

// GetNotifications returns a page of a recipient's notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	var params services.ListParams
	err := echo.QueryParamsBinder(c).
		MustUint("recipientId", &params.RecipientID).
		Bool("unreadOnly", &params.UnreadOnly).
		String("q", &params.Query).
		Int("page", &params.Page).
		Int("size", &params.Size).
		BindError()
	if err != nil {
		return bindError(err)
	}

	page, err := h.notificationService.List(c.Request().Context(), params)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}

	totalPages := page.TotalPages()
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": page.Items,
		},
		"meta": echo.Map{
			"currentPage":     page.Page,
			"totalPages":      totalPages,
			"totalItems":      page.TotalItems,
			"itemsPerPage":    page.Size,
			"hasNextPage":     page.Page+1 < totalPages,
			"hasPreviousPage": page.Page > 0,
			"first":           page.First(),
			"last":            page.Last(),
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	recipientID, err := recipientParam(c)
	if err != nil {
		return err
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), recipientID)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAllAsRead marks all of a recipient's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	recipientID, err := recipientParam(c)
	if err != nil {
		return err
	}

	changed, err := h.notificationService.MarkAllRead(c.Request().Context(), recipientID)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": changed}})
}

func (h *NotificationHandler) GetNotification(c echo.Context) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationService.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, notification)
}

// UpdateNotification applies a partial update
func (h *NotificationHandler) UpdateNotification(c echo.Context) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	var req models.UpdateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	notification, err := h.notificationService.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, notification)
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationService.MarkRead(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func notificationID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	return uint(id), nil
}

func recipientParam(c echo.Context) (uint, error) {
	var recipientID uint
	if err := echo.QueryParamsBinder(c).MustUint("recipientId", &recipientID).BindError(); err != nil {
		return 0, bindError(err)
	}
	return recipientID, nil
}
