package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"github.com/anonto42/bank-backoffice/backend/internal/repositories"
)

const notificationNotFound = "Notification not found"

// NotificationService owns the notification lifecycle and its queries.
// Every method runs in a single store transaction.
type NotificationService struct {
	store  repositories.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewNotificationService(store repositories.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger, now: time.Now}
}

// ListParams are the query options of List
type ListParams struct {
	RecipientID uint
	UnreadOnly  bool
	Query       string
	Page        int
	Size        int
}

// Location is the canonical path of a stored notification.
func Location(id uint) string {
	return fmt.Sprintf("/api/notifications/%d", id)
}

// Create validates and stores a new unread notification.
func (s *NotificationService) Create(ctx context.Context, req models.CreateNotificationRequest) (*models.Notification, error) {
	typ, err := models.ParseNotificationType(req.Type)
	if err != nil {
		return nil, invalidArgument(err.Error())
	}
	if req.RecipientUserID == nil {
		return nil, invalidArgument("recipientUserId is required")
	}

	notification := models.NewNotification(typ, req, s.now())
	err = s.store.Do(ctx, func(tx repositories.Tx) error {
		exists, err := tx.Users().Exists(*req.RecipientUserID)
		if err != nil {
			return fmt.Errorf("check recipient: %w", err)
		}
		if !exists {
			return invalidArgument("invalid recipientUserId")
		}
		return tx.Notifications().Create(&notification)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "notification created",
		"notification_id", notification.ID,
		"type", notification.Type,
		"recipient_user_id", notification.RecipientUserID)
	return &notification, nil
}

// Get returns one notification by id.
func (s *NotificationService) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var notification *models.Notification
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		var err error
		notification, err = tx.Notifications().FindByID(id)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return notification, nil
}

// Update applies a partial update. type and recipientUserId are never changed.
func (s *NotificationService) Update(ctx context.Context, id uint, req models.UpdateNotificationRequest) (*models.Notification, error) {
	return s.mutate(ctx, id, func(n *models.Notification, now time.Time) error {
		if err := n.ApplyUpdate(req, now); err != nil {
			return invalidArgument(err.Error())
		}
		return nil
	})
}

// MarkRead sets status READ. readAt keeps its first value; updatedAt moves on
// every call.
func (s *NotificationService) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	return s.mutate(ctx, id, func(n *models.Notification, now time.Time) error {
		n.MarkRead(now)
		return nil
	})
}

func (s *NotificationService) mutate(ctx context.Context, id uint, apply func(*models.Notification, time.Time) error) (*models.Notification, error) {
	var notification *models.Notification
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		n, err := tx.Notifications().FindByID(id)
		if err != nil {
			return err
		}
		if err := apply(n, s.now()); err != nil {
			return err
		}
		if err := tx.Notifications().Update(n); err != nil {
			return err
		}
		notification = n
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return notification, nil
}

// Delete removes a notification without any dependency check.
func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		return tx.Notifications().Delete(id)
	})
	if err != nil {
		return translate(err)
	}
	s.logger.InfoContext(ctx, "notification deleted", "notification_id", id)
	return nil
}

// List returns one page of a recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, params ListParams) (repositories.Page[models.Notification], error) {
	filter := repositories.NotificationFilter{
		RecipientUserID: params.RecipientID,
		UnreadOnly:      params.UnreadOnly,
	}
	if strings.TrimSpace(params.Query) != "" {
		filter.Query = params.Query
	}
	pageReq := repositories.NewPageRequest(params.Page, params.Size)

	var page repositories.Page[models.Notification]
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		var err error
		page, err = tx.Notifications().List(filter, pageReq)
		return err
	})
	if err != nil {
		return page, fmt.Errorf("list notifications: %w", err)
	}
	return page, nil
}

// UnreadCount counts a recipient's UNREAD notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		var err error
		count, err = tx.Notifications().CountUnread(recipientID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAllRead marks every UNREAD notification of a recipient as READ and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	var changed int64
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		var err error
		changed, err = tx.Notifications().MarkAllRead(recipientID, s.now())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	s.logger.InfoContext(ctx, "notifications marked read", "recipient_user_id", recipientID, "count", changed)
	return changed, nil
}

func translate(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(notificationNotFound)
	}
	return err
}
