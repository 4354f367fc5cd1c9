package repositories

import (
	"time"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id uint) (*models.Notification, error)
	// Update writes the mutable columns of notification: title, body,
	// status, pinned, updated_at and read_at.
	Update(notification *models.Notification) error
	Delete(id uint) error
	List(filter NotificationFilter, page PageRequest) (Page[models.Notification], error)
	CountUnread(recipientID uint) (int64, error)
	MarkAllRead(recipientID uint, now time.Time) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	return mapError(r.db.Create(notification).Error)
}

func (r *postgresNotificationRepository) FindByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) Update(notification *models.Notification) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]interface{}{
			"title":      notification.Title,
			"body":       notification.Body,
			"status":     notification.Status,
			"pinned":     notification.Pinned,
			"updated_at": notification.UpdatedAt,
			"read_at":    notification.ReadAt,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Notification{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page ordered newest first, ties broken by id.
func (r *postgresNotificationRepository) List(filter NotificationFilter, page PageRequest) (Page[models.Notification], error) {
	result := Page[models.Notification]{
		Items: make([]models.Notification, 0),
		Page:  page.Page,
		Size:  page.Size,
	}

	scope := notificationScope(filter)
	if err := r.db.Model(&models.Notification{}).Scopes(scope).Count(&result.TotalItems).Error; err != nil {
		return result, mapError(err)
	}
	if int64(page.Offset()) >= result.TotalItems {
		return result, nil
	}

	err := r.db.Scopes(scope).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&result.Items).Error
	return result, mapError(err)
}

func notificationScope(filter NotificationFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("recipient_user_id = ?", filter.RecipientUserID)
		if filter.UnreadOnly {
			db = db.Where("status = ?", models.StatusUnread)
		}
		if filter.Query != "" {
			like := likePattern(filter.Query)
			db = db.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(body) LIKE LOWER(?))", like, like)
		}
		return db
	}
}

func (r *postgresNotificationRepository) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_user_id = ? AND status = ?", recipientID, models.StatusUnread).
		Count(&count).Error
	return count, mapError(err)
}

func (r *postgresNotificationRepository) MarkAllRead(recipientID uint, now time.Time) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_user_id = ? AND status = ?", recipientID, models.StatusUnread).
		Updates(map[string]interface{}{
			"status":     models.StatusRead,
			"read_at":    gorm.Expr("COALESCE(read_at, ?)", now),
			"updated_at": now,
		})
	return res.RowsAffected, mapError(res.Error)
}
