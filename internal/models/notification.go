package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// NotificationType is the kind of a notification. It never changes after creation.
type NotificationType string

const (
	NotificationMessage NotificationType = "MESSAGE"
	NotificationAlert   NotificationType = "ALERT"
)

// NotificationStatus tracks whether the recipient has read a notification
type NotificationStatus string

const (
	StatusUnread NotificationStatus = "UNREAD"
	StatusRead   NotificationStatus = "READ"
)

var (
	ErrInvalidNotificationType   = errors.New("type must be MESSAGE or ALERT")
	ErrInvalidNotificationStatus = errors.New("status must be UNREAD or READ")
)

// ParseNotificationType accepts exactly "MESSAGE" or "ALERT".
func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(s); t {
	case NotificationMessage, NotificationAlert:
		return t, nil
	}
	return "", ErrInvalidNotificationType
}

// ParseNotificationStatus accepts exactly "UNREAD" or "READ".
func ParseNotificationStatus(s string) (NotificationStatus, error) {
	switch st := NotificationStatus(s); st {
	case StatusUnread, StatusRead:
		return st, nil
	}
	return "", ErrInvalidNotificationStatus
}

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID                     uint               `json:"id" gorm:"primaryKey"`
	Type                   NotificationType   `json:"type" gorm:"size:16;not null"`
	Title                  string             `json:"title" gorm:"not null"`
	Body                   *string            `json:"body"`
	Status                 NotificationStatus `json:"status" gorm:"size:8;not null;index"`
	RecipientUserID        uint               `json:"recipientUserId" gorm:"not null;index"`
	RecipientAccountNumber *string            `json:"recipientAccountNumber"`
	SenderUserID           *uint              `json:"senderUserId"`
	Pinned                 bool               `json:"pinned" gorm:"not null"`
	Metadata               datatypes.JSON     `json:"metadata,omitempty"`
	CreatedAt              time.Time          `json:"createdAt" gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt              time.Time          `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
	ReadAt                 *time.Time         `json:"readAt"`
}

// CreateNotificationRequest is the body of POST /notifications
type CreateNotificationRequest struct {
	Type                   string         `json:"type"`
	Title                  string         `json:"title" validate:"required"`
	Body                   *string        `json:"body"`
	RecipientUserID        *uint          `json:"recipientUserId" validate:"required"`
	RecipientAccountNumber *string        `json:"recipientAccountNumber"`
	SenderUserID           *uint          `json:"senderUserId"`
	Pinned                 *bool          `json:"pinned"`
	Metadata               datatypes.JSON `json:"metadata"`
}

// UpdateNotificationRequest is a partial update: nil fields are left untouched.
type UpdateNotificationRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
	Pinned *bool   `json:"pinned"`
}

// NewNotification builds an unread notification stamped at now. The type must
// already be parsed; recipient existence is the caller's concern.
func NewNotification(typ NotificationType, req CreateNotificationRequest, now time.Time) Notification {
	n := Notification{
		Type:                   typ,
		Title:                  req.Title,
		Body:                   req.Body,
		Status:                 StatusUnread,
		RecipientAccountNumber: req.RecipientAccountNumber,
		SenderUserID:           req.SenderUserID,
		Pinned:                 req.Pinned != nil && *req.Pinned,
		Metadata:               req.Metadata,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if req.RecipientUserID != nil {
		n.RecipientUserID = *req.RecipientUserID
	}
	return n
}

// ApplyUpdate copies the present fields of req onto n. The status is checked
// before anything is written, so a rejected update leaves n unchanged.
func (n *Notification) ApplyUpdate(req UpdateNotificationRequest, now time.Time) error {
	var status NotificationStatus
	if req.Status != nil {
		st, err := ParseNotificationStatus(*req.Status)
		if err != nil {
			return err
		}
		status = st
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Body != nil {
		n.Body = req.Body
	}
	if req.Pinned != nil {
		n.Pinned = *req.Pinned
	}
	if status != "" {
		n.setStatus(status, now)
	}
	n.UpdatedAt = now
	return nil
}

// MarkRead moves n to READ. readAt keeps its first value on repeated calls.
func (n *Notification) MarkRead(now time.Time) {
	n.setStatus(StatusRead, now)
	n.UpdatedAt = now
}

// readAt is set once, on the first transition into READ, and never cleared.
func (n *Notification) setStatus(status NotificationStatus, now time.Time) {
	if status == StatusRead && n.ReadAt == nil {
		readAt := now
		n.ReadAt = &readAt
	}
	n.Status = status
}
