package repository

import "github.com/campushq/platform/internal/domain/entity"

// NotificationRepository defines persistence for in-app notification records.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	ListByUser(userID string, unreadOnly bool) ([]entity.Notification, error)
	MarkRead(id string) error
	MarkAllRead(userID string) error
}
