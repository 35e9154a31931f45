package repositories

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// NotificationRepository persists in-app notifications
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error

	// ListNotificationsForUser returns the user's own and broadcast notifications, newest first.
	ListNotificationsForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)

	// MarkNotificationRead returns apperrors.ErrNotFound when the notification is
	// missing or addressed to another user.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error
}
