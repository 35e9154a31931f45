package services

import (
	"context"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// NotificationSvcFacade exposes the in-app notification feed.
type NotificationSvcFacade interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error
}
