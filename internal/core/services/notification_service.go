package services

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
)

type notificationService struct {
	BaseService
	repo portsrepo.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo portsrepo.NotificationRepository) portssvc.NotificationSvcFacade {
	return &notificationService{repo: repo}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := s.repo.ListNotificationsForUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications")
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	if err := s.repo.MarkNotificationRead(ctx, notificationID, userID); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}
