package notify

import (
	"context"
	"fmt"

	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
)

// InAppSender stores the message's notification row.
type InAppSender struct {
	repo portsrepo.NotificationRepository
}

func NewInAppSender(repo portsrepo.NotificationRepository) *InAppSender {
	return &InAppSender{repo: repo}
}

func (s *InAppSender) Send(ctx context.Context, msg Message) error {
	if msg.Notification == nil {
		return fmt.Errorf("in-app message without notification")
	}
	return s.repo.SaveNotification(ctx, *msg.Notification)
}
