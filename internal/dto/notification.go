package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// ListNotificationsParams are the query parameters for the notification feed.
type ListNotificationsParams struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=200"`
}

// NotificationResponse defines the data returned for an in-app notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	Link           *string   `json:"link,omitempty"`
	IsRead         bool      `json:"isRead"`
	Broadcast      bool      `json:"broadcast"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Title:          n.Title,
			Message:        n.Message,
			Type:           n.Type,
			Link:           n.Link,
			IsRead:         n.IsRead,
			Broadcast:      n.UserID == nil,
			CreatedAt:      n.CreatedAt,
		}
	}
	return out
}
