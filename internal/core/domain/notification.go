package domain

import "time"

const (
	NotificationVoucherDraft  = "voucher_draft"
	NotificationVoucherIssued = "voucher_issued"
	NotificationLowStock      = "low_stock"
)

// Notification is an in-app message. A nil UserID broadcasts to everyone.
type Notification struct {
	NotificationID string    `json:"notificationID"`
	UserID         *string   `json:"userID,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	Link           *string   `json:"link,omitempty"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}
