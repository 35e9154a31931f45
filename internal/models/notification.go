package models

import "time"

// Notification is a row of the notifications table. A NULL user_id is a broadcast.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	UserID         *string   `db:"user_id"`
	Title          string    `db:"title"`
	Message        string    `db:"message"`
	Type           string    `db:"type"`
	Link           *string   `db:"link"`
	IsRead         bool      `db:"is_read"`
	CreatedAt      time.Time `db:"created_at"`
}
