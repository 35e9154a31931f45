package services

import "github.com/bluestar-trading/erp_backend/internal/notify"

// NotificationDispatcher accepts fire-and-forget notification jobs.
// Submit never blocks and reports whether the job was queued.
type NotificationDispatcher interface {
	Submit(msg notify.Message) bool
}
