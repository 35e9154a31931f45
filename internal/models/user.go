package models

// User is a row of the users table.
type User struct {
	UserID         string  `db:"user_id"`
	Username       string  `db:"username"`
	FullName       string  `db:"full_name"`
	Email          *string `db:"email"`
	PasswordHash   string  `db:"password_hash"`
	Role           string  `db:"role"`
	TelegramChatID *string `db:"telegram_chat_id"`
	IsActive       bool    `db:"is_active"`
	AuditFields
}
