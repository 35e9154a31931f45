package domain

// Role is the access level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
	RoleUser    Role = "user"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver, RoleUser:
		return true
	}
	return false
}

// User represents a staff member who can sign in.
type User struct {
	UserID         string  `json:"userID"`
	Username       string  `json:"username"`
	FullName       string  `json:"fullName"`
	Email          *string `json:"email,omitempty"`
	PasswordHash   string  `json:"-"`
	Role           Role    `json:"role"`
	TelegramChatID *string `json:"telegramChatID,omitempty"`
	IsActive       bool    `json:"isActive"`
	AuditFields
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
