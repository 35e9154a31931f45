package dto

import (
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// LoginRequest holds sign-in credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Role      domain.Role `json:"role"`
}

// CreateUserRequest defines the data needed to create a staff account.
type CreateUserRequest struct {
	Username       string      `json:"username" binding:"required,min=3,max=50"`
	Password       string      `json:"password" binding:"required,min=8"`
	FullName       string      `json:"fullName" binding:"max=100"`
	Email          *string     `json:"email" binding:"omitempty,email"`
	Role           domain.Role `json:"role" binding:"required,oneof=admin manager driver user"`
	TelegramChatID *string     `json:"telegramChatID"`
}

// ListUsersParams are the query parameters for listing users.
type ListUsersParams struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// UserResponse defines the data returned for a user. The password hash never leaves the service.
type UserResponse struct {
	UserID    string      `json:"userID"`
	Username  string      `json:"username"`
	FullName  string      `json:"fullName"`
	Email     *string     `json:"email,omitempty"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
