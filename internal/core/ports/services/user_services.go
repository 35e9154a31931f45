package services

import (
	"context"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
}

// AuthSvc verifies credentials and issues access tokens.
type AuthSvc interface {
	// Login returns apperrors.ErrUnauthorized for unknown users, bad passwords and inactive accounts.
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, user *domain.User, err error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	AuthSvc
}
