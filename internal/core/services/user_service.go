package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/google/uuid"
)

// TokenSettings are the JWT parameters used at login.
type TokenSettings struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tokens   TokenSettings
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, tokens TokenSettings) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, tokens: tokens}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser stores a bcrypt hash of the password, never the password itself.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	if !req.Role.IsValid() {
		return nil, apperrors.NewFieldError("role", "unknown role")
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return nil, apperrors.NewFieldError("password", err.Error())
		}
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := domain.User{
		UserID:         uuid.NewString(),
		Username:       req.Username,
		FullName:       req.FullName,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           req.Role,
		TelegramChatID: emptyToNil(req.TelegramChatID),
		IsActive:       true,
		AuditFields:    newAudit(creatorUserID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		}
		return nil, fmt.Errorf("failed to create user %s: %w", req.Username, err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// Login checks credentials and issues an access token carrying the user's role.
func (s *userService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", time.Time{}, nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return "", time.Time{}, nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogInfo(ctx, "Login rejected", slog.String("username", username))
		return "", time.Time{}, nil, apperrors.ErrUnauthorized
	}

	expiresAt := s.Now().Add(s.tokens.Expiry)
	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, nil, fmt.Errorf("failed to log in: %w", err)
	}
	return token, expiresAt, user, nil
}
