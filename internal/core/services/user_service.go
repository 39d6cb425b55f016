package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
	"github.com/payoff-app/payoff-backend/internal/utils"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
	now      func() time.Time
}

// NewUserService creates the user service. now is injectable for tests; pass
// nil for the wall clock.
func NewUserService(userRepo portsrepo.UserRepository, now func() time.Time) portssvc.UserSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &userService{userRepo: userRepo, now: now}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateGuestUser provisions an anonymous account. Guests carry no email or
// password; their identity lives entirely in the issued token.
func (s *userService) CreateGuestUser(ctx context.Context) (*domain.User, error) {
	now := s.now()
	user := domain.User{
		UserID:   uuid.NewString(),
		Name:     "Guest",
		AuthType: domain.AuthTypeGuest,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to create guest user")
		return nil, err
	}
	s.LogInfo(ctx, "Guest user created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		AuthType:     domain.AuthTypeUser,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save new user", slog.String("email", email))
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdateRefreshToken rotates the stored refresh token credentials for a user.
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = refreshTokenHash
	user.RefreshTokenExpiryTime = &expiryTime
	user.UpdatedAt = s.now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local
// account, creating one on first sign-in.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, email string, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: google identity has no email", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	newUser := domain.User{
		UserID:   uuid.NewString(),
		Name:     name,
		Email:    email,
		AuthType: domain.AuthTypeGoogle,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to create google user", slog.String("email", email))
		return nil, err
	}
	s.LogInfo(ctx, "Google user created", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}
