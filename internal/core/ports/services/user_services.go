package services

import (
	"context"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// UserSvcFacade manages user accounts across the three auth paths.
type UserSvcFacade interface {
	CreateGuestUser(ctx context.Context) (*domain.User, error)
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindOrCreateGoogleUser(ctx context.Context, email string, name string) (*domain.User, error)
	// UpdateRefreshToken stores the hash and expiry of a user's current
	// refresh token, replacing any previous one.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error
}

// TokenSvcFacade issues bearer tokens and refresh tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// GenerateRefreshToken returns a new opaque refresh token and its expiry.
	// The caller persists the hash via UserSvcFacade.UpdateRefreshToken.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// ValidateRefreshToken checks a raw refresh token against the user's
	// stored hash and expiry, returning the user on success.
	ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}

// GoogleAuthSvcFacade drives the Google sign-in code flow.
type GoogleAuthSvcFacade interface {
	// Enabled reports whether Google credentials are configured.
	Enabled() bool
	// AuthCodeURL returns the consent-screen redirect URL for a state value.
	AuthCodeURL(state string) string
	// HandleCallback exchanges the auth code, validates the ID token and
	// resolves the user.
	HandleCallback(ctx context.Context, code string) (*domain.User, error)
}
