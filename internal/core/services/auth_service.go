package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService issues the bearer and refresh tokens the mobile client
// persists.
type tokenService struct {
	BaseService
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, userService: userService}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken returns a new opaque refresh token. Only its hash is
// ever stored, so the raw value exists client-side alone.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	rawToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return rawToken, expiryTime, nil
}

// ValidateRefreshToken checks a raw refresh token against the stored hash and
// expiry for the user.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, fmt.Errorf("%w: no refresh token on record", apperrors.ErrUnauthorized)
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrUnauthorized)
	}
	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		s.LogWarn(ctx, "Refresh token mismatch")
		return nil, fmt.Errorf("%w: refresh token mismatch", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// googleAuthService drives the Google sign-in code flow: consent URL, code
// exchange, and ID-token validation.
type googleAuthService struct {
	BaseService
	cfg          *config.Config
	oauth2Config *oauth2.Config
	userService  portssvc.UserSvcFacade
}

// NewGoogleAuthService creates the Google auth service.
func NewGoogleAuthService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.GoogleAuthSvcFacade {
	return &googleAuthService{
		cfg:         cfg,
		userService: userService,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

var _ portssvc.GoogleAuthSvcFacade = (*googleAuthService)(nil)

func (s *googleAuthService) Enabled() bool {
	return s.cfg.GoogleClientID != "" && s.cfg.GoogleClientSecret != ""
}

func (s *googleAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// HandleCallback exchanges the auth code, validates the returned ID token
// against our client ID, and resolves the verified identity to a user.
func (s *googleAuthService) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Google code exchange failed")
		return nil, fmt.Errorf("%w: google code exchange failed", apperrors.ErrUnauthorized)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google response missing id_token", apperrors.ErrUnauthorized)
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		s.LogError(ctx, err, "Google ID token validation failed")
		return nil, fmt.Errorf("%w: invalid google id token", apperrors.ErrUnauthorized)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return s.userService.FindOrCreateGoogleUser(ctx, email, name)
}
