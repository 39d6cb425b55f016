package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/core/services"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/stretchr/testify/suite"
)

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(tokenServiceSuite))
}

type tokenServiceSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	svc      portssvc.TokenSvcFacade
}

func (s *tokenServiceSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "payoff-backend",
		RefreshTokenExpiryDuration: 90 * 24 * time.Hour,
	}
	s.svc = services.NewTokenService(cfg, services.NewUserService(s.mockRepo, fixedNow))
}

func (s *tokenServiceSuite) TestGenerateAccessToken_SignsSubject() {
	token, expiresAt, err := s.svc.GenerateAccessToken(context.Background(), &domain.User{UserID: "u1"})
	s.Require().NoError(err)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	s.Require().NoError(err)
	s.Equal("u1", claims.Subject)
	s.True(expiresAt.After(time.Now()))
}

func (s *tokenServiceSuite) TestRefreshToken_RoundTrip() {
	ctx := context.Background()
	user := &domain.User{UserID: "u1", AuthType: domain.AuthTypeGuest}

	raw, expiry, err := s.svc.GenerateRefreshToken(ctx, user)
	s.Require().NoError(err)
	s.NotEmpty(raw)
	s.True(expiry.After(time.Now()))

	stored := &domain.User{
		UserID:                 "u1",
		RefreshTokenHash:       utils.HashRefreshToken(raw),
		RefreshTokenExpiryTime: &expiry,
	}
	s.mockRepo.On("FindUserByID", ctx, "u1").Return(stored, nil)

	got, err := s.svc.ValidateRefreshToken(ctx, "u1", raw)
	s.Require().NoError(err)
	s.Equal("u1", got.UserID)

	_, err = s.svc.ValidateRefreshToken(ctx, "u1", "not-the-token")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *tokenServiceSuite) TestValidateRefreshToken_Expired() {
	ctx := context.Background()
	expired := time.Now().Add(-time.Minute)
	stored := &domain.User{
		UserID:                 "u1",
		RefreshTokenHash:       utils.HashRefreshToken("raw-token"),
		RefreshTokenExpiryTime: &expired,
	}
	s.mockRepo.On("FindUserByID", ctx, "u1").Return(stored, nil)

	_, err := s.svc.ValidateRefreshToken(ctx, "u1", "raw-token")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *tokenServiceSuite) TestValidateRefreshToken_NoneOnRecord() {
	ctx := context.Background()
	s.mockRepo.On("FindUserByID", ctx, "u1").Return(&domain.User{UserID: "u1"}, nil).Once()

	_, err := s.svc.ValidateRefreshToken(ctx, "u1", "whatever")
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	s.mockRepo.On("FindUserByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()
	_, err = s.svc.ValidateRefreshToken(ctx, "ghost", "whatever")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}
