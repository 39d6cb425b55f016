package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
	"github.com/payoff-app/payoff-backend/internal/middleware"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/utils"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles guest, email/password and Google authentication.
type AuthHandler struct {
	userService   portssvc.UserSvcFacade
	tokenService  portssvc.TokenSvcFacade
	googleService portssvc.GoogleAuthSvcFacade
	frontendBase  string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:   services.User,
		tokenService:  services.Token,
		googleService: services.GoogleAuth,
		frontendBase:  cfg.FrontendBaseURL,
	}
}

// Guest godoc
// @Summary Create a guest session
// @Description Creates an anonymous guest account and returns a bearer token for it.
// @Tags auth
// @Produce json
// @Success 201 {object} dto.AuthResponse
// @Failure 500 {object} ErrorResponse
// @Router /guest [post]
func (h *AuthHandler) Guest(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.userService.CreateGuestUser(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// Register godoc
// @Summary Register a new account
// @Description Creates an email/password account and returns a bearer token for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Description Validates the stored refresh token and returns a new access token plus a rotated refresh token. The old refresh token stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "User ID and refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// GoogleLogin godoc
// @Summary Start the Google sign-in flow
// @Description Redirects the browser to Google's consent screen.
// @Tags auth
// @Success 307
// @Failure 503 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.googleService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}
	state, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	// State round-trips through a short-lived cookie to block CSRF on the
	// callback.
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleService.AuthCodeURL(state))
}

// GoogleCallback godoc
// @Summary Complete the Google sign-in flow
// @Description Validates the state cookie, exchanges the code and redirects to the frontend with a bearer token.
// @Tags auth
// @Produce json
// @Param state query string true "Opaque state from the login redirect"
// @Param code query string true "Authorization code from Google"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || cookieState == "" || cookieState != c.Query("state") {
		logger.WarnContext(ctx, "Google callback with mismatched state")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	user, err := h.googleService.HandleCallback(ctx, code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.InfoContext(ctx, "Google sign-in completed", slog.String("user_id", user.UserID))

	if h.frontendBase != "" {
		redirect := h.frontendBase + "/auth/callback?token=" + url.QueryEscape(token)
		c.Redirect(http.StatusTemporaryRedirect, redirect)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// respondWithToken issues a fresh token pair. Each call rotates the stored
// refresh token hash, so previously issued refresh tokens stop working.
func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	ctx := c.Request.Context()
	token, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(status, dto.AuthResponse{
		Token:        token,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
		User:         dto.ToUserSummary(user),
	})
}
