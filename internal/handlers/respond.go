package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/middleware"
)

// ErrorResponse is the generic error body every handler returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
// Unrecognized errors become a 500 with a generic body; the real error is
// logged, never leaked.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.ErrorContext(c.Request.Context(), "Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// mustUserID pulls the authenticated user ID set by the auth middleware. A
// missing ID means the middleware chain is misconfigured; respond 401 and
// abort.
func mustUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return "", false
	}
	return userID, true
}
