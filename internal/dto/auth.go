package dto

import "time"

// RegisterRequest creates a full (non-guest) account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a stored refresh token for a fresh token pair.
type RefreshRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse carries the token pair the client persists under its
// configured storage keys. The refresh token rotates on every issue.
type AuthResponse struct {
	Token        string      `json:"token"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         UserSummary `json:"user"`
}
