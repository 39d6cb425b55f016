package domain

import "time"

// AuthType records how a user account was created.
type AuthType string

const (
	AuthTypeGuest  AuthType = "guest"
	AuthTypeUser   AuthType = "user"
	AuthTypeGoogle AuthType = "google"
)

// User represents an application user. Guest users have no email or password;
// they exist only through their long-lived session token.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	AuthType     AuthType `json:"authType"`
	AuditFields

	// Refresh token fields; guest sessions rely on these to survive app restarts.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// IsGuest reports whether this account was created through guest login.
func (u User) IsGuest() bool {
	return u.AuthType == AuthTypeGuest
}
