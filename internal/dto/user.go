package dto

import (
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// DebtsData wraps the debts list inside the user payload, matching the shape
// the mobile client binds to.
type DebtsData struct {
	DebtsList []DebtResponse `json:"debtsList"`
}

// UserResponse is the GET /api/user payload: profile plus the full debts
// collection.
type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AuthType  string    `json:"authType"`
	IsGuest   bool      `json:"isGuest"`
	Data      DebtsData `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUserResponse assembles the user payload from the user row and their debts.
func ToUserResponse(u *domain.User, debts []domain.Debt) UserResponse {
	return UserResponse{
		ID:        u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		AuthType:  string(u.AuthType),
		IsGuest:   u.IsGuest(),
		Data:      DebtsData{DebtsList: ToListDebtResponse(debts)},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserSummary is the compact user shape embedded in auth responses.
type UserSummary struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	AuthType string `json:"authType"`
	IsGuest  bool   `json:"isGuest"`
}

// ToUserSummary converts a domain user to its compact wire form.
func ToUserSummary(u *domain.User) UserSummary {
	return UserSummary{
		ID:       u.UserID,
		Name:     u.Name,
		Email:    u.Email,
		AuthType: string(u.AuthType),
		IsGuest:  u.IsGuest(),
	}
}
