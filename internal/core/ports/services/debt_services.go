package services

import (
	"context"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// DebtSvcFacade is the debt CRUD and payment surface. Every method enforces
// that the debt belongs to userID.
type DebtSvcFacade interface {
	CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error)
	UpdateDebt(ctx context.Context, userID string, req dto.UpdateDebtRequest) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, userID string, debtID string) error
	RecordPayment(ctx context.Context, userID string, req dto.PayRequest) (*domain.Debt, error)
	SaveTransaction(ctx context.Context, userID string, req dto.SaveTransactionRequest) (*domain.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
}
