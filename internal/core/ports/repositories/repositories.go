// Package repositories defines the persistence interfaces the service layer
// depends on. Implementations live under internal/repositories.
package repositories

import (
	"context"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// UserRepository persists application users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

// DebtRepository persists debts together with their schedules and
// transactions. Multi-row mutations (payment recording, schedule
// regeneration) are atomic within a single call.
type DebtRepository interface {
	// SaveDebt inserts a debt and its generated installment schedule.
	SaveDebt(ctx context.Context, debt domain.Debt) error
	// FindDebtByID loads a debt aggregate including payments and transactions.
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)
	// ListDebtsByUser loads every debt aggregate owned by the user, oldest first.
	ListDebtsByUser(ctx context.Context, userID string) ([]domain.Debt, error)
	// UpdateDebt rewrites the debt row and replaces its still-pending
	// installments with the ones on the aggregate.
	UpdateDebt(ctx context.Context, debt domain.Debt) error
	// DeleteDebt removes the debt and, via cascade, its payments and transactions.
	DeleteDebt(ctx context.Context, debtID string) error
	// RecordPayment marks one installment paid, appends the transaction and
	// updates the debt totals in a single database transaction.
	RecordPayment(ctx context.Context, debt domain.Debt, payment domain.MonthlyPayment, txn domain.Transaction) error
	// SaveTransaction appends a transaction and updates the debt totals in a
	// single database transaction.
	SaveTransaction(ctx context.Context, debt domain.Debt, txn domain.Transaction) error
}

// BackupRepository persists uploaded backup snapshots.
type BackupRepository interface {
	SaveBackup(ctx context.Context, backup domain.Backup) error
	FindLatestBackup(ctx context.Context, userID string) (*domain.Backup, error)
}

// InboxStore holds each user's notification inbox (derived entries plus
// read/selection flags). Backed by Redis when configured, process memory
// otherwise; either way a missing inbox reads as an empty list.
type InboxStore interface {
	GetInbox(ctx context.Context, userID string) (domain.NotificationList, error)
	SaveInbox(ctx context.Context, userID string, list domain.NotificationList) error
}
