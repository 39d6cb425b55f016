package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/shopspring/decimal"
)

// debtService implements debt CRUD, schedule generation and payment
// recording. Balance arithmetic happens here so the stored
// remaining_balance is always totalDebt - total_paid; clients never
// recompute it.
type debtService struct {
	BaseService
	debtRepo portsrepo.DebtRepository
	now      func() time.Time
}

// NewDebtService creates the debt service. now is injectable for tests; pass
// nil for the wall clock.
func NewDebtService(debtRepo portsrepo.DebtRepository, now func() time.Time) portssvc.DebtSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &debtService{debtRepo: debtRepo, now: now}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func (s *debtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	monthlyDue := utils.ParsePHP(req.MonthlyPayment)
	if req.TotalDebt.Sign() <= 0 || monthlyDue.Sign() <= 0 {
		return nil, fmt.Errorf("%w: debt and monthly amounts must be positive", apperrors.ErrValidation)
	}
	startDate := dto.ParseWireDate(req.StartDate)
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}

	now := s.now()
	debtID := uuid.NewString()
	payments := generateSchedule(debtID, startDate, monthlyDue, termInMonths(req.TermLength, domain.TermType(req.TermType)), 0)

	dueDate := dto.ParseWireDate(req.DueDate)
	if dueDate.IsZero() && len(payments) > 0 {
		dueDate = payments[len(payments)-1].DueDate
	}

	debt := domain.Debt{
		DebtID:           debtID,
		UserID:           userID,
		Bank:             req.Bank,
		Type:             domain.DebtType(req.Type),
		TotalDebt:        req.TotalDebt,
		RemainingBalance: req.TotalDebt,
		TotalPaid:        decimal.Zero,
		MonthlyDue:       monthlyDue,
		TermLength:       req.TermLength,
		TermType:         domain.TermType(req.TermType),
		StartDate:        startDate,
		DueDate:          dueDate,
		IsActive:         true,
		MonthlyPayments:  payments,
		Transactions:     []domain.Transaction{},
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.debtRepo.SaveDebt(ctx, debt); err != nil {
		s.LogError(ctx, err, "Failed to save debt", slog.String("bank", req.Bank))
		return nil, err
	}
	s.LogInfo(ctx, "Debt created", slog.String("debt_id", debtID), slog.Int("installments", len(payments)))
	return &debt, nil
}

func (s *debtService) UpdateDebt(ctx context.Context, userID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	debt, err := s.getOwnedDebt(ctx, userID, req.DebtID)
	if err != nil {
		return nil, err
	}

	monthlyDue := utils.ParsePHP(req.MonthlyPayment)
	if req.TotalDebt.Sign() <= 0 || monthlyDue.Sign() <= 0 {
		return nil, fmt.Errorf("%w: debt and monthly amounts must be positive", apperrors.ErrValidation)
	}
	startDate := dto.ParseWireDate(req.StartDate)
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}

	debt.Bank = req.Bank
	if req.Type != "" {
		debt.Type = domain.DebtType(req.Type)
	}
	debt.TotalDebt = req.TotalDebt
	debt.MonthlyDue = monthlyDue
	debt.TermLength = req.TermLength
	debt.TermType = domain.TermType(req.TermType)
	debt.StartDate = startDate

	// Settled installments are history; only the pending tail is regenerated
	// under the new amount and dates.
	paid := paidPayments(debt.MonthlyPayments)
	months := termInMonths(req.TermLength, debt.TermType)
	pending := generateSchedule(debt.DebtID, startDate, monthlyDue, months, len(paid))
	debt.MonthlyPayments = append(paid, pending...)

	debt.RemainingBalance = debt.TotalDebt.Sub(debt.TotalPaid)
	if debt.RemainingBalance.Sign() < 0 {
		debt.RemainingBalance = decimal.Zero
	}

	dueDate := dto.ParseWireDate(req.DueDate)
	if dueDate.IsZero() && len(debt.MonthlyPayments) > 0 {
		dueDate = debt.MonthlyPayments[len(debt.MonthlyPayments)-1].DueDate
	}
	debt.DueDate = dueDate
	debt.UpdatedAt = s.now()

	if err := s.debtRepo.UpdateDebt(ctx, *debt); err != nil {
		s.LogError(ctx, err, "Failed to update debt", slog.String("debt_id", debt.DebtID))
		return nil, err
	}
	s.LogInfo(ctx, "Debt updated", slog.String("debt_id", debt.DebtID))
	return debt, nil
}

func (s *debtService) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	if _, err := s.getOwnedDebt(ctx, userID, debtID); err != nil {
		return err
	}
	if err := s.debtRepo.DeleteDebt(ctx, debtID); err != nil {
		s.LogError(ctx, err, "Failed to delete debt", slog.String("debt_id", debtID))
		return err
	}
	s.LogInfo(ctx, "Debt deleted", slog.String("debt_id", debtID))
	return nil
}

func (s *debtService) RecordPayment(ctx context.Context, userID string, req dto.PayRequest) (*domain.Debt, error) {
	debt, err := s.getOwnedDebt(ctx, userID, req.DebtID)
	if err != nil {
		return nil, err
	}

	if req.PaymentIndex < 0 || req.PaymentIndex >= len(debt.MonthlyPayments) {
		return nil, fmt.Errorf("%w: payment index %d out of range", apperrors.ErrValidation, req.PaymentIndex)
	}
	payment := debt.MonthlyPayments[req.PaymentIndex]
	if payment.Status == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: installment already paid", apperrors.ErrValidation)
	}

	now := s.now()
	payment.Status = domain.PaymentPaid
	debt.MonthlyPayments[req.PaymentIndex] = payment

	s.applyAmount(debt, payment.Amount, now)

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		DebtID:        debt.DebtID,
		Amount:        payment.Amount,
		Type:          domain.TransactionPayment,
		Bank:          debt.Bank,
		Date:          now,
	}
	debt.Transactions = append(debt.Transactions, txn)

	if err := s.debtRepo.RecordPayment(ctx, *debt, payment, txn); err != nil {
		s.LogError(ctx, err, "Failed to record payment",
			slog.String("debt_id", debt.DebtID), slog.Int("payment_index", req.PaymentIndex))
		return nil, err
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("debt_id", debt.DebtID),
		slog.String("amount", payment.Amount.String()))
	return debt, nil
}

func (s *debtService) SaveTransaction(ctx context.Context, userID string, req dto.SaveTransactionRequest) (*domain.Debt, error) {
	debt, err := s.getOwnedDebt(ctx, userID, req.DebtID)
	if err != nil {
		return nil, err
	}
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	now := s.now()
	date := dto.ParseWireDate(req.Date)
	if date.IsZero() {
		date = now
	}
	bank := req.Bank
	if bank == "" {
		bank = debt.Bank
	}

	s.applyAmount(debt, req.Amount, now)

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		DebtID:        debt.DebtID,
		Amount:        req.Amount,
		Type:          domain.TransactionType(req.Type),
		Bank:          bank,
		Notes:         req.Description,
		Date:          date,
	}
	debt.Transactions = append(debt.Transactions, txn)

	if err := s.debtRepo.SaveTransaction(ctx, *debt, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("debt_id", debt.DebtID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction saved",
		slog.String("debt_id", debt.DebtID),
		slog.String("type", req.Type),
		slog.String("amount", req.Amount.String()))
	return debt, nil
}

func (s *debtService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	debts, err := s.debtRepo.ListDebtsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts")
		return nil, err
	}
	return debts, nil
}

// applyAmount folds a paid amount into the debt totals, keeping the balance
// invariant and flipping the debt inactive once fully paid.
func (s *debtService) applyAmount(debt *domain.Debt, amount decimal.Decimal, now time.Time) {
	debt.TotalPaid = debt.TotalPaid.Add(amount)
	debt.RemainingBalance = debt.TotalDebt.Sub(debt.TotalPaid)
	if debt.RemainingBalance.Sign() < 0 {
		debt.RemainingBalance = decimal.Zero
	}
	if debt.RemainingBalance.Sign() == 0 {
		debt.IsActive = false
	}
	debt.UpdatedAt = now
}

func (s *debtService) getOwnedDebt(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.UserID != userID {
		s.LogWarn(ctx, "Debt access denied", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("%w: debt %s", apperrors.ErrForbidden, debtID)
	}
	return debt, nil
}

// termInMonths normalizes a term to months.
func termInMonths(length int, termType domain.TermType) int {
	if termType == domain.TermYears {
		return length * 12
	}
	return length
}

// generateSchedule produces the pending installments from sequence `from`
// through the end of the term, one month apart starting one month after the
// start date.
func generateSchedule(debtID string, startDate time.Time, amount decimal.Decimal, months int, from int) []domain.MonthlyPayment {
	if from >= months {
		return []domain.MonthlyPayment{}
	}
	payments := make([]domain.MonthlyPayment, 0, months-from)
	for i := from; i < months; i++ {
		payments = append(payments, domain.MonthlyPayment{
			PaymentID: uuid.NewString(),
			DebtID:    debtID,
			Sequence:  i,
			Amount:    amount,
			Status:    domain.PaymentPending,
			DueDate:   startDate.AddDate(0, i+1, 0),
		})
	}
	return payments
}

func paidPayments(payments []domain.MonthlyPayment) []domain.MonthlyPayment {
	out := make([]domain.MonthlyPayment, 0, len(payments))
	for _, p := range payments {
		if p.Status == domain.PaymentPaid {
			out = append(out, p)
		}
	}
	return out
}
