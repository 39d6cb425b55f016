package dto

import (
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/payoff-app/payoff-backend/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

// wireDateLayouts are the date formats the mobile client is known to send.
var wireDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseWireDate parses an ISO-8601 date string from the client. Malformed or
// empty input yields the zero time; callers treat that defensively rather
// than failing the whole request.
func ParseWireDate(s string) time.Time {
	for _, layout := range wireDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CreateDebtRequest is the add-debt form submission. MonthlyPayment arrives
// as a formatted currency string from the form field and is parsed
// server-side.
type CreateDebtRequest struct {
	Type           string          `json:"type" binding:"required,oneof=loan credit_card"`
	Bank           string          `json:"bank" binding:"required"`
	TotalDebt      decimal.Decimal `json:"totalDebt" binding:"required"`
	MonthlyPayment string          `json:"monthlyPayment" binding:"required,phpamount"`
	TermLength     int             `json:"term_length" binding:"required,gt=0"`
	TermType       string          `json:"term_type" binding:"required,oneof=months years"`
	StartDate      string          `json:"start_date" binding:"required"`
	DueDate        string          `json:"due_date"`
}

// UpdateDebtRequest carries the same fields as creation plus the target id.
type UpdateDebtRequest struct {
	DebtID         string          `json:"debtId" binding:"required"`
	Type           string          `json:"type" binding:"omitempty,oneof=loan credit_card"`
	Bank           string          `json:"bank" binding:"required"`
	TotalDebt      decimal.Decimal `json:"totalDebt" binding:"required"`
	MonthlyPayment string          `json:"monthlyPayment" binding:"required,phpamount"`
	TermLength     int             `json:"term_length" binding:"required,gt=0"`
	TermType       string          `json:"term_type" binding:"required,oneof=months years"`
	StartDate      string          `json:"start_date" binding:"required"`
	DueDate        string          `json:"due_date"`
}

// DeleteDebtRequest identifies the debt to remove.
type DeleteDebtRequest struct {
	DebtID string `json:"debtId" binding:"required"`
}

// PayRequest marks one scheduled installment paid, addressed by its position
// in the schedule as the client renders it.
type PayRequest struct {
	DebtID       string `json:"debtId" binding:"required"`
	PaymentIndex int    `json:"paymentIndex" binding:"min=0"`
}

// SaveTransactionRequest records a payment or extra payment against a debt.
type SaveTransactionRequest struct {
	DebtID      string          `json:"debtId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=payment extra"`
	Description string          `json:"description"`
	Date        string          `json:"date" binding:"required"`
	Bank        string          `json:"bank" binding:"required"`
}

// MonthlyPaymentResponse mirrors the client's schedule entry shape.
type MonthlyPaymentResponse struct {
	ID      string          `json:"_id"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	DueDate time.Time       `json:"due_date"`
}

// TransactionResponse mirrors the client's transaction shape.
type TransactionResponse struct {
	ID          string          `json:"_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Bank        string          `json:"bank"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

// DebtResponse is the full debt aggregate as the client consumes it,
// including the server-derived progress percentage and next due date.
type DebtResponse struct {
	ID               string                   `json:"_id"`
	Bank             string                   `json:"bank"`
	Type             string                   `json:"type"`
	TotalDebt        decimal.Decimal          `json:"totalDebt"`
	RemainingBalance decimal.Decimal          `json:"remaining_balance"`
	TotalPaid        decimal.Decimal          `json:"total_paid"`
	MonthlyDue       decimal.Decimal          `json:"monthly_due"`
	TermLength       int                      `json:"term_length"`
	TermType         string                   `json:"term_type"`
	StartDate        time.Time                `json:"start_date"`
	DueDate          time.Time                `json:"due_date"`
	IsActive         bool                     `json:"isActive"`
	Progress         int                      `json:"progress"`
	NextDueDate      *time.Time               `json:"next_due_date,omitempty"`
	MonthlyPayments  []MonthlyPaymentResponse `json:"monthly_payments"`
	Transactions     []TransactionResponse    `json:"transactions"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// ToDebtResponse converts a domain debt to its wire form.
func ToDebtResponse(d *domain.Debt) DebtResponse {
	payments := make([]MonthlyPaymentResponse, len(d.MonthlyPayments))
	for i, p := range d.MonthlyPayments {
		payments[i] = MonthlyPaymentResponse{
			ID:      p.PaymentID,
			Amount:  p.Amount,
			Status:  string(p.Status),
			DueDate: p.DueDate,
		}
	}
	txns := make([]TransactionResponse, len(d.Transactions))
	for i, t := range d.Transactions {
		txns[i] = TransactionResponse{
			ID:          t.TransactionID,
			Amount:      t.Amount,
			Type:        string(t.Type),
			Bank:        t.Bank,
			Description: t.Notes,
			Date:        t.Date,
		}
	}

	resp := DebtResponse{
		ID:               d.DebtID,
		Bank:             d.Bank,
		Type:             string(d.Type),
		TotalDebt:        d.TotalDebt,
		RemainingBalance: d.RemainingBalance,
		TotalPaid:        d.TotalPaid,
		MonthlyDue:       d.MonthlyDue,
		TermLength:       d.TermLength,
		TermType:         string(d.TermType),
		StartDate:        d.StartDate,
		DueDate:          d.DueDate,
		IsActive:         d.IsActive,
		Progress:         utils.ProgressPercent(d.TotalDebt, d.TotalPaid),
		MonthlyPayments:  payments,
		Transactions:     txns,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if next, ok := schedule.NextDue(d.MonthlyPayments); ok {
		due := next.DueDate
		resp.NextDueDate = &due
	}
	return resp
}

// ToListDebtResponse converts a slice of domain debts.
func ToListDebtResponse(debts []domain.Debt) []DebtResponse {
	res := make([]DebtResponse, len(debts))
	for i := range debts {
		res[i] = ToDebtResponse(&debts[i])
	}
	return res
}
