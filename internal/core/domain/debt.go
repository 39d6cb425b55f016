package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType distinguishes loans from revolving credit-card balances.
type DebtType string

const (
	DebtTypeLoan       DebtType = "loan"
	DebtTypeCreditCard DebtType = "credit_card"
)

// TermType is the unit of a debt's term length.
type TermType string

const (
	TermMonths TermType = "months"
	TermYears  TermType = "years"
)

// PaymentStatus is the stored state of a scheduled installment. The wire
// format tolerates free-form strings; anything other than "paid" is treated
// as pending by the classifier.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// TransactionType distinguishes scheduled payments from extra payments.
type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionExtra   TransactionType = "extra"
)

// MonthlyPayment is one scheduled installment within a debt's term.
type MonthlyPayment struct {
	PaymentID string          `json:"_id"`
	DebtID    string          `json:"-"`
	Sequence  int             `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PaymentStatus   `json:"status"`
	DueDate   time.Time       `json:"due_date"`
}

// Transaction is a recorded money movement against a debt, distinct from the
// schedule entries. Bank is denormalized so transaction lists render without
// a join.
type Transaction struct {
	TransactionID string          `json:"_id"`
	DebtID        string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Bank          string          `json:"bank"`
	Notes         string          `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
}

// Debt is a tracked loan or credit-card balance together with its payment
// schedule and transaction history.
//
// RemainingBalance = TotalDebt - TotalPaid is maintained by the debt service
// inside the same repository transaction as every payment mutation; readers
// treat the stored value as authoritative and never recompute it.
type Debt struct {
	DebtID           string          `json:"_id"`
	UserID           string          `json:"-"`
	Bank             string          `json:"bank"`
	Type             DebtType        `json:"type"`
	TotalDebt        decimal.Decimal `json:"totalDebt"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	MonthlyDue       decimal.Decimal `json:"monthly_due"`
	TermLength       int             `json:"term_length"`
	TermType         TermType        `json:"term_type"`
	StartDate        time.Time       `json:"start_date"`
	DueDate          time.Time       `json:"due_date"`
	IsActive         bool            `json:"isActive"`

	MonthlyPayments []MonthlyPayment `json:"monthly_payments"`
	Transactions    []Transaction    `json:"transactions"`

	AuditFields
}

// Backup is one uploaded snapshot of a user's local data. The payload is
// opaque to the server.
type Backup struct {
	BackupID    string    `json:"_id"`
	UserID      string    `json:"-"`
	IsAutomatic bool      `json:"isAutomatic"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     []byte    `json:"data"`
	CreatedAt   time.Time `json:"createdAt"`
}
