package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/payoff-app/payoff-backend/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

// notificationDateLayout matches the long-form dates the app shows in
// notification bodies ("January 2, 2006").
const notificationDateLayout = "January 2, 2006"

var twentyFive = decimal.NewFromInt(25)

// DeriveNotifications turns the user's debts into a flat, newest-first
// notification list. Pure: two calls with identical (debts, now) produce
// identical output. Read/selection flags are not engine outputs; every entry
// comes back unread.
//
// Malformed records never abort derivation. A debt with missing collections
// contributes nothing for them, and an installment the classifier cannot
// place is skipped.
func DeriveNotifications(debts []domain.Debt, now time.Time) domain.NotificationList {
	var all domain.NotificationList
	for i := range debts {
		all = append(all, deriveForDebt(&debts[i], now)...)
	}

	// Stable: generation order (debt order, then payments, transactions,
	// milestone) breaks timestamp ties deterministically.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}

func deriveForDebt(debt *domain.Debt, now time.Time) []domain.Notification {
	var out []domain.Notification

	for _, p := range debt.MonthlyPayments {
		if n, ok := paymentNotification(debt, p, now); ok {
			out = append(out, n)
		}
	}
	for _, t := range debt.Transactions {
		if n, ok := transactionNotification(debt, t, now); ok {
			out = append(out, n)
		}
	}
	if n, ok := progressNotification(debt, now); ok {
		out = append(out, n)
	}
	return out
}

// paymentNotification emits at most one entry per installment, with
// precedence paid-recently > overdue > due-soon.
func paymentNotification(debt *domain.Debt, p domain.MonthlyPayment, now time.Time) (domain.Notification, bool) {
	amount := utils.FormatPHP(p.Amount, true)

	switch schedule.Classify(now, p) {
	case schedule.StatusPaidRecently:
		return domain.Notification{
			ID:        p.PaymentID,
			Title:     fmt.Sprintf("Payment Completed - %s", debt.Bank),
			Message:   fmt.Sprintf("Monthly payment of %s for %s loan was successfully processed.", amount, debt.Bank),
			Timestamp: p.DueDate,
			Type:      domain.NotificationPayment,
		}, true
	case schedule.StatusOverdue:
		return domain.Notification{
			ID:        p.PaymentID,
			Title:     fmt.Sprintf("Overdue Payment - %s", debt.Bank),
			Message:   fmt.Sprintf("Your monthly payment of %s for %s loan is overdue. Due date was %s.", amount, debt.Bank, p.DueDate.Format(notificationDateLayout)),
			Timestamp: p.DueDate,
			Type:      domain.NotificationReminder,
		}, true
	case schedule.StatusDueSoon:
		return domain.Notification{
			ID:        p.PaymentID,
			Title:     fmt.Sprintf("Upcoming Payment - %s", debt.Bank),
			Message:   fmt.Sprintf("Your monthly payment of %s for %s loan is due on %s.", amount, debt.Bank, p.DueDate.Format(notificationDateLayout)),
			Timestamp: p.DueDate,
			Type:      domain.NotificationReminder,
		}, true
	}
	return domain.Notification{}, false
}

// transactionNotification covers money movements recorded within the
// trailing week.
func transactionNotification(debt *domain.Debt, t domain.Transaction, now time.Time) (domain.Notification, bool) {
	if t.Date.IsZero() || t.Date.After(now) || now.Sub(t.Date) > schedule.Window {
		return domain.Notification{}, false
	}
	return domain.Notification{
		ID:        "transaction-" + t.TransactionID,
		Title:     fmt.Sprintf("Payment Recorded - %s", debt.Bank),
		Message:   fmt.Sprintf("A payment of %s was recorded for your %s loan.", utils.FormatPHP(t.Amount, true), debt.Bank),
		Timestamp: t.Date,
		Type:      domain.NotificationPayment,
	}, true
}

// progressNotification emits the milestone entry when 25% or less of the
// balance remains, or the completion entry when the debt is fully paid.
// The two are mutually exclusive per debt.
func progressNotification(debt *domain.Debt, now time.Time) (domain.Notification, bool) {
	if debt.TotalDebt.Sign() <= 0 {
		return domain.Notification{}, false
	}
	remainingPct := debt.RemainingBalance.Div(debt.TotalDebt).Mul(decimal.NewFromInt(100))

	switch {
	case remainingPct.Sign() == 0:
		return domain.Notification{
			ID:        "completed-" + debt.DebtID,
			Title:     "Loan Paid Off!",
			Message:   fmt.Sprintf("Congratulations! You've successfully paid off your %s loan.", debt.Bank),
			Timestamp: now,
			Type:      domain.NotificationSystem,
		}, true
	case remainingPct.Sign() > 0 && remainingPct.LessThanOrEqual(twentyFive):
		return domain.Notification{
			ID:        "milestone-" + debt.DebtID,
			Title:     "Milestone Reached!",
			Message:   fmt.Sprintf("You've paid off 75%% of your %s loan! Keep up the great work!", debt.Bank),
			Timestamp: now,
			Type:      domain.NotificationSystem,
		}, true
	}
	return domain.Notification{}, false
}
