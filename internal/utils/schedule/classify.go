// Package schedule classifies scheduled debt installments against a point in
// time. All functions are pure; callers inject "now" so behavior around the
// due-soon and paid-recently windows is testable.
package schedule

import (
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// Status is the derived state of one installment relative to now.
type Status string

const (
	// StatusNone means the installment cannot be classified (unpaid with a
	// missing or zero due date). It never produces a notification.
	StatusNone Status = "none"
	// StatusPending is an unpaid installment not yet inside the due-soon
	// window.
	StatusPending Status = "pending"
	// StatusDueSoon is an unpaid installment due strictly within the next
	// week.
	StatusDueSoon Status = "due_soon"
	// StatusOverdue is an unpaid installment whose due date has passed.
	StatusOverdue Status = "overdue"
	// StatusPaid is a settled installment outside the recency window.
	StatusPaid Status = "paid"
	// StatusPaidRecently is a settled installment still inside the trailing
	// week of its due date.
	StatusPaidRecently Status = "paid_recently"
)

// Window is the span used for both "due soon" and "paid recently".
const Window = 7 * 24 * time.Hour

// Classify returns exactly one Status for a payment at the given instant.
//
// A paid installment is never overdue, regardless of date. Recency is
// measured against the installment's due date, not an actual payment
// timestamp; the backend does not record one per installment.
func Classify(now time.Time, p domain.MonthlyPayment) Status {
	if p.Status == domain.PaymentPaid {
		if !p.DueDate.IsZero() && now.Before(p.DueDate.Add(Window)) {
			return StatusPaidRecently
		}
		return StatusPaid
	}
	if p.DueDate.IsZero() {
		return StatusNone
	}
	if p.DueDate.Before(now) {
		return StatusOverdue
	}
	// Due soon is the open interval (now, now+Window): an installment due at
	// this exact instant is neither overdue nor due soon.
	if now.Before(p.DueDate) && p.DueDate.Before(now.Add(Window)) {
		return StatusDueSoon
	}
	return StatusPending
}

// NextDue returns the earliest unpaid installment with a usable due date.
// The second return is false when every installment is paid or unclassifiable.
func NextDue(payments []domain.MonthlyPayment) (domain.MonthlyPayment, bool) {
	var next domain.MonthlyPayment
	found := false
	for _, p := range payments {
		if p.Status == domain.PaymentPaid || p.DueDate.IsZero() {
			continue
		}
		if !found || p.DueDate.Before(next.DueDate) {
			next = p
			found = true
		}
	}
	return next, found
}

// CountByStatus tallies the schedule for summary views.
func CountByStatus(now time.Time, payments []domain.MonthlyPayment) map[Status]int {
	counts := make(map[Status]int, len(payments))
	for _, p := range payments {
		counts[Classify(now, p)]++
	}
	return counts
}
