package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
)

// PgxDebtRepository persists debt aggregates (debt row, installment schedule,
// transaction history) in PostgreSQL. Multi-row mutations run inside a single
// pgx transaction.
type PgxDebtRepository struct {
	pool *pgxpool.Pool
}

func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepository {
	return &PgxDebtRepository{pool: pool}
}

var _ portsrepo.DebtRepository = (*PgxDebtRepository)(nil)

const debtColumns = `debt_id, user_id, bank, debt_type, total_debt, remaining_balance, total_paid, monthly_due, term_length, term_type, start_date, due_date, is_active, created_at, updated_at`

const insertPaymentQuery = `
	INSERT INTO monthly_payments (payment_id, debt_id, sequence, amount, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6);
`

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, debt_id, amount, txn_type, bank, notes, txn_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

const updateDebtTotalsQuery = `
	UPDATE debts
	SET remaining_balance = $2, total_paid = $3, is_active = $4, updated_at = $5
	WHERE debt_id = $1;
`

func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO debts (debt_id, user_id, bank, debt_type, total_debt, remaining_balance, total_paid, monthly_due, term_length, term_type, start_date, due_date, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		_, err := tx.Exec(ctx, query,
			debt.DebtID,
			debt.UserID,
			debt.Bank,
			string(debt.Type),
			debt.TotalDebt,
			debt.RemainingBalance,
			debt.TotalPaid,
			debt.MonthlyDue,
			debt.TermLength,
			string(debt.TermType),
			debt.StartDate,
			debt.DueDate,
			debt.IsActive,
			debt.CreatedAt,
			debt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt %s: %w", debt.DebtID, err)
		}
		return insertPayments(ctx, tx, debt.MonthlyPayments)
	})
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1;`
	debt, err := scanDebt(r.pool.QueryRow(ctx, query, debtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
		}
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	if err := r.loadChildren(ctx, []*domain.Debt{debt}); err != nil {
		return nil, err
	}
	return debt, nil
}

func (r *PgxDebtRepository) ListDebtsByUser(ctx context.Context, userID string) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1 ORDER BY created_at ASC;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var debts []*domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt rows: %w", err)
	}

	if err := r.loadChildren(ctx, debts); err != nil {
		return nil, err
	}
	result := make([]domain.Debt, len(debts))
	for i, d := range debts {
		result[i] = *d
	}
	return result, nil
}

func (r *PgxDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE debts
			SET bank = $2, debt_type = $3, total_debt = $4, remaining_balance = $5, total_paid = $6,
			    monthly_due = $7, term_length = $8, term_type = $9, start_date = $10, due_date = $11,
			    is_active = $12, updated_at = $13
			WHERE debt_id = $1;
		`
		tag, err := tx.Exec(ctx, query,
			debt.DebtID,
			debt.Bank,
			string(debt.Type),
			debt.TotalDebt,
			debt.RemainingBalance,
			debt.TotalPaid,
			debt.MonthlyDue,
			debt.TermLength,
			string(debt.TermType),
			debt.StartDate,
			debt.DueDate,
			debt.IsActive,
			debt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update debt %s: %w", debt.DebtID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debt.DebtID)
		}

		// Paid installments are immutable history; only the pending tail is
		// replaced by the regenerated schedule.
		_, err = tx.Exec(ctx, `DELETE FROM monthly_payments WHERE debt_id = $1 AND status <> 'paid';`, debt.DebtID)
		if err != nil {
			return fmt.Errorf("failed to clear pending installments for debt %s: %w", debt.DebtID, err)
		}
		pending := make([]domain.MonthlyPayment, 0, len(debt.MonthlyPayments))
		for _, p := range debt.MonthlyPayments {
			if p.Status != domain.PaymentPaid {
				pending = append(pending, p)
			}
		}
		return insertPayments(ctx, tx, pending)
	})
}

func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM debts WHERE debt_id = $1;`, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debtID)
	}
	return nil
}

func (r *PgxDebtRepository) RecordPayment(ctx context.Context, debt domain.Debt, payment domain.MonthlyPayment, txn domain.Transaction) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE monthly_payments SET status = $2 WHERE payment_id = $1;`,
			payment.PaymentID, string(payment.Status))
		if err != nil {
			return fmt.Errorf("failed to mark installment %s paid: %w", payment.PaymentID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, payment.PaymentID)
		}
		if err := insertTransaction(ctx, tx, txn); err != nil {
			return err
		}
		return updateTotals(ctx, tx, debt)
	})
}

func (r *PgxDebtRepository) SaveTransaction(ctx context.Context, debt domain.Debt, txn domain.Transaction) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertTransaction(ctx, tx, txn); err != nil {
			return err
		}
		return updateTotals(ctx, tx, debt)
	})
}

func (r *PgxDebtRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadChildren fills payments and transactions for the given debts with one
// query per table.
func (r *PgxDebtRepository) loadChildren(ctx context.Context, debts []*domain.Debt) error {
	if len(debts) == 0 {
		return nil
	}
	ids := make([]string, len(debts))
	byID := make(map[string]*domain.Debt, len(debts))
	for i, d := range debts {
		ids[i] = d.DebtID
		byID[d.DebtID] = d
	}

	paymentQuery := `
		SELECT payment_id, debt_id, sequence, amount, status, due_date
		FROM monthly_payments
		WHERE debt_id = ANY($1)
		ORDER BY debt_id, sequence ASC;
	`
	rows, err := r.pool.Query(ctx, paymentQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to load installments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.MonthlyPayment
		var status string
		if err := rows.Scan(&p.PaymentID, &p.DebtID, &p.Sequence, &p.Amount, &status, &p.DueDate); err != nil {
			return fmt.Errorf("failed to scan installment row: %w", err)
		}
		p.Status = domain.PaymentStatus(status)
		byID[p.DebtID].MonthlyPayments = append(byID[p.DebtID].MonthlyPayments, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate installment rows: %w", err)
	}

	txnQuery := `
		SELECT transaction_id, debt_id, amount, txn_type, bank, notes, txn_date
		FROM transactions
		WHERE debt_id = ANY($1)
		ORDER BY debt_id, txn_date ASC, transaction_id ASC;
	`
	txnRows, err := r.pool.Query(ctx, txnQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	defer txnRows.Close()
	for txnRows.Next() {
		var t domain.Transaction
		var txnType string
		var notes sql.NullString
		if err := txnRows.Scan(&t.TransactionID, &t.DebtID, &t.Amount, &txnType, &t.Bank, &notes, &t.Date); err != nil {
			return fmt.Errorf("failed to scan transaction row: %w", err)
		}
		t.Type = domain.TransactionType(txnType)
		t.Notes = notes.String
		byID[t.DebtID].Transactions = append(byID[t.DebtID].Transactions, t)
	}
	if err := txnRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return nil
}

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var debt domain.Debt
	var debtType, termType string
	err := row.Scan(
		&debt.DebtID,
		&debt.UserID,
		&debt.Bank,
		&debtType,
		&debt.TotalDebt,
		&debt.RemainingBalance,
		&debt.TotalPaid,
		&debt.MonthlyDue,
		&debt.TermLength,
		&termType,
		&debt.StartDate,
		&debt.DueDate,
		&debt.IsActive,
		&debt.CreatedAt,
		&debt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	debt.Type = domain.DebtType(debtType)
	debt.TermType = domain.TermType(termType)
	return &debt, nil
}

func insertPayments(ctx context.Context, tx pgx.Tx, payments []domain.MonthlyPayment) error {
	for _, p := range payments {
		_, err := tx.Exec(ctx, insertPaymentQuery,
			p.PaymentID, p.DebtID, p.Sequence, p.Amount, string(p.Status), p.DueDate)
		if err != nil {
			return fmt.Errorf("failed to insert installment %s: %w", p.PaymentID, err)
		}
	}
	return nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	_, err := tx.Exec(ctx, insertTransactionQuery,
		txn.TransactionID, txn.DebtID, txn.Amount, string(txn.Type),
		txn.Bank, nullString(txn.Notes), txn.Date)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func updateTotals(ctx context.Context, tx pgx.Tx, debt domain.Debt) error {
	tag, err := tx.Exec(ctx, updateDebtTotalsQuery,
		debt.DebtID, debt.RemainingBalance, debt.TotalPaid, debt.IsActive, debt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update totals for debt %s: %w", debt.DebtID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: debt %s", apperrors.ErrNotFound, debt.DebtID)
	}
	return nil
}
