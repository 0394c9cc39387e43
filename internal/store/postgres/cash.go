package postgres

import (
	"context"
	"fmt"
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

type cashRepo struct{ q querier }

const entryDate = "2006-01-02"

// LockDay takes a transaction-scoped advisory lock keyed on the branch and the
// local calendar day of the window.
func (r cashRepo) LockDay(ctx context.Context, branchID int, w core.DayWindow) error {
	if _, err := r.q.Exec(ctx, "SELECT pg_advisory_xact_lock($1::int, $2::int)", int32(branchID), dayNumber(w.Start)); err != nil {
		return fmt.Errorf("failed to lock cash day: %w", err)
	}
	return nil
}

// dayNumber counts days since 1970-01-01 for the calendar date of t.
func dayNumber(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Totals sums one branch's day. Bills are matched on their timestamp within
// the window; manual entries carry a calendar date matched against the
// window's local start date.
func (r cashRepo) Totals(ctx context.Context, branchID int, w core.DayWindow) (core.CashTotals, error) {
	out := core.CashTotals{PaymentsByMode: map[core.PaymentMode]decimal.Decimal{}}

	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM bills
		WHERE branch_id = $1 AND status = 'completed' AND bill_date >= $2 AND bill_date < $3
	`, branchID, w.Start, w.End).Scan(&out.BillCount)
	if err != nil {
		return out, fmt.Errorf("failed to count bills: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT p.payment_mode, COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN bills b ON b.id = p.bill_id
		WHERE b.branch_id = $1 AND b.status = 'completed' AND b.bill_date >= $2 AND b.bill_date < $3
		GROUP BY p.payment_mode
	`, branchID, w.Start, w.End)
	if err != nil {
		return out, fmt.Errorf("failed to sum payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mode core.PaymentMode
		var amount decimal.Decimal
		if err := rows.Scan(&mode, &amount); err != nil {
			return out, fmt.Errorf("failed to scan payment total: %w", err)
		}
		out.PaymentsByMode[mode] = amount
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to sum payments: %w", err)
	}
	out.CashPayments = out.PaymentsByMode[core.PaymentCash]

	day := w.Start.Format(entryDate)
	err = r.q.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM cash_sources  WHERE branch_id = $1 AND entry_date = $2::date),
			(SELECT COALESCE(SUM(amount), 0) FROM bank_deposits WHERE branch_id = $1 AND entry_date = $2::date),
			(SELECT COALESCE(SUM(amount), 0) FROM cash_expenses WHERE branch_id = $1 AND entry_date = $2::date)
	`, branchID, day).Scan(&out.CashSources, &out.BankDeposits, &out.CashExpenses)
	if err != nil {
		return out, fmt.Errorf("failed to sum cash entries: %w", err)
	}
	return out, nil
}

func (r cashRepo) AddSource(ctx context.Context, s *core.CashSource) error {
	var denominations any
	if len(s.Denominations) > 0 {
		denominations = s.Denominations
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO cash_sources (branch_id, entry_date, source_type, amount, notes, status, denominations, recorded_by, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, s.BranchID, s.Date.Format(entryDate), string(s.SourceType), s.Amount, s.Notes, string(s.Status),
		denominations, s.RecordedBy, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert cash source: %w", err)
	}
	return nil
}

func (r cashRepo) AddBankDeposit(ctx context.Context, d *core.BankDeposit) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO bank_deposits (branch_id, entry_date, amount, bank_name, reference, recorded_by, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING id
	`, d.BranchID, d.Date.Format(entryDate), d.Amount, d.BankName, d.Reference, d.RecordedBy, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to insert bank deposit: %w", err)
	}
	return nil
}

func (r cashRepo) AddExpense(ctx context.Context, e *core.CashExpense) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO cash_expenses (branch_id, entry_date, category, amount, notes, recorded_by, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.BranchID, e.Date.Format(entryDate), e.Category, e.Amount, e.Notes, e.RecordedBy, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert cash expense: %w", err)
	}
	return nil
}
