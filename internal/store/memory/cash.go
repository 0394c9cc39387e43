package memory

import (
	"context"
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

type cashRepo struct{ repos }

func within(t time.Time, w core.DayWindow) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LockDay is a no-op: WithinTx already serializes transactions.
func (cashRepo) LockDay(context.Context, int, core.DayWindow) error { return nil }

func (r cashRepo) Totals(_ context.Context, branchID int, w core.DayWindow) (core.CashTotals, error) {
	st, done := r.begin()
	defer done()

	out := core.CashTotals{PaymentsByMode: map[core.PaymentMode]decimal.Decimal{}}
	bills := make(map[int]bool)
	for _, b := range st.bills {
		if b.BranchID == branchID && b.Status == core.BillCompleted && within(b.BillDate, w) {
			bills[b.ID] = true
			out.BillCount++
		}
	}
	for _, p := range st.payments {
		if !bills[p.BillID] {
			continue
		}
		out.PaymentsByMode[p.PaymentMode] = out.PaymentsByMode[p.PaymentMode].Add(p.Amount)
		if p.PaymentMode == core.PaymentCash {
			out.CashPayments = out.CashPayments.Add(p.Amount)
		}
	}
	for _, s := range st.cashSources {
		if s.BranchID == branchID && within(s.Date, w) {
			out.CashSources = out.CashSources.Add(s.Amount)
		}
	}
	for _, d := range st.deposits {
		if d.BranchID == branchID && within(d.Date, w) {
			out.BankDeposits = out.BankDeposits.Add(d.Amount)
		}
	}
	for _, e := range st.expenses {
		if e.BranchID == branchID && within(e.Date, w) {
			out.CashExpenses = out.CashExpenses.Add(e.Amount)
		}
	}
	return out, nil
}

func (r cashRepo) AddSource(_ context.Context, s *core.CashSource) error {
	st, done := r.begin()
	defer done()
	s.ID = st.nextID("cash_sources")
	st.cashSources = append(st.cashSources, *s)
	return nil
}

func (r cashRepo) AddBankDeposit(_ context.Context, d *core.BankDeposit) error {
	st, done := r.begin()
	defer done()
	d.ID = st.nextID("bank_deposits")
	st.deposits = append(st.deposits, *d)
	return nil
}

func (r cashRepo) AddExpense(_ context.Context, e *core.CashExpense) error {
	st, done := r.begin()
	defer done()
	e.ID = st.nextID("cash_expenses")
	st.expenses = append(st.expenses, *e)
	return nil
}
