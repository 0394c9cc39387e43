package core_test

import (
	"context"
	"testing"
	"time"

	"salon-billing/internal/core"
	"salon-billing/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDrawer books 1000 cash sales, a 200 opening balance, a 300 bank deposit
// and a 100 expense on fixedNow's day.
func seedDrawer(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	cash := f.cash()

	_, err := f.bills().CreateBill(ctx, serviceBill(facial, "1000", priya))
	require.NoError(t, err)
	// Card sales never reach the drawer.
	_, err = f.bills().CreateBill(ctx, productBill(shampoo, 2, "50"))
	require.NoError(t, err)

	_, err = cash.RecordCashSource(ctx, core.CashSourceInput{
		BranchID: mainBranch, Date: fixedNow, SourceType: core.CashOpeningBalance, Amount: dec("200"), Actor: admin,
	})
	require.NoError(t, err)
	_, err = cash.RecordBankDeposit(ctx, core.BankDepositInput{
		BranchID: mainBranch, Date: fixedNow, Amount: dec("300"), BankName: "HDFC", Reference: "DEP-1", Actor: admin,
	})
	require.NoError(t, err)
	_, err = cash.RecordCashExpense(ctx, core.CashExpenseInput{
		BranchID: mainBranch, Date: fixedNow, Category: "supplies", Amount: dec("100"), Actor: admin,
	})
	require.NoError(t, err)
}

func TestCashService_DailySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedDrawer(t, f)

	summary, err := f.cash().GetDailyCashSummary(ctx, mainBranch, fixedNow)
	require.NoError(t, err)
	assert.True(t, summary.CashPaymentsTotal.Equal(dec("1000")))
	assert.True(t, summary.CashSourcesTotal.Equal(dec("200")))
	assert.True(t, summary.BankDepositsTotal.Equal(dec("300")))
	assert.True(t, summary.CashExpensesTotal.Equal(dec("100")))
	assert.True(t, summary.ExpectedCash.Equal(dec("800")), "expected 800, got %s", summary.ExpectedCash)
	assert.Equal(t, 2, summary.BillCount)
	assert.True(t, summary.PaymentsByMode[core.PaymentCard].Equal(dec("100")))
	assert.True(t, summary.PaymentsByMode[core.PaymentUPI].IsZero())
	assert.Len(t, summary.PaymentsByMode, len(core.PaymentModes))

	// The next day starts from nothing.
	next, err := f.cash().GetDailyCashSummary(ctx, mainBranch, fixedNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, next.ExpectedCash.IsZero())

	// Other branches are separate drawers.
	other, err := f.cash().GetDailyCashSummary(ctx, uptownBranch, fixedNow)
	require.NoError(t, err)
	assert.True(t, other.ExpectedCash.IsZero())

	_, err = f.cash().GetDailyCashSummary(ctx, 99, fixedNow)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestCashService_CancelledBillsLeaveTheDrawer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bill, err := f.bills().CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)
	require.NoError(t, f.bills().CancelBill(ctx, bill.ID, admin))

	summary, err := f.cash().GetDailyCashSummary(ctx, mainBranch, fixedNow)
	require.NoError(t, err)
	assert.True(t, summary.CashPaymentsTotal.IsZero())
	assert.Zero(t, summary.BillCount)
}

func TestCashService_RecordCashCount(t *testing.T) {
	tests := []struct {
		name       string
		actual     string
		status     core.ReconciliationStatus
		sourceType core.CashSourceType
		difference string
	}{
		{"balanced", "800", core.CashBalanced, "", "0"},
		{"within tolerance", "800.01", core.CashBalanced, "", "0.01"},
		{"surplus", "850", core.CashSurplus, core.CashOther, "50"},
		{"shortage", "770", core.CashShortage, core.CashCounter, "-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			seedDrawer(t, f)

			res, err := f.cash().RecordCashCount(ctx, core.CashCountInput{
				BranchID: mainBranch, Date: fixedNow, ActualCash: dec(tt.actual), Notes: "close", Actor: admin,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Difference.Equal(dec(tt.difference)), "difference %s", res.Difference)
			assert.True(t, res.Summary.ExpectedCash.Equal(dec("800")))

			after, err := f.cash().GetDailyCashSummary(ctx, mainBranch, fixedNow)
			require.NoError(t, err)
			if tt.status == core.CashBalanced {
				assert.Nil(t, res.Record)
				assert.True(t, after.ExpectedCash.Equal(dec("800")))
				return
			}
			require.NotNil(t, res.Record)
			assert.Equal(t, tt.sourceType, res.Record.SourceType)
			assert.Equal(t, tt.status, res.Record.Status)
			assert.True(t, res.Record.Amount.Equal(dec(tt.difference)))
			assert.True(t, after.ExpectedCash.Equal(dec(tt.actual)), "a recorded discrepancy reconciles the drawer, got %s", after.ExpectedCash)
		})
	}
}

func TestCashService_RecordCashCount_Denominations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedDrawer(t, f)

	res, err := f.cash().RecordCashCount(ctx, core.CashCountInput{
		BranchID: mainBranch, Date: fixedNow, ActualCash: dec("800"),
		Denominations: map[string]int{"500": 1, "100": 3},
		Actor:         admin,
	})
	require.NoError(t, err)
	assert.Equal(t, core.CashBalanced, res.Status)

	_, err = f.cash().RecordCashCount(ctx, core.CashCountInput{
		BranchID: mainBranch, Date: fixedNow, ActualCash: dec("800"),
		Denominations: map[string]int{"500": 1},
		Actor:         admin,
	})
	assert.True(t, core.IsKind(err, core.KindValidation), "got %v", err)

	_, err = f.cash().RecordCashCount(ctx, core.CashCountInput{
		BranchID: mainBranch, Date: fixedNow, ActualCash: dec("-1"), Actor: admin,
	})
	assert.True(t, core.IsKind(err, core.KindValidation), "got %v", err)
}

func TestCashService_RecordMovementsValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cash := f.cash()

	_, err := cash.RecordCashSource(ctx, core.CashSourceInput{BranchID: mainBranch, Date: fixedNow, SourceType: "gift", Amount: dec("10")})
	assert.True(t, core.IsKind(err, core.KindValidation))
	_, err = cash.RecordCashSource(ctx, core.CashSourceInput{BranchID: mainBranch, Date: fixedNow, SourceType: core.CashOwnerDeposit, Amount: dec("0")})
	assert.True(t, core.IsKind(err, core.KindValidation))
	_, err = cash.RecordBankDeposit(ctx, core.BankDepositInput{BranchID: mainBranch, Date: fixedNow, Amount: dec("-5")})
	assert.True(t, core.IsKind(err, core.KindValidation))
	_, err = cash.RecordCashExpense(ctx, core.CashExpenseInput{BranchID: mainBranch, Date: fixedNow, Amount: dec("5")})
	assert.True(t, core.IsKind(err, core.KindValidation), "category is required")
	_, err = cash.RecordCashExpense(ctx, core.CashExpenseInput{BranchID: 99, Date: fixedNow, Category: "tea", Amount: dec("5")})
	assert.True(t, core.IsKind(err, core.KindNotFound))

	src, err := cash.RecordCashSource(ctx, core.CashSourceInput{
		BranchID: mainBranch, Date: fixedNow.Add(9 * time.Hour), SourceType: core.CashOwnerDeposit, Amount: dec("75"), Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), src.Date, "entries are dated by local day")
	assert.Equal(t, admin.UserID, src.RecordedBy)
}

// recordingStore notes the order of cash repository calls made inside transactions.
type recordingStore struct {
	*memory.Store
	calls []string
}

type recordingRepos struct {
	core.Repositories
	s *recordingStore
}

type recordingCash struct {
	core.CashRepository
	s *recordingStore
}

func (s *recordingStore) WithinTx(ctx context.Context, fn func(core.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(r core.Repositories) error {
		return fn(recordingRepos{r, s})
	})
}

func (r recordingRepos) Cash() core.CashRepository {
	return recordingCash{r.Repositories.Cash(), r.s}
}

func (c recordingCash) LockDay(ctx context.Context, branchID int, w core.DayWindow) error {
	c.s.calls = append(c.s.calls, "lock "+w.Start.Format("2006-01-02"))
	return c.CashRepository.LockDay(ctx, branchID, w)
}

func (c recordingCash) Totals(ctx context.Context, branchID int, w core.DayWindow) (core.CashTotals, error) {
	c.s.calls = append(c.s.calls, "totals")
	return c.CashRepository.Totals(ctx, branchID, w)
}

func TestCashService_RecordCashCount_LocksDayBeforeReading(t *testing.T) {
	f := newFixture(t)
	seedDrawer(t, f)
	ctx := context.Background()
	store := &recordingStore{Store: f.store}
	cash := core.NewCashService(store, f.opts)

	first, err := cash.RecordCashCount(ctx, core.CashCountInput{
		BranchID: mainBranch, Date: fixedNow, ActualCash: dec("780"), Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, core.CashShortage, first.Status)
	assert.Equal(t, []string{"lock 2026-03-15", "totals"}, store.calls)

	// A repeated count sees the first correction and records nothing.
	second, err := cash.RecordCashCount(ctx, core.CashCountInput{
		BranchID: mainBranch, Date: fixedNow, ActualCash: dec("780"), Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, core.CashBalanced, second.Status)
	assert.Nil(t, second.Record)
	assert.True(t, second.Summary.ExpectedCash.Equal(dec("780")), "expected %s", second.Summary.ExpectedCash)
}
