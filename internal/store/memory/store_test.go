package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-billing/internal/core"
	"salon-billing/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := memory.New()
	store.AddProduct(core.Product{ID: 1, Name: "Shampoo", IsActive: true})
	store.AddLocation(core.Location{ID: 1, Name: "Main", IsActive: true})
	inv := store.PutInventory(core.Inventory{ProductID: 1, LocationID: 1, Quantity: 5})
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(r core.Repositories) error {
		require.NoError(t, r.Inventory().SetQuantity(ctx, inv.ID, 1))
		rows, err := r.Inventory().LockRows(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, rows[0].Quantity, "transaction sees its own write")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := store.Inventory().LockRows(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := memory.New()
	store.AddBranch(core.Branch{ID: 1, Code: "MAIN", Name: "Main"})
	ctx := context.Background()

	err := store.WithinTx(ctx, func(r core.Repositories) error {
		return r.Cash().AddExpense(ctx, &core.CashExpense{
			BranchID: 1, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(40),
		})
	})
	require.NoError(t, err)

	totals, err := store.Cash().Totals(ctx, 1, core.DayWindowFor(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), time.UTC))
	require.NoError(t, err)
	assert.True(t, totals.CashExpenses.Equal(decimal.NewFromInt(40)))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(core.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLockRows_EarliestExpiryFirst(t *testing.T) {
	store := memory.New()
	late := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store.PutInventory(core.Inventory{ProductID: 1, LocationID: 1, BatchNumber: "none", Quantity: 1})
	store.PutInventory(core.Inventory{ProductID: 1, LocationID: 1, BatchNumber: "late", Quantity: 1, ExpiryDate: &late})
	store.PutInventory(core.Inventory{ProductID: 1, LocationID: 1, BatchNumber: "early", Quantity: 1, ExpiryDate: &early})
	store.PutInventory(core.Inventory{ProductID: 2, LocationID: 1, BatchNumber: "other", Quantity: 1})

	rows, err := store.Inventory().LockRows(context.Background(), 1, 1)
	require.NoError(t, err)
	var batches []string
	for _, r := range rows {
		batches = append(batches, r.BatchNumber)
	}
	assert.Equal(t, []string{"early", "late", "none"}, batches)
}

func TestSequences_SeedFromIssuedNumbers(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Bills().Create(ctx, &core.Bill{BillNumber: "MAIN-2026-000041", Status: core.BillCompleted}))
	require.NoError(t, store.Bills().Create(ctx, &core.Bill{BillNumber: "MAIN-2025-000099", Status: core.BillCompleted}))

	n, err := store.Sequences().Next(ctx, core.SequenceBill, "MAIN-2026")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = store.Sequences().Next(ctx, core.SequenceBill, "MAIN-2026")
	require.NoError(t, err)
	assert.Equal(t, int64(43), n)

	n, err = store.Sequences().Next(ctx, core.SequenceTransfer, "TRF-202603")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBills_ListSearchAndPaging(t *testing.T) {
	store := memory.New()
	store.AddCustomer(core.Customer{ID: 1, Name: "Asha Rao", Phone: "9800000001"})
	store.AddCustomer(core.Customer{ID: 2, Name: "Vikram", Phone: "9800000002"})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		customer := 1 + i%2
		require.NoError(t, store.Bills().Create(ctx, &core.Bill{
			BillNumber: core.FormatBillNumber("MAIN-2026", int64(i+1)),
			BranchID:   1,
			CustomerID: customer,
			BillDate:   base.Add(time.Duration(i) * time.Hour),
			Status:     core.BillCompleted,
		}))
	}

	bills, total, err := store.Bills().List(ctx, core.BillFilter{Search: "asha", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, bills, 2)
	assert.Equal(t, "MAIN-2026-000005", bills[0].BillNumber, "newest first")
	assert.Equal(t, "Asha Rao", bills[0].CustomerName)

	bills, _, err = store.Bills().List(ctx, core.BillFilter{Search: "asha", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "MAIN-2026-000001", bills[0].BillNumber)

	bills, total, err = store.Bills().List(ctx, core.BillFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, bills)
}

func TestReports_LegacyEmployeeFallback(t *testing.T) {
	store := memory.New()
	store.AddEmployee(core.Employee{ID: 7, Name: "Priya"})
	store.AddService(core.Service{ID: 1, Name: "Haircut", Category: "Hair", StarPoints: decimal.NewFromInt(2)})
	ctx := context.Background()

	svc, emp := 1, 7
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Bills().Create(ctx, &core.Bill{
		BillNumber: "MAIN-2026-000001",
		BillDate:   date,
		Status:     core.BillCompleted,
		Items: []core.BillItem{
			{ItemType: core.ItemService, ServiceID: &svc, EmployeeID: &emp, Quantity: 1, TotalPrice: decimal.NewFromInt(500)},
			{ItemType: core.ItemService, ServiceID: &svc, Quantity: 1, TotalPrice: decimal.NewFromInt(500)},
		},
	}))

	rows, err := store.Reports().AttributionRows(ctx, core.ReportFilter{Start: date.Add(-time.Hour), End: date.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, rows, 1, "item with no employee at all is not credited")
	assert.True(t, rows[0].Legacy)
	assert.Equal(t, 1, rows[0].Assignees)
	assert.Equal(t, "Priya", rows[0].EmployeeName)
	assert.Equal(t, "Hair", rows[0].Category)
	assert.True(t, rows[0].StarsPerUnit.Equal(decimal.NewFromInt(2)))
}
