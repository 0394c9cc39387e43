package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillService_CreateBill_TotalsAndPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	// 2 × 300 with a bill discount of 50 → subtotal 600, total 550.
	in := core.CreateBillInput{
		CustomerID: activeCust,
		BranchID:   mainBranch,
		Items: []core.BillItemInput{{
			ItemType:    core.ItemService,
			ServiceID:   ptr(haircut),
			EmployeeIDs: []int{priya},
			Quantity:    2,
			UnitPrice:   dec("300"),
		}},
		DiscountAmount: dec("50"),
		Payments:       []core.PaymentInput{{PaymentMode: core.PaymentCash, Amount: dec("550")}},
		Actor:          admin,
	}

	bill, err := svc.CreateBill(ctx, in)
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if !bill.Subtotal.Equal(dec("600")) {
		t.Errorf("expected subtotal 600, got %s", bill.Subtotal)
	}
	if !bill.TotalAmount.Equal(dec("550")) {
		t.Errorf("expected total 550, got %s", bill.TotalAmount)
	}
	if bill.Status != core.BillCompleted {
		t.Errorf("expected status completed, got %s", bill.Status)
	}
	if bill.BillNumber != "MAIN-2026-000001" {
		t.Errorf("expected bill number MAIN-2026-000001, got %s", bill.BillNumber)
	}
	if len(bill.Items) != 1 || bill.Items[0].ItemName != "Haircut" || !bill.Items[0].TotalPrice.Equal(dec("600")) {
		t.Fatalf("unexpected items: %+v", bill.Items)
	}
	if bill.Items[0].Status != core.ItemPending {
		t.Errorf("new items should be pending, got %s", bill.Items[0].Status)
	}
	if len(bill.Payments) != 1 || bill.Payments[0].PaymentMode != core.PaymentCash {
		t.Errorf("unexpected payments: %+v", bill.Payments)
	}
	if bill.CustomerName != "Asha Rao" || bill.BranchName != "Main Branch" {
		t.Errorf("expected joined names, got customer=%q branch=%q", bill.CustomerName, bill.BranchName)
	}

	cust, _ := f.store.Catalog().GetCustomer(ctx, activeCust)
	if cust.TotalVisits != 1 || !cust.TotalSpent.Equal(dec("550")) {
		t.Errorf("expected customer counters 1/550, got %d/%s", cust.TotalVisits, cust.TotalSpent)
	}
}

func TestBillService_CreateBill_PaymentMismatchWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	in := serviceBill(haircut, "550", priya)
	in.Payments = []core.PaymentInput{{PaymentMode: core.PaymentCash, Amount: dec("500")}}

	_, err := svc.CreateBill(ctx, in)
	if !core.IsKind(err, core.KindPaymentMismatch) {
		t.Fatalf("expected PAYMENT_MISMATCH, got %v", err)
	}

	page, err := svc.GetBills(ctx, core.BillFilter{Scope: admin})
	require.NoError(t, err)
	if page.Total != 0 {
		t.Errorf("expected no bills after a rejected payment, got %d", page.Total)
	}
	cust, _ := f.store.Catalog().GetCustomer(ctx, activeCust)
	if cust.TotalVisits != 0 {
		t.Errorf("customer counters changed on a failed bill: %d visits", cust.TotalVisits)
	}

	// The failed attempt must not burn a bill number.
	bill, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)
	assert.Equal(t, "MAIN-2026-000001", bill.BillNumber)
}

func TestBillService_CreateBill_SplitsAcrossEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bill, err := f.bills().CreateBill(ctx, serviceBill(facial, "1000", priya, kiran, priya))
	require.NoError(t, err)

	item := bill.Items[0]
	require.Len(t, item.Employees, 2, "duplicate assignees are recorded once")
	assert.Equal(t, priya, item.Employees[0].EmployeeID)
	assert.Equal(t, "Priya", item.Employees[0].EmployeeName)
	assert.Equal(t, kiran, item.Employees[1].EmployeeID)
	require.NotNil(t, item.EmployeeID)
	assert.Equal(t, priya, *item.EmployeeID, "first assignee fills the single employee field")

	report, err := f.reporting().GetEmployeePerformance(ctx, core.PerformanceQuery{Period: core.PeriodToday, Actor: admin})
	require.NoError(t, err)
	require.Len(t, report.Employees, 2)
	for _, p := range report.Employees {
		assert.True(t, p.RevenueGenerated.Equal(dec("500")), "%s got %s", p.EmployeeName, p.RevenueGenerated)
		assert.True(t, p.TotalStars.Equal(dec("2.5")), "%s got %s stars", p.EmployeeName, p.TotalStars)
	}
}

func TestBillService_CreateBill_SequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	for i := 1; i <= 3; i++ {
		bill, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("MAIN-2026-%06d", i), bill.BillNumber)
	}

	// The counter restarts with the calendar year.
	*f.clock = time.Date(2027, 1, 2, 9, 0, 0, 0, time.UTC)
	bill, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)
	assert.Equal(t, "MAIN-2027-000001", bill.BillNumber)
}

func TestBillService_CreateBill_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	tests := []struct {
		name   string
		mutate func(in *core.CreateBillInput)
		kind   core.ErrorKind
	}{
		{"inactive customer", func(in *core.CreateBillInput) { in.CustomerID = inactiveCust }, core.KindBusinessRule},
		{"unknown customer", func(in *core.CreateBillInput) { in.CustomerID = 99 }, core.KindNotFound},
		{"unknown branch", func(in *core.CreateBillInput) { in.BranchID = 99 }, core.KindNotFound},
		{"no items", func(in *core.CreateBillInput) { in.Items = nil }, core.KindValidation},
		{"unknown service", func(in *core.CreateBillInput) { in.Items[0].ServiceID = ptr(99) }, core.KindNotFound},
		{"unknown employee", func(in *core.CreateBillInput) { in.Items[0].EmployeeIDs = []int{99} }, core.KindNotFound},
		{"zero quantity", func(in *core.CreateBillInput) { in.Items[0].Quantity = 0 }, core.KindValidation},
		{"service item with product id", func(in *core.CreateBillInput) { in.Items[0].ProductID = ptr(shampoo) }, core.KindValidation},
		{"unknown item type", func(in *core.CreateBillInput) { in.Items[0].ItemType = "voucher" }, core.KindValidation},
		{"unknown payment mode", func(in *core.CreateBillInput) { in.Payments[0].PaymentMode = "cheque" }, core.KindValidation},
		{"discount above line", func(in *core.CreateBillInput) { in.Items[0].DiscountAmount = ptr(dec("600")) }, core.KindValidation},
		{"percentage above 100", func(in *core.CreateBillInput) { in.Items[0].DiscountPercentage = ptr(dec("120")) }, core.KindValidation},
		{"negative total", func(in *core.CreateBillInput) { in.DiscountAmount = dec("900") }, core.KindBusinessRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := serviceBill(haircut, "500", priya)
			tt.mutate(&in)
			_, err := svc.CreateBill(ctx, in)
			if !core.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestBillService_CreateBill_DiscountPercentage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := serviceBill(facial, "1200", priya)
	in.Items[0].DiscountPercentage = ptr(dec("12.5"))
	in.Payments[0].Amount = dec("1050")

	bill, err := f.bills().CreateBill(ctx, in)
	require.NoError(t, err)
	assert.True(t, bill.Items[0].DiscountAmount.Equal(dec("150")))
	assert.True(t, bill.DiscountAmount.Equal(dec("150")))
	assert.True(t, bill.TotalAmount.Equal(dec("1050")))
}

func TestBillService_CreateBill_TaxAndPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := core.CreateBillInput{
		CustomerID: activeCust,
		BranchID:   mainBranch,
		Items: []core.BillItemInput{{
			ItemType:    core.ItemPackage,
			PackageID:   ptr(bridalPackage),
			EmployeeIDs: []int{kiran},
			Quantity:    1,
			UnitPrice:   dec("5000"),
		}},
		TaxAmount: dec("900"),
		Payments: []core.PaymentInput{
			{PaymentMode: core.PaymentUPI, Amount: dec("3900"), TransactionReference: "UPI-77"},
			{PaymentMode: core.PaymentCash, Amount: dec("2000")},
		},
		Actor: admin,
	}
	bill, err := f.bills().CreateBill(ctx, in)
	require.NoError(t, err)
	assert.True(t, bill.TotalAmount.Equal(dec("5900")))
	assert.Equal(t, "Bridal", bill.Items[0].ItemName)
	assert.Len(t, bill.Payments, 2)
}

func TestBillService_CreateBill_ProductSaleDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bill, err := f.bills().CreateBill(ctx, productBill(shampoo, 3, "50"))
	require.NoError(t, err)

	levels, err := f.inventory().GetStockLevels(ctx, ptr(mainStore))
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 7, levels[0].Quantity)

	txns, err := f.inventory().ListTransactions(ctx, core.TransactionFilter{ProductID: ptr(shampoo)})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, core.TxnSale, txns[0].Type)
	assert.Equal(t, -3, txns[0].Quantity)
	assert.Equal(t, core.RefBill, txns[0].ReferenceType)
	assert.Equal(t, bill.ID, *txns[0].ReferenceID)
}

func TestBillService_CreateBill_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bills().CreateBill(ctx, productBill(shampoo, 11, "50"))
	require.True(t, core.IsKind(err, core.KindInsufficientStock), "got %v", err)

	levels, _ := f.inventory().GetStockLevels(ctx, ptr(mainStore))
	assert.Equal(t, 10, levels[0].Quantity)
	page, _ := f.bills().GetBills(ctx, core.BillFilter{Scope: admin})
	assert.Zero(t, page.Total)
}

func TestBillService_CreateBill_MissingStockRow(t *testing.T) {
	t.Run("lenient mode skips the decrement", func(t *testing.T) {
		f := newFixture(t)
		bill, err := f.bills().CreateBill(context.Background(), productBill(conditioner, 1, "80"))
		require.NoError(t, err)
		assert.Equal(t, core.BillCompleted, bill.Status)

		txns, _ := f.inventory().ListTransactions(context.Background(), core.TransactionFilter{ProductID: ptr(conditioner)})
		assert.Empty(t, txns)
	})

	t.Run("strict mode fails the bill", func(t *testing.T) {
		f := newFixture(t)
		f.opts.StrictStock = true
		_, err := f.bills().CreateBill(context.Background(), productBill(conditioner, 1, "80"))
		assert.True(t, core.IsKind(err, core.KindInsufficientStock), "got %v", err)
	})
}

func TestBillService_CreateBill_ImportedSkipsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := productBill(shampoo, 4, "50")
	in.Imported = true
	in.BillDate = ptr(time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC))

	bill, err := f.bills().CreateBill(ctx, in)
	require.NoError(t, err)
	assert.True(t, bill.Imported)
	assert.Equal(t, "MAIN-2025-000001", bill.BillNumber, "imported bills are numbered in their own year")

	levels, _ := f.inventory().GetStockLevels(ctx, ptr(mainStore))
	assert.Equal(t, 10, levels[0].Quantity)
}

func TestBillService_GetBill_BranchScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	in := serviceBill(haircut, "500", meena)
	in.BranchID = uptownBranch
	uptown, err := svc.CreateBill(ctx, in)
	require.NoError(t, err)
	main, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)

	_, err = svc.GetBill(ctx, uptown.ID, cashier)
	assert.True(t, core.IsKind(err, core.KindNotFound), "cashier must not see another branch's bill")

	got, err := svc.GetBill(ctx, main.ID, cashier)
	require.NoError(t, err)
	assert.Equal(t, main.BillNumber, got.BillNumber)

	page, err := svc.GetBills(ctx, core.BillFilter{BranchID: ptr(uptownBranch), Scope: cashier})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total, "requested branch is ignored for non-admins")
	assert.Equal(t, main.ID, page.Bills[0].ID)

	_, err = svc.GetBill(ctx, 999, admin)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestBillService_GetBills_Paging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
		require.NoError(t, err)
		f.advance(time.Minute)
	}

	page, err := svc.GetBills(ctx, core.BillFilter{Page: 2, Limit: 2, Scope: admin})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Bills, 2)
	assert.Equal(t, "MAIN-2026-000003", page.Bills[0].BillNumber, "newest first")

	page, err = svc.GetBills(ctx, core.BillFilter{Search: "000005", Scope: admin})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = svc.GetBills(ctx, core.BillFilter{Limit: 1000, Scope: admin})
	require.NoError(t, err)
	assert.Equal(t, core.MaxPageLimit, page.Limit)
}

func TestBillService_UpdateBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	bill, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)
	itemID := bill.Items[0].ID

	// 1. Item moves pending → in_progress → completed, notes change.
	updated, err := svc.UpdateBill(ctx, bill.ID, core.UpdateBillInput{
		Notes: ptr("walk-in"),
		Items: []core.ItemStatusUpdate{{ItemID: itemID, Status: core.ItemInProgress}},
		Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "walk-in", updated.Notes)
	assert.Equal(t, core.ItemInProgress, updated.Items[0].Status)

	updated, err = svc.UpdateBill(ctx, bill.ID, core.UpdateBillInput{
		Items: []core.ItemStatusUpdate{{ItemID: itemID, Status: core.ItemCompleted}},
		Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, core.ItemCompleted, updated.Items[0].Status)

	// 2. Completed items are terminal.
	_, err = svc.UpdateBill(ctx, bill.ID, core.UpdateBillInput{
		Items: []core.ItemStatusUpdate{{ItemID: itemID, Status: core.ItemPending}},
		Actor: admin,
	})
	assert.True(t, core.IsKind(err, core.KindInvalidStatus), "got %v", err)

	// 3. Completed bills cannot go back to draft.
	_, err = svc.UpdateBill(ctx, bill.ID, core.UpdateBillInput{Status: ptr(core.BillDraft), Actor: admin})
	assert.True(t, core.IsKind(err, core.KindInvalidStatus), "got %v", err)

	// 4. Unknown item.
	_, err = svc.UpdateBill(ctx, bill.ID, core.UpdateBillInput{
		Items: []core.ItemStatusUpdate{{ItemID: 999, Status: core.ItemCompleted}},
		Actor: admin,
	})
	assert.True(t, core.IsKind(err, core.KindNotFound), "got %v", err)
}

func TestBillService_CancelBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	bill, err := svc.CreateBill(ctx, productBill(shampoo, 2, "50"))
	require.NoError(t, err)

	require.NoError(t, svc.CancelBill(ctx, bill.ID, admin))

	got, err := svc.GetBill(ctx, bill.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, core.BillCancelled, got.Status)
	assert.Len(t, got.Items, 1, "cancellation keeps child rows")
	assert.Len(t, got.Payments, 1)

	// Stock is not restored by a cancellation.
	levels, _ := f.inventory().GetStockLevels(ctx, ptr(mainStore))
	assert.Equal(t, 8, levels[0].Quantity)

	err = svc.CancelBill(ctx, bill.ID, admin)
	assert.True(t, core.IsKind(err, core.KindInvalidStatus), "got %v", err)

	err = svc.CancelBill(ctx, 999, admin)
	assert.True(t, core.IsKind(err, core.KindNotFound), "got %v", err)
}

func TestBillService_GetCustomerStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.bills()

	_, err := svc.CreateBill(ctx, serviceBill(haircut, "500", priya))
	require.NoError(t, err)
	f.advance(48 * time.Hour)
	second, err := svc.CreateBill(ctx, serviceBill(facial, "1200", kiran))
	require.NoError(t, err)
	f.advance(time.Hour)
	cancelled, err := svc.CreateBill(ctx, serviceBill(haircut, "300", priya))
	require.NoError(t, err)
	require.NoError(t, svc.CancelBill(ctx, cancelled.ID, admin))

	stats, err := svc.GetCustomerStatistics(ctx, activeCust)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CompletedBills)
	assert.True(t, stats.LifetimeSpent.Equal(dec("1700")))
	assert.True(t, stats.AverageBill.Equal(dec("850")))
	require.NotNil(t, stats.FirstVisit)
	assert.True(t, stats.FirstVisit.Equal(fixedNow))
	assert.True(t, stats.LastVisit.Equal(second.BillDate))

	// Stored counters include every bill ever written, cancelled or not.
	assert.Equal(t, 3, stats.Customer.TotalVisits)
	assert.True(t, stats.Customer.TotalSpent.Equal(decimal.RequireFromString("2000")))

	_, err = svc.GetCustomerStatistics(ctx, 99)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}
