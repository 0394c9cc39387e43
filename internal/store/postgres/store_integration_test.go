package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"salon-billing/internal/core"
	"salon-billing/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

var admin = core.Actor{UserID: 1, Role: core.RoleAdmin}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	// Integration tests truncate every table; they only run against TEST_DATABASE_URL.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE payments, bill_item_employees, bill_items, bills,
			inventory_transactions, inventory, stock_transfer_items, stock_transfers,
			cash_sources, bank_deposits, cash_expenses, document_sequences, system_settings,
			employees, services, packages, products, customers, branches, locations
			RESTART IDENTITY CASCADE;

		INSERT INTO locations (id, name) VALUES (1, 'Main Store'), (2, 'Warehouse');
		INSERT INTO branches (id, code, name, active_location_id) VALUES (1, 'MAIN', 'Main Branch', 1);
		INSERT INTO customers (id, name, phone) VALUES (1, 'Asha Rao', '9800000001');
		INSERT INTO employees (id, branch_id, name) VALUES (1, 1, 'Priya'), (2, 1, 'Kiran');
		INSERT INTO services (id, name, category, price, star_points) VALUES (1, 'Haircut', 'Hair', 500, 2);
		INSERT INTO products (id, name, sku, price) VALUES (1, 'Shampoo', 'SH-01', 50);
		INSERT INTO inventory (product_id, location_id, batch_number, quantity) VALUES (1, 1, '', 10);
	`)
	require.NoError(t, err, "seed test database")
	return pool
}

func testOptions(t *testing.T) core.Options {
	return core.Options{
		Location: time.UTC,
		Logger:   zaptest.NewLogger(t),
	}
}

func haircutBill(employees ...int) core.CreateBillInput {
	svc := 1
	return core.CreateBillInput{
		CustomerID: 1,
		BranchID:   1,
		Items: []core.BillItemInput{{
			ItemType:    core.ItemService,
			ServiceID:   &svc,
			EmployeeIDs: employees,
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(1000),
		}},
		Payments: []core.PaymentInput{{PaymentMode: core.PaymentCash, Amount: decimal.NewFromInt(1000)}},
		Actor:    admin,
	}
}

func TestStore_CreateBillRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bills := core.NewBillService(postgres.New(pool), testOptions(t))

	bill, err := bills.CreateBill(ctx, haircutBill(1, 2))
	require.NoError(t, err)

	assert.Regexp(t, `^MAIN-\d{4}-000001$`, bill.BillNumber)
	assert.Equal(t, "Asha Rao", bill.CustomerName)
	require.Len(t, bill.Items, 1)
	assert.Len(t, bill.Items[0].Employees, 2)
	require.Len(t, bill.Payments, 1)
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(1000)))

	var visits int
	var spent decimal.Decimal
	require.NoError(t, pool.QueryRow(ctx, "SELECT total_visits, total_spent FROM customers WHERE id = 1").Scan(&visits, &spent))
	assert.Equal(t, 1, visits)
	assert.True(t, spent.Equal(decimal.NewFromInt(1000)))
}

func TestStore_PaymentMismatchLeavesNoRows(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bills := core.NewBillService(postgres.New(pool), testOptions(t))

	in := haircutBill(1)
	in.Payments[0].Amount = decimal.NewFromInt(900)
	_, err := bills.CreateBill(ctx, in)
	assert.True(t, core.IsKind(err, core.KindPaymentMismatch))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM bills").Scan(&count))
	assert.Zero(t, count)
}

func TestStore_ConcurrentBillNumbersAreUnique(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bills := core.NewBillService(postgres.New(pool), testOptions(t))

	const n = 8
	var mu sync.Mutex
	numbers := make(map[string]bool)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			bill, err := bills.CreateBill(gctx, haircutBill(1))
			if err != nil {
				return err
			}
			mu.Lock()
			numbers[bill.BillNumber] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, numbers, n)
}

func TestStore_AttributionSplitsAcrossAssignees(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	store := postgres.New(pool)
	_, err := core.NewBillService(store, testOptions(t)).CreateBill(ctx, haircutBill(1, 2))
	require.NoError(t, err)

	now := time.Now().UTC()
	filter := core.ReportFilter{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	rows, err := store.Reports().AttributionRows(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 2, r.Assignees)
		assert.False(t, r.Legacy)
	}

	// Filtering to one employee keeps the full team size.
	one := 2
	filter.EmployeeID = &one
	rows, err = store.Reports().AttributionRows(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Assignees)
	assert.Equal(t, "Kiran", rows[0].EmployeeName)
}

func TestStore_SaleDecrementsStock(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	store := postgres.New(pool)

	product := 1
	_, err := core.NewBillService(store, testOptions(t)).CreateBill(ctx, core.CreateBillInput{
		CustomerID: 1,
		BranchID:   1,
		Items: []core.BillItemInput{{
			ItemType:  core.ItemProduct,
			ProductID: &product,
			Quantity:  3,
			UnitPrice: decimal.NewFromInt(50),
		}},
		Payments: []core.PaymentInput{{PaymentMode: core.PaymentUPI, Amount: decimal.NewFromInt(150)}},
		Actor:    admin,
	})
	require.NoError(t, err)

	levels, err := store.Inventory().StockLevels(ctx, nil)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 7, levels[0].Quantity)

	txns, err := store.Inventory().Transactions(ctx, core.TransactionFilter{ProductID: &product, Limit: 10})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, core.TxnSale, txns[0].Type)
	assert.Equal(t, -3, txns[0].Quantity)
}

func TestStore_DailyCashSummary(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	store := postgres.New(pool)
	opts := testOptions(t)

	_, err := core.NewBillService(store, opts).CreateBill(ctx, haircutBill(1))
	require.NoError(t, err)

	cash := core.NewCashService(store, opts)
	today := time.Now().UTC()
	_, err = cash.RecordCashSource(ctx, core.CashSourceInput{
		BranchID: 1, Date: today, SourceType: core.CashOpeningBalance, Amount: decimal.NewFromInt(200), Actor: admin,
	})
	require.NoError(t, err)
	_, err = cash.RecordBankDeposit(ctx, core.BankDepositInput{
		BranchID: 1, Date: today, Amount: decimal.NewFromInt(300), BankName: "HDFC", Actor: admin,
	})
	require.NoError(t, err)
	_, err = cash.RecordCashExpense(ctx, core.CashExpenseInput{
		BranchID: 1, Date: today, Category: "supplies", Amount: decimal.NewFromInt(100), Actor: admin,
	})
	require.NoError(t, err)

	summary, err := cash.GetDailyCashSummary(ctx, 1, today)
	require.NoError(t, err)
	assert.True(t, summary.ExpectedCash.Equal(decimal.NewFromInt(800)), "expected 800, got %s", summary.ExpectedCash)
	assert.Equal(t, 1, summary.BillCount)
}

func TestStore_ConcurrentCashCountsApplyOneCorrection(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	store := postgres.New(pool)
	opts := testOptions(t)

	_, err := core.NewBillService(store, opts).CreateBill(ctx, haircutBill(1))
	require.NoError(t, err)

	cash := core.NewCashService(store, opts)
	today := time.Now().UTC()
	results := make([]*core.CashCountResult, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			res, err := cash.RecordCashCount(gctx, core.CashCountInput{
				BranchID: 1, Date: today, ActualCash: decimal.NewFromInt(950), Actor: admin,
			})
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	statuses := map[core.ReconciliationStatus]int{}
	for _, res := range results {
		statuses[res.Status]++
	}
	assert.Equal(t, map[core.ReconciliationStatus]int{core.CashShortage: 1, core.CashBalanced: 1}, statuses)

	var corrections int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM cash_sources WHERE branch_id = 1").Scan(&corrections))
	assert.Equal(t, 1, corrections)

	summary, err := cash.GetDailyCashSummary(ctx, 1, today)
	require.NoError(t, err)
	assert.True(t, summary.ExpectedCash.Equal(decimal.NewFromInt(950)), "expected 950, got %s", summary.ExpectedCash)
}
