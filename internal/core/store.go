package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the unit of work the services run against. Outside WithinTx every
// call stands alone; inside, fn receives repositories bound to one transaction
// that commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

// Repositories is the same data access surface in and out of a transaction.
type Repositories interface {
	Catalog() CatalogRepository
	Bills() BillRepository
	Inventory() InventoryRepository
	Transfers() TransferRepository
	Cash() CashRepository
	Sequences() SequenceRepository
	Reports() ReportRepository
	Settings() SettingsRepository
}

// CatalogRepository resolves the entities bills refer to. Lookups return
// ErrNotFound for unknown ids.
type CatalogRepository interface {
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	GetBranch(ctx context.Context, id int) (*Branch, error)
	GetService(ctx context.Context, id int) (*Service, error)
	GetPackage(ctx context.Context, id int) (*Package, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	GetEmployee(ctx context.Context, id int) (*Employee, error)
	GetLocation(ctx context.Context, id int) (*Location, error)

	// RecordCustomerVisit adds one visit and amount to the customer's counters.
	RecordCustomerVisit(ctx context.Context, customerID int, amount decimal.Decimal, visitedAt time.Time) error
}

type BillRepository interface {
	// Create inserts the bill with its items and payments and fills in their ids.
	Create(ctx context.Context, bill *Bill) error
	AddItemEmployees(ctx context.Context, itemID int, employeeIDs []int) error
	Get(ctx context.Context, id int) (*Bill, error)
	// GetForUpdate is Get with the bill header locked for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int) (*Bill, error)
	// List returns bill headers matching filter, newest first, and the total match count.
	List(ctx context.Context, filter BillFilter) ([]Bill, int, error)
	UpdateHeader(ctx context.Context, id int, status BillStatus, notes string) error
	UpdateItemStatus(ctx context.Context, itemID int, status ItemStatus) error
	CustomerStats(ctx context.Context, customerID int) (CustomerBillStats, error)
}

type InventoryRepository interface {
	// LockRows returns every row for product at location, earliest expiry first,
	// locked for the rest of the transaction.
	LockRows(ctx context.Context, productID, locationID int) ([]Inventory, error)
	Create(ctx context.Context, inv *Inventory) error
	SetQuantity(ctx context.Context, id, quantity int) error
	AppendTransaction(ctx context.Context, txn *InventoryTransaction) error
	StockLevels(ctx context.Context, locationID *int) ([]StockLevel, error)
	Transactions(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error)
}

type TransferRepository interface {
	Create(ctx context.Context, t *StockTransfer) error
	Get(ctx context.Context, id int) (*StockTransfer, error)
	GetForUpdate(ctx context.Context, id int) (*StockTransfer, error)
	// Complete persists status, approval and per-item sent/received quantities.
	Complete(ctx context.Context, t *StockTransfer) error
	SetStatus(ctx context.Context, id int, status TransferStatus) error
	List(ctx context.Context, filter TransferFilter) ([]StockTransfer, error)
}

type CashRepository interface {
	// LockDay serializes writers reconciling the same branch and day until the
	// enclosing transaction ends. Outside a transaction it is a no-op.
	LockDay(ctx context.Context, branchID int, window DayWindow) error
	Totals(ctx context.Context, branchID int, window DayWindow) (CashTotals, error)
	AddSource(ctx context.Context, s *CashSource) error
	AddBankDeposit(ctx context.Context, d *BankDeposit) error
	AddExpense(ctx context.Context, e *CashExpense) error
}

type ReportRepository interface {
	// AttributionRows returns employee credits on completed bills in processing
	// order: bill date, bill id, item id, then assignment order.
	AttributionRows(ctx context.Context, filter ReportFilter) ([]AttributionRow, error)
	SalesSummary(ctx context.Context, filter ReportFilter) (SalesSummary, error)
	ServiceSales(ctx context.Context, filter ReportFilter) ([]ServiceSalesRow, error)
}

// SettingsRepository reads the key-value settings store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
}

// Setting keys read by the engine.
const SettingMonthlyStarGoal = "monthly_star_goal"
