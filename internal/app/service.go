package app

import (
	"context"

	"salon-billing/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind; results are plain DTOs with
// money already formatted.
//
// Every method runs on behalf of actor. Reads are pinned to the actor's branch
// unless the actor is an admin or owner; branch-bound writes are rejected when
// they target another branch.
type ApplicationService interface {
	// ── Bills ────────────────────────────────────────────────────────────────

	// CreateBill prices, validates and records a completed bill with its
	// payments, employee splits and stock effects.
	CreateBill(ctx context.Context, actor core.Actor, req CreateBillRequest) (*BillResult, error)

	GetBill(ctx context.Context, actor core.Actor, id int) (*BillResult, error)

	// ListBills returns one page of bill headers, newest first.
	ListBills(ctx context.Context, actor core.Actor, req ListBillsRequest) (*BillPageResult, error)

	// UpdateBill changes bill status, notes and item statuses.
	UpdateBill(ctx context.Context, actor core.Actor, id int, req UpdateBillRequest) (*BillResult, error)

	// CancelBill marks a bill cancelled. Items, payments and stock are left as they are.
	CancelBill(ctx context.Context, actor core.Actor, id int) error

	GetCustomerStatistics(ctx context.Context, actor core.Actor, customerID int) (*CustomerStatisticsResult, error)

	// ── Inventory ────────────────────────────────────────────────────────────

	GetStockLevels(ctx context.Context, actor core.Actor, locationID *int) (*StockResult, error)
	ListInventoryTransactions(ctx context.Context, actor core.Actor, req TransactionQuery) (*TransactionListResult, error)
	AdjustStock(ctx context.Context, actor core.Actor, req StockAdjustmentRequest) (*StockAdjustmentResult, error)

	// ── Stock transfers ──────────────────────────────────────────────────────

	CreateStockTransfer(ctx context.Context, actor core.Actor, req CreateTransferRequest) (*TransferResult, error)
	ListStockTransfers(ctx context.Context, actor core.Actor, req TransferQuery) (*TransferListResult, error)
	GetStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error)

	// ApproveStockTransfer moves the requested stock and completes the transfer.
	ApproveStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error)
	CancelStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error)

	// ── Cash ─────────────────────────────────────────────────────────────────

	// GetDailyCashSummary reports the expected drawer for a branch on date
	// (YYYY-MM-DD, empty for today).
	GetDailyCashSummary(ctx context.Context, actor core.Actor, branchID int, date string) (*CashSummaryResult, error)

	// RecordCashCount reconciles a counted drawer and books any discrepancy.
	RecordCashCount(ctx context.Context, actor core.Actor, req CashCountRequest) (*CashCountResult, error)

	RecordCashSource(ctx context.Context, actor core.Actor, req CashSourceRequest) (*CashEntryResult, error)
	RecordBankDeposit(ctx context.Context, actor core.Actor, req BankDepositRequest) (*CashEntryResult, error)
	RecordCashExpense(ctx context.Context, actor core.Actor, req CashExpenseRequest) (*CashEntryResult, error)

	// ── Reports ──────────────────────────────────────────────────────────────

	GetEmployeePerformance(ctx context.Context, actor core.Actor, req ReportQuery) (*PerformanceResult, error)

	// GetStaffPerformance compares one employee's period with the one before it.
	GetStaffPerformance(ctx context.Context, actor core.Actor, employeeID int, period string) (*StaffPerformanceResult, error)

	GetServiceAnalytics(ctx context.Context, actor core.Actor, req ReportQuery) (*ServiceAnalyticsResult, error)
	GetDashboard(ctx context.Context, actor core.Actor, req ReportQuery) (*DashboardResult, error)
}
