package app

import (
	"context"
	"strings"
	"time"

	"salon-billing/internal/core"
)

// Services bundles the domain services the application layer drives.
type Services struct {
	Bills     core.BillService
	Inventory core.InventoryService
	Transfers core.TransferService
	Cash      core.CashService
	Reports   core.ReportingService
}

// NewServices wires every domain service over one store.
func NewServices(store core.Store, opts core.Options) Services {
	return Services{
		Bills:     core.NewBillService(store, opts),
		Inventory: core.NewInventoryService(store, opts),
		Transfers: core.NewTransferService(store, opts),
		Cash:      core.NewCashService(store, opts),
		Reports:   core.NewReportingService(store, opts),
	}
}

type appService struct {
	svc Services
	fmt formatter
	now func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// loc is the business time zone used to parse request dates and render results.
func NewAppService(svc Services, loc *time.Location, now func() time.Time) ApplicationService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &appService{svc: svc, fmt: formatter{loc: loc}, now: now}
}

// parseDate reads a YYYY-MM-DD field as local midnight. Empty yields nil.
func (s *appService) parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, s.fmt.loc)
	if err != nil {
		return nil, core.Validation("%s must be a date in YYYY-MM-DD form", field)
	}
	return &t, nil
}

// dayOrToday parses an optional date, defaulting to the current local day.
func (s *appService) dayOrToday(field, value string) (time.Time, error) {
	t, err := s.parseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return s.now(), nil
	}
	return *t, nil
}

// checkBranch rejects writes by a branch-bound actor against another branch.
func checkBranch(actor core.Actor, branchID int) error {
	if actor.SeesAllBranches() {
		return nil
	}
	if actor.BranchID == nil || *actor.BranchID != branchID {
		return core.BusinessRuleViolation("user %d may not act on branch %d", actor.UserID, branchID)
	}
	return nil
}

// ── Bills ─────────────────────────────────────────────────────────────────────

func (s *appService) CreateBill(ctx context.Context, actor core.Actor, req CreateBillRequest) (*BillResult, error) {
	if err := checkBranch(actor, req.BranchID); err != nil {
		return nil, err
	}
	billDate, err := s.parseDate("bill_date", req.BillDate)
	if err != nil {
		return nil, err
	}

	in := core.CreateBillInput{
		CustomerID:     req.CustomerID,
		BranchID:       req.BranchID,
		DiscountAmount: req.DiscountAmount,
		DiscountReason: req.DiscountReason,
		TaxAmount:      req.TaxAmount,
		Notes:          req.Notes,
		BillDate:       billDate,
		Imported:       req.Imported,
		Actor:          actor,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, core.BillItemInput{
			ItemType:           core.ItemType(it.ItemType),
			ServiceID:          it.ServiceID,
			PackageID:          it.PackageID,
			ProductID:          it.ProductID,
			EmployeeID:         it.EmployeeID,
			EmployeeIDs:        it.EmployeeIDs,
			ChairID:            it.ChairID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountAmount:     it.DiscountAmount,
			DiscountPercentage: it.DiscountPercentage,
			Notes:              it.Notes,
		})
	}
	for _, p := range req.Payments {
		in.Payments = append(in.Payments, core.PaymentInput{
			PaymentMode:          core.PaymentMode(p.PaymentMode),
			Amount:               p.Amount,
			TransactionReference: p.TransactionReference,
			BankName:             p.BankName,
		})
	}

	bill, err := s.svc.Bills.CreateBill(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.fmt.bill(bill), nil
}

func (s *appService) GetBill(ctx context.Context, actor core.Actor, id int) (*BillResult, error) {
	bill, err := s.svc.Bills.GetBill(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.fmt.bill(bill), nil
}

func (s *appService) ListBills(ctx context.Context, actor core.Actor, req ListBillsRequest) (*BillPageResult, error) {
	start, err := s.parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end != nil {
		next := end.AddDate(0, 0, 1)
		end = &next
	}
	filter := core.BillFilter{
		BranchID:   req.BranchID,
		CustomerID: req.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Search:     strings.TrimSpace(req.Search),
		Page:       req.Page,
		Limit:      req.Limit,
		Scope:      actor,
	}
	if req.Status != "" {
		status := core.BillStatus(req.Status)
		filter.Status = &status
	}

	page, err := s.svc.Bills.GetBills(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &BillPageResult{
		Bills:      make([]BillResult, 0, len(page.Bills)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	for i := range page.Bills {
		out.Bills = append(out.Bills, *s.fmt.bill(&page.Bills[i]))
	}
	return out, nil
}

func (s *appService) UpdateBill(ctx context.Context, actor core.Actor, id int, req UpdateBillRequest) (*BillResult, error) {
	in := core.UpdateBillInput{Notes: req.Notes, Actor: actor}
	if req.Status != nil {
		status := core.BillStatus(*req.Status)
		in.Status = &status
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, core.ItemStatusUpdate{ItemID: it.ItemID, Status: core.ItemStatus(it.Status)})
	}
	bill, err := s.svc.Bills.UpdateBill(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return s.fmt.bill(bill), nil
}

func (s *appService) CancelBill(ctx context.Context, actor core.Actor, id int) error {
	return s.svc.Bills.CancelBill(ctx, id, actor)
}

func (s *appService) GetCustomerStatistics(ctx context.Context, actor core.Actor, customerID int) (*CustomerStatisticsResult, error) {
	stats, err := s.svc.Bills.GetCustomerStatistics(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.fmt.customerStats(stats), nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) GetStockLevels(ctx context.Context, actor core.Actor, locationID *int) (*StockResult, error) {
	levels, err := s.svc.Inventory.GetStockLevels(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := &StockResult{Levels: make([]StockLevelResult, 0, len(levels))}
	for _, l := range levels {
		out.Levels = append(out.Levels, s.fmt.stockLevel(l))
	}
	return out, nil
}

func (s *appService) ListInventoryTransactions(ctx context.Context, actor core.Actor, req TransactionQuery) (*TransactionListResult, error) {
	txns, err := s.svc.Inventory.ListTransactions(ctx, core.TransactionFilter{
		ProductID: req.ProductID, LocationID: req.LocationID, Limit: req.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := &TransactionListResult{Transactions: make([]TransactionResult, 0, len(txns))}
	for i := range txns {
		out.Transactions = append(out.Transactions, *transaction(&txns[i]))
	}
	return out, nil
}

func (s *appService) AdjustStock(ctx context.Context, actor core.Actor, req StockAdjustmentRequest) (*StockAdjustmentResult, error) {
	expiry, err := s.parseDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Inventory.AdjustStock(ctx, core.StockAdjustmentInput{
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		Quantity:       req.Quantity,
		AdjustmentType: core.AdjustmentType(req.AdjustmentType),
		Reason:         req.Reason,
		BatchNumber:    req.BatchNumber,
		ExpiryDate:     expiry,
		Actor:          actor,
	})
	if err != nil {
		return nil, err
	}
	return &StockAdjustmentResult{
		InventoryID:      res.Inventory.ID,
		ProductID:        res.Inventory.ProductID,
		LocationID:       res.Inventory.LocationID,
		BatchNumber:      res.Inventory.BatchNumber,
		PreviousQuantity: res.Previous,
		NewQuantity:      res.Inventory.Quantity,
		Transaction:      transaction(res.Transaction),
	}, nil
}

// ── Stock transfers ───────────────────────────────────────────────────────────

func (s *appService) CreateStockTransfer(ctx context.Context, actor core.Actor, req CreateTransferRequest) (*TransferResult, error) {
	in := core.CreateTransferInput{
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Notes:          req.Notes,
		Actor:          actor,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, core.TransferItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	t, err := s.svc.Transfers.CreateStockTransfer(ctx, in)
	if err != nil {
		return nil, err
	}
	return transfer(t), nil
}

func (s *appService) ListStockTransfers(ctx context.Context, actor core.Actor, req TransferQuery) (*TransferListResult, error) {
	filter := core.TransferFilter{LocationID: req.LocationID}
	if req.Status != "" {
		status := core.TransferStatus(req.Status)
		filter.Status = &status
	}
	list, err := s.svc.Transfers.ListStockTransfers(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &TransferListResult{Transfers: make([]TransferResult, 0, len(list))}
	for i := range list {
		out.Transfers = append(out.Transfers, *transfer(&list[i]))
	}
	return out, nil
}

func (s *appService) GetStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error) {
	t, err := s.svc.Transfers.GetStockTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	return transfer(t), nil
}

func (s *appService) ApproveStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error) {
	t, err := s.svc.Transfers.ApproveStockTransfer(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return transfer(t), nil
}

func (s *appService) CancelStockTransfer(ctx context.Context, actor core.Actor, id int) (*TransferResult, error) {
	t, err := s.svc.Transfers.CancelStockTransfer(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return transfer(t), nil
}

// ── Cash ──────────────────────────────────────────────────────────────────────

func (s *appService) GetDailyCashSummary(ctx context.Context, actor core.Actor, branchID int, date string) (*CashSummaryResult, error) {
	if err := checkBranch(actor, branchID); err != nil {
		return nil, err
	}
	day, err := s.dayOrToday("date", date)
	if err != nil {
		return nil, err
	}
	summary, err := s.svc.Cash.GetDailyCashSummary(ctx, branchID, day)
	if err != nil {
		return nil, err
	}
	out := s.fmt.cashSummary(summary)
	return &out, nil
}

func (s *appService) RecordCashCount(ctx context.Context, actor core.Actor, req CashCountRequest) (*CashCountResult, error) {
	if err := checkBranch(actor, req.BranchID); err != nil {
		return nil, err
	}
	day, err := s.dayOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Cash.RecordCashCount(ctx, core.CashCountInput{
		BranchID:      req.BranchID,
		Date:          day,
		ActualCash:    req.ActualCash,
		Denominations: req.Denominations,
		Notes:         req.Notes,
		Actor:         actor,
	})
	if err != nil {
		return nil, err
	}
	out := &CashCountResult{
		Summary:    s.fmt.cashSummary(&res.Summary),
		ActualCash: money(res.ActualCash),
		Difference: money(res.Difference),
		Status:     string(res.Status),
	}
	if res.Record != nil {
		id := res.Record.ID
		out.RecordID = &id
	}
	return out, nil
}

func (s *appService) RecordCashSource(ctx context.Context, actor core.Actor, req CashSourceRequest) (*CashEntryResult, error) {
	if err := checkBranch(actor, req.BranchID); err != nil {
		return nil, err
	}
	day, err := s.dayOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}
	src, err := s.svc.Cash.RecordCashSource(ctx, core.CashSourceInput{
		BranchID: req.BranchID, Date: day, SourceType: core.CashSourceType(req.SourceType),
		Amount: req.Amount, Notes: req.Notes, Actor: actor,
	})
	if err != nil {
		return nil, err
	}
	return &CashEntryResult{
		ID: src.ID, BranchID: src.BranchID, Date: s.fmt.date(src.Date),
		Kind: string(src.SourceType), Amount: money(src.Amount), Detail: src.Notes,
	}, nil
}

func (s *appService) RecordBankDeposit(ctx context.Context, actor core.Actor, req BankDepositRequest) (*CashEntryResult, error) {
	if err := checkBranch(actor, req.BranchID); err != nil {
		return nil, err
	}
	day, err := s.dayOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}
	dep, err := s.svc.Cash.RecordBankDeposit(ctx, core.BankDepositInput{
		BranchID: req.BranchID, Date: day, Amount: req.Amount,
		BankName: req.BankName, Reference: req.Reference, Actor: actor,
	})
	if err != nil {
		return nil, err
	}
	return &CashEntryResult{
		ID: dep.ID, BranchID: dep.BranchID, Date: s.fmt.date(dep.Date),
		Kind: "bank_deposit", Amount: money(dep.Amount), Detail: dep.BankName,
	}, nil
}

func (s *appService) RecordCashExpense(ctx context.Context, actor core.Actor, req CashExpenseRequest) (*CashEntryResult, error) {
	if err := checkBranch(actor, req.BranchID); err != nil {
		return nil, err
	}
	day, err := s.dayOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}
	exp, err := s.svc.Cash.RecordCashExpense(ctx, core.CashExpenseInput{
		BranchID: req.BranchID, Date: day, Category: req.Category,
		Amount: req.Amount, Notes: req.Notes, Actor: actor,
	})
	if err != nil {
		return nil, err
	}
	return &CashEntryResult{
		ID: exp.ID, BranchID: exp.BranchID, Date: s.fmt.date(exp.Date),
		Kind: "expense", Amount: money(exp.Amount), Detail: exp.Category,
	}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) reportQuery(actor core.Actor, req ReportQuery) (core.PerformanceQuery, error) {
	start, err := s.parseDate("start_date", req.StartDate)
	if err != nil {
		return core.PerformanceQuery{}, err
	}
	end, err := s.parseDate("end_date", req.EndDate)
	if err != nil {
		return core.PerformanceQuery{}, err
	}
	return core.PerformanceQuery{
		Period:     core.PeriodName(strings.ToLower(req.Period)),
		StartDate:  start,
		EndDate:    end,
		BranchID:   req.BranchID,
		EmployeeID: req.EmployeeID,
		Actor:      actor,
	}, nil
}

func (s *appService) GetEmployeePerformance(ctx context.Context, actor core.Actor, req ReportQuery) (*PerformanceResult, error) {
	q, err := s.reportQuery(actor, req)
	if err != nil {
		return nil, err
	}
	report, err := s.svc.Reports.GetEmployeePerformance(ctx, q)
	if err != nil {
		return nil, err
	}
	return &PerformanceResult{
		Period:    s.fmt.period(report.Period),
		Employees: s.fmt.employees(report.Employees),
	}, nil
}

func (s *appService) GetStaffPerformance(ctx context.Context, actor core.Actor, employeeID int, period string) (*StaffPerformanceResult, error) {
	name := core.PeriodName(strings.ToLower(period))
	if name == "" {
		name = core.PeriodMonth
	}
	staff, err := s.svc.Reports.GetStaffPerformance(ctx, employeeID, name, actor)
	if err != nil {
		return nil, err
	}
	return &StaffPerformanceResult{
		Period:         s.fmt.period(staff.Period),
		PreviousPeriod: s.fmt.period(staff.PreviousPeriod),
		Current:        s.fmt.employee(staff.Current),
		Previous:       s.fmt.employee(staff.Previous),
		Growth: GrowthResult{
			Revenue:  money(staff.RevenueGrowth),
			Stars:    money(staff.StarsGrowth),
			Services: money(staff.ServicesGrowth),
		},
	}, nil
}

func (s *appService) GetServiceAnalytics(ctx context.Context, actor core.Actor, req ReportQuery) (*ServiceAnalyticsResult, error) {
	q, err := s.reportQuery(actor, req)
	if err != nil {
		return nil, err
	}
	a, err := s.svc.Reports.GetServiceAnalytics(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.fmt.analytics(a), nil
}

func (s *appService) GetDashboard(ctx context.Context, actor core.Actor, req ReportQuery) (*DashboardResult, error) {
	q, err := s.reportQuery(actor, req)
	if err != nil {
		return nil, err
	}
	d, err := s.svc.Reports.GetDashboard(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.fmt.dashboard(d), nil
}
