package app

import (
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	moneyPlace = 2
)

// formatter renders core values into result DTOs in the business time zone.
type formatter struct {
	loc *time.Location
}

func money(d decimal.Decimal) string {
	return d.StringFixed(moneyPlace)
}

func (f formatter) date(t time.Time) string {
	return t.In(f.loc).Format(dateLayout)
}

func (f formatter) optDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := f.date(*t)
	return &s
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timestamp(*t)
	return &s
}

// ── Bills ─────────────────────────────────────────────────────────────────────

func (f formatter) bill(b *core.Bill) *BillResult {
	out := &BillResult{
		ID:             b.ID,
		BillNumber:     b.BillNumber,
		BranchID:       b.BranchID,
		BranchName:     b.BranchName,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		BillDate:       timestamp(b.BillDate),
		Subtotal:       money(b.Subtotal),
		DiscountAmount: money(b.DiscountAmount),
		DiscountReason: b.DiscountReason,
		TaxAmount:      money(b.TaxAmount),
		TotalAmount:    money(b.TotalAmount),
		Status:         string(b.Status),
		Imported:       b.Imported,
		Notes:          b.Notes,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      timestamp(b.CreatedAt),
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, billItem(it))
	}
	for _, p := range b.Payments {
		out.Payments = append(out.Payments, PaymentResult{
			ID:                   p.ID,
			PaymentMode:          string(p.PaymentMode),
			Amount:               money(p.Amount),
			TransactionReference: p.TransactionReference,
			BankName:             p.BankName,
		})
	}
	return out
}

func billItem(it core.BillItem) BillItemResult {
	out := BillItemResult{
		ID:             it.ID,
		ItemType:       string(it.ItemType),
		ServiceID:      it.ServiceID,
		PackageID:      it.PackageID,
		ProductID:      it.ProductID,
		ItemName:       it.ItemName,
		Quantity:       it.Quantity,
		UnitPrice:      money(it.UnitPrice),
		DiscountAmount: money(it.DiscountAmount),
		TotalPrice:     money(it.TotalPrice),
		EmployeeID:     it.EmployeeID,
		ChairID:        it.ChairID,
		Status:         string(it.Status),
		Notes:          it.Notes,
		Employees:      []ItemEmployeeResult{},
	}
	if len(it.Employees) > 0 {
		share, _ := core.SplitContribution(it.TotalPrice, decimal.Zero, it.Quantity, len(it.Employees))
		for _, e := range it.Employees {
			out.Employees = append(out.Employees, ItemEmployeeResult{
				EmployeeID:   e.EmployeeID,
				EmployeeName: e.EmployeeName,
				RevenueShare: money(share),
			})
		}
	}
	return out
}

func (f formatter) customerStats(s *core.CustomerStatistics) *CustomerStatisticsResult {
	return &CustomerStatisticsResult{
		CustomerID:     s.Customer.ID,
		Name:           s.Customer.Name,
		Phone:          s.Customer.Phone,
		TotalVisits:    s.Customer.TotalVisits,
		TotalSpent:     money(s.Customer.TotalSpent),
		LastVisitDate:  f.optDate(s.Customer.LastVisitDate),
		CompletedBills: s.CompletedBills,
		LifetimeSpent:  money(s.LifetimeSpent),
		AverageBill:    money(s.AverageBill),
		FirstVisit:     f.optDate(s.FirstVisit),
		LastVisit:      f.optDate(s.LastVisit),
	}
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (f formatter) stockLevel(l core.StockLevel) StockLevelResult {
	return StockLevelResult{
		InventoryID:  l.InventoryID,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		SKU:          l.SKU,
		LocationID:   l.LocationID,
		LocationName: l.LocationName,
		BatchNumber:  l.BatchNumber,
		Quantity:     l.Quantity,
		Reserved:     l.Reserved,
		Available:    l.Available,
		ExpiryDate:   f.optDate(l.ExpiryDate),
		UnitPrice:    money(l.UnitPrice),
	}
}

func transaction(t *core.InventoryTransaction) *TransactionResult {
	if t == nil {
		return nil
	}
	return &TransactionResult{
		ID:             t.ID,
		ProductID:      t.ProductID,
		Type:           string(t.Type),
		Quantity:       t.Quantity,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		BatchNumber:    t.BatchNumber,
		ReferenceType:  t.ReferenceType,
		ReferenceID:    t.ReferenceID,
		Reason:         t.Reason,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      timestamp(t.CreatedAt),
	}
}

func transfer(t *core.StockTransfer) *TransferResult {
	out := &TransferResult{
		ID:               t.ID,
		TransferNumber:   t.TransferNumber,
		FromLocationID:   t.FromLocationID,
		FromLocationName: t.FromLocationName,
		ToLocationID:     t.ToLocationID,
		ToLocationName:   t.ToLocationName,
		Status:           string(t.Status),
		Notes:            t.Notes,
		RequestedBy:      t.RequestedBy,
		ApprovedBy:       t.ApprovedBy,
		CreatedAt:        timestamp(t.CreatedAt),
		CompletedAt:      optTimestamp(t.CompletedAt),
		Items:            make([]TransferItemResult, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, TransferItemResult{
			ID:                it.ID,
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			RequestedQuantity: it.RequestedQuantity,
			SentQuantity:      it.SentQuantity,
			ReceivedQuantity:  it.ReceivedQuantity,
		})
	}
	return out
}

// ── Cash ──────────────────────────────────────────────────────────────────────

func (f formatter) cashSummary(s *core.DailyCashSummary) CashSummaryResult {
	byMode := make(map[string]string, len(s.PaymentsByMode))
	for mode, amount := range s.PaymentsByMode {
		byMode[string(mode)] = money(amount)
	}
	return CashSummaryResult{
		BranchID:       s.BranchID,
		Date:           f.date(s.Date),
		CashPayments:   money(s.CashPaymentsTotal),
		CashSources:    money(s.CashSourcesTotal),
		BankDeposits:   money(s.BankDepositsTotal),
		CashExpenses:   money(s.CashExpensesTotal),
		ExpectedCash:   money(s.ExpectedCash),
		PaymentsByMode: byMode,
		BillCount:      s.BillCount,
	}
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (f formatter) period(p core.Period) PeriodResult {
	return PeriodResult{
		Name:      string(p.Name),
		StartDate: f.date(p.Start),
		EndDate:   f.date(p.LastDay()),
		Days:      p.Days(),
	}
}

func (f formatter) employee(p core.EmployeePerformance) EmployeePerformanceResult {
	out := EmployeePerformanceResult{
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		TotalServices:    p.TotalServices,
		TotalStars:       money(p.TotalStars),
		RevenueGenerated: money(p.RevenueGenerated),
		DailyAvgServices: money(p.DailyAvgServices),
		DailyAvgStars:    money(p.DailyAvgStars),
		DailyAvgRevenue:  money(p.DailyAvgRevenue),
		MonthlyStarGoal:  p.MonthlyStarGoal,
		GoalProgress:     money(p.GoalProgress),
	}
	for _, d := range p.Daily {
		day := DailyPerformanceResult{
			Date:          f.date(d.Date),
			TotalServices: d.TotalServices,
			TotalStars:    money(d.TotalStars),
			TotalEarnings: money(d.TotalEarnings),
			Services:      make([]ContributionResult, 0, len(d.Services)),
		}
		for _, c := range d.Services {
			day.Services = append(day.Services, ContributionResult{
				BillID:              c.BillID,
				BillNumber:          c.BillNumber,
				ItemID:              c.ItemID,
				ItemType:            string(c.ItemType),
				ServiceName:         c.ServiceName,
				Category:            c.Category,
				Quantity:            c.Quantity,
				ContributionType:    string(c.ContributionType),
				ContributionPercent: c.ContributionPercent,
				Revenue:             money(c.Revenue),
				Stars:               money(c.Stars),
			})
		}
		out.Daily = append(out.Daily, day)
	}
	return out
}

func (f formatter) employees(perf []core.EmployeePerformance) []EmployeePerformanceResult {
	out := make([]EmployeePerformanceResult, 0, len(perf))
	for _, p := range perf {
		out = append(out, f.employee(p))
	}
	return out
}

func serviceStats(stats []core.ServiceStat) []ServiceStatResult {
	out := make([]ServiceStatResult, 0, len(stats))
	for _, s := range stats {
		out = append(out, ServiceStatResult{
			ServiceID:    s.ServiceID,
			Name:         s.Name,
			Category:     s.Category,
			Quantity:     s.Quantity,
			Revenue:      money(s.Revenue),
			SharePercent: money(s.SharePercent),
		})
	}
	return out
}

func (f formatter) analytics(a *core.ServiceAnalytics) *ServiceAnalyticsResult {
	out := &ServiceAnalyticsResult{
		Period:       f.period(a.Period),
		TotalRevenue: money(a.TotalRevenue),
		Services:     serviceStats(a.Services),
		Categories:   make([]CategoryStatResult, 0, len(a.Categories)),
	}
	for _, c := range a.Categories {
		out.Categories = append(out.Categories, CategoryStatResult{
			Category:     c.Category,
			Quantity:     c.Quantity,
			Revenue:      money(c.Revenue),
			SharePercent: money(c.SharePercent),
		})
	}
	return out
}

// metric renders a KPI. Counts are whole numbers; money has two places.
func metric(m core.Metric, places int32) MetricResult {
	return MetricResult{
		Current:  m.Current.StringFixed(places),
		Previous: m.Previous.StringFixed(places),
		Growth:   money(m.Growth),
	}
}

func (f formatter) dashboard(d *core.Dashboard) *DashboardResult {
	return &DashboardResult{
		Period:            f.period(d.Period),
		PreviousPeriod:    f.period(d.PreviousPeriod),
		Revenue:           metric(d.Revenue, moneyPlace),
		BillCount:         metric(d.BillCount, 0),
		AverageBill:       metric(d.AverageBill, moneyPlace),
		CustomersServed:   metric(d.CustomersServed, 0),
		NewCustomers:      metric(d.NewCustomers, 0),
		ServicesPerformed: metric(d.ServicesPerformed, 0),
		ProductsSold:      metric(d.ProductsSold, 0),
		TopEmployees:      f.employees(d.TopEmployees),
		TopServices:       serviceStats(d.TopServices),
	}
}
