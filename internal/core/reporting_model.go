package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter narrows read-side queries. End is exclusive.
type ReportFilter struct {
	Start      time.Time
	End        time.Time
	BranchID   *int
	EmployeeID *int
}

// AttributionRow is one employee credit on one item of a completed bill.
// Assignees is the number of employees recorded on the item at read time;
// Legacy rows come from the single employee field and always have Assignees 1.
type AttributionRow struct {
	BillID       int
	BillNumber   string
	BillDate     time.Time
	BranchID     int
	ItemID       int
	ItemType     ItemType
	ItemName     string
	Category     string
	Quantity     int
	TotalPrice   decimal.Decimal
	StarsPerUnit decimal.Decimal
	EmployeeID   int
	EmployeeName string
	Assignees    int
	Legacy       bool
}

// SalesSummary holds the raw totals behind dashboard KPIs.
type SalesSummary struct {
	Revenue           decimal.Decimal
	BillCount         int
	CustomersServed   int
	NewCustomers      int
	ServicesPerformed int
	ProductsSold      int
}

type ServiceSalesRow struct {
	ServiceID int
	Name      string
	Category  string
	Quantity  int
	Revenue   decimal.Decimal
}

// ── Performance ───────────────────────────────────────────────────────────────

// ServiceContribution is one line of an employee's daily breakdown.
type ServiceContribution struct {
	BillID              int
	BillNumber          string
	ItemID              int
	ItemType            ItemType
	ServiceName         string
	Category            string
	Quantity            int
	ContributionType    ContributionType
	ContributionPercent int
	Revenue             decimal.Decimal
	Stars               decimal.Decimal
}

type DailyPerformance struct {
	Date          time.Time
	TotalServices int
	TotalStars    decimal.Decimal
	TotalEarnings decimal.Decimal
	Services      []ServiceContribution
}

type EmployeePerformance struct {
	EmployeeID       int
	EmployeeName     string
	TotalServices    int
	TotalStars       decimal.Decimal
	RevenueGenerated decimal.Decimal
	DailyAvgServices decimal.Decimal
	DailyAvgStars    decimal.Decimal
	DailyAvgRevenue  decimal.Decimal
	MonthlyStarGoal  int
	GoalProgress     decimal.Decimal
	Daily            []DailyPerformance
}

type PerformanceQuery struct {
	Period     PeriodName
	StartDate  *time.Time
	EndDate    *time.Time
	BranchID   *int
	EmployeeID *int
	Actor      Actor
}

type PerformanceReport struct {
	Period    Period
	Days      int
	Employees []EmployeePerformance
}

type StaffPerformance struct {
	Period         Period
	PreviousPeriod Period
	Current        EmployeePerformance
	Previous       EmployeePerformance
	RevenueGrowth  decimal.Decimal
	StarsGrowth    decimal.Decimal
	ServicesGrowth decimal.Decimal
}

// ── Analytics ─────────────────────────────────────────────────────────────────

type ServiceStat struct {
	ServiceID    int
	Name         string
	Category     string
	Quantity     int
	Revenue      decimal.Decimal
	SharePercent decimal.Decimal
}

type CategoryStat struct {
	Category     string
	Quantity     int
	Revenue      decimal.Decimal
	SharePercent decimal.Decimal
}

type ServiceAnalytics struct {
	Period       Period
	TotalRevenue decimal.Decimal
	Services     []ServiceStat
	Categories   []CategoryStat
}

// Metric is one KPI with its value in the previous equivalent period.
type Metric struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
	Growth   decimal.Decimal
}

func NewMetric(current, previous decimal.Decimal) Metric {
	return Metric{Current: current, Previous: previous, Growth: GrowthPercent(current, previous)}
}

type Dashboard struct {
	Period            Period
	PreviousPeriod    Period
	Revenue           Metric
	BillCount         Metric
	AverageBill       Metric
	CustomersServed   Metric
	NewCustomers      Metric
	ServicesPerformed Metric
	ProductsSold      Metric
	TopEmployees      []EmployeePerformance
	TopServices       []ServiceStat
}
