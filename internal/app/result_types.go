package app

// Money fields are decimal strings with two places. Dates are YYYY-MM-DD in
// the business time zone; timestamps are RFC 3339.

// BillResult is returned by bill operations. Items and Payments are omitted
// in list views.
type BillResult struct {
	ID             int              `json:"id"`
	BillNumber     string           `json:"bill_number"`
	BranchID       int              `json:"branch_id"`
	BranchName     string           `json:"branch_name"`
	CustomerID     int              `json:"customer_id"`
	CustomerName   string           `json:"customer_name"`
	CustomerPhone  string           `json:"customer_phone,omitempty"`
	BillDate       string           `json:"bill_date"`
	Subtotal       string           `json:"subtotal"`
	DiscountAmount string           `json:"discount_amount"`
	DiscountReason string           `json:"discount_reason,omitempty"`
	TaxAmount      string           `json:"tax_amount"`
	TotalAmount    string           `json:"total_amount"`
	Status         string           `json:"status"`
	Imported       bool             `json:"is_imported"`
	Notes          string           `json:"notes,omitempty"`
	CreatedBy      int              `json:"created_by"`
	CreatedAt      string           `json:"created_at"`
	Items          []BillItemResult `json:"items,omitempty"`
	Payments       []PaymentResult  `json:"payments,omitempty"`
}

type BillItemResult struct {
	ID             int                  `json:"id"`
	ItemType       string               `json:"item_type"`
	ServiceID      *int                 `json:"service_id,omitempty"`
	PackageID      *int                 `json:"package_id,omitempty"`
	ProductID      *int                 `json:"product_id,omitempty"`
	ItemName       string               `json:"item_name"`
	Quantity       int                  `json:"quantity"`
	UnitPrice      string               `json:"unit_price"`
	DiscountAmount string               `json:"discount_amount"`
	TotalPrice     string               `json:"total_price"`
	EmployeeID     *int                 `json:"employee_id,omitempty"`
	ChairID        *int                 `json:"chair_id,omitempty"`
	Status         string               `json:"status"`
	Notes          string               `json:"notes,omitempty"`
	Employees      []ItemEmployeeResult `json:"employees"`
}

// ItemEmployeeResult is one assignee with the revenue share it will be credited.
type ItemEmployeeResult struct {
	EmployeeID   int    `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	RevenueShare string `json:"revenue_share"`
}

type PaymentResult struct {
	ID                   int    `json:"id"`
	PaymentMode          string `json:"payment_mode"`
	Amount               string `json:"amount"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	BankName             string `json:"bank_name,omitempty"`
}

type BillPageResult struct {
	Bills      []BillResult `json:"bills"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

type CustomerStatisticsResult struct {
	CustomerID     int     `json:"customer_id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone,omitempty"`
	TotalVisits    int     `json:"total_visits"`
	TotalSpent     string  `json:"total_spent"`
	LastVisitDate  *string `json:"last_visit_date"`
	CompletedBills int     `json:"completed_bills"`
	LifetimeSpent  string  `json:"lifetime_spent"`
	AverageBill    string  `json:"average_bill"`
	FirstVisit     *string `json:"first_visit"`
	LastVisit      *string `json:"last_visit"`
}

// ── Inventory ─────────────────────────────────────────────────────────────────

type StockLevelResult struct {
	InventoryID  int     `json:"inventory_id"`
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	SKU          string  `json:"sku,omitempty"`
	LocationID   int     `json:"location_id"`
	LocationName string  `json:"location_name"`
	BatchNumber  string  `json:"batch_number,omitempty"`
	Quantity     int     `json:"quantity"`
	Reserved     int     `json:"reserved_quantity"`
	Available    int     `json:"available_quantity"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	UnitPrice    string  `json:"unit_price"`
}

type StockResult struct {
	Levels []StockLevelResult `json:"levels"`
}

type TransactionResult struct {
	ID             int    `json:"id"`
	ProductID      int    `json:"product_id"`
	Type           string `json:"transaction_type"`
	Quantity       int    `json:"quantity"`
	FromLocationID *int   `json:"from_location_id,omitempty"`
	ToLocationID   *int   `json:"to_location_id,omitempty"`
	BatchNumber    string `json:"batch_number,omitempty"`
	ReferenceType  string `json:"reference_type,omitempty"`
	ReferenceID    *int   `json:"reference_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	CreatedBy      int    `json:"created_by"`
	CreatedAt      string `json:"created_at"`
}

type TransactionListResult struct {
	Transactions []TransactionResult `json:"transactions"`
}

type StockAdjustmentResult struct {
	InventoryID      int                `json:"inventory_id"`
	ProductID        int                `json:"product_id"`
	LocationID       int                `json:"location_id"`
	BatchNumber      string             `json:"batch_number,omitempty"`
	PreviousQuantity int                `json:"previous_quantity"`
	NewQuantity      int                `json:"new_quantity"`
	Transaction      *TransactionResult `json:"transaction"`
}

// ── Transfers ─────────────────────────────────────────────────────────────────

type TransferResult struct {
	ID               int                  `json:"id"`
	TransferNumber   string               `json:"transfer_number"`
	FromLocationID   int                  `json:"from_location_id"`
	FromLocationName string               `json:"from_location_name"`
	ToLocationID     int                  `json:"to_location_id"`
	ToLocationName   string               `json:"to_location_name"`
	Status           string               `json:"status"`
	Notes            string               `json:"notes,omitempty"`
	RequestedBy      int                  `json:"requested_by"`
	ApprovedBy       *int                 `json:"approved_by,omitempty"`
	CreatedAt        string               `json:"created_at"`
	CompletedAt      *string              `json:"completed_at,omitempty"`
	Items            []TransferItemResult `json:"items"`
}

type TransferItemResult struct {
	ID                int    `json:"id"`
	ProductID         int    `json:"product_id"`
	ProductName       string `json:"product_name"`
	RequestedQuantity int    `json:"requested_quantity"`
	SentQuantity      *int   `json:"sent_quantity"`
	ReceivedQuantity  *int   `json:"received_quantity"`
}

type TransferListResult struct {
	Transfers []TransferResult `json:"transfers"`
}

// ── Cash ──────────────────────────────────────────────────────────────────────

type CashSummaryResult struct {
	BranchID       int               `json:"branch_id"`
	Date           string            `json:"date"`
	CashPayments   string            `json:"cash_payments_total"`
	CashSources    string            `json:"cash_sources_total"`
	BankDeposits   string            `json:"bank_deposits_total"`
	CashExpenses   string            `json:"cash_expenses_total"`
	ExpectedCash   string            `json:"expected_cash"`
	PaymentsByMode map[string]string `json:"payments_by_mode"`
	BillCount      int               `json:"bill_count"`
}

type CashCountResult struct {
	Summary    CashSummaryResult `json:"summary"`
	ActualCash string            `json:"actual_cash"`
	Difference string            `json:"difference"`
	Status     string            `json:"status"`
	RecordID   *int              `json:"recorded_source_id"`
}

// CashEntryResult echoes a recorded cash source, bank deposit or expense.
type CashEntryResult struct {
	ID       int    `json:"id"`
	BranchID int    `json:"branch_id"`
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Amount   string `json:"amount"`
	Detail   string `json:"detail,omitempty"`
}

// ── Reports ───────────────────────────────────────────────────────────────────

type PeriodResult struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

type ContributionResult struct {
	BillID              int    `json:"bill_id"`
	BillNumber          string `json:"bill_number"`
	ItemID              int    `json:"item_id"`
	ItemType            string `json:"item_type"`
	ServiceName         string `json:"service_name"`
	Category            string `json:"category,omitempty"`
	Quantity            int    `json:"quantity"`
	ContributionType    string `json:"contribution_type"`
	ContributionPercent int    `json:"contribution_percent"`
	Revenue             string `json:"revenue_contribution"`
	Stars               string `json:"star_points"`
}

type DailyPerformanceResult struct {
	Date          string               `json:"date"`
	TotalServices int                  `json:"total_services"`
	TotalStars    string               `json:"total_stars"`
	TotalEarnings string               `json:"total_earnings"`
	Services      []ContributionResult `json:"services"`
}

type EmployeePerformanceResult struct {
	EmployeeID       int                      `json:"employee_id"`
	EmployeeName     string                   `json:"employee_name"`
	TotalServices    int                      `json:"total_services"`
	TotalStars       string                   `json:"total_stars"`
	RevenueGenerated string                   `json:"revenue_generated"`
	DailyAvgServices string                   `json:"daily_avg_services"`
	DailyAvgStars    string                   `json:"daily_avg_stars"`
	DailyAvgRevenue  string                   `json:"daily_avg_revenue"`
	MonthlyStarGoal  int                      `json:"monthly_star_goal"`
	GoalProgress     string                   `json:"goal_progress_percent"`
	Daily            []DailyPerformanceResult `json:"daily_breakdown,omitempty"`
}

type PerformanceResult struct {
	Period    PeriodResult                `json:"period"`
	Employees []EmployeePerformanceResult `json:"employees"`
}

type GrowthResult struct {
	Revenue  string `json:"revenue"`
	Stars    string `json:"stars"`
	Services string `json:"services"`
}

type StaffPerformanceResult struct {
	Period         PeriodResult              `json:"period"`
	PreviousPeriod PeriodResult              `json:"previous_period"`
	Current        EmployeePerformanceResult `json:"current"`
	Previous       EmployeePerformanceResult `json:"previous"`
	Growth         GrowthResult              `json:"growth_percent"`
}

type ServiceStatResult struct {
	ServiceID    int    `json:"service_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	Revenue      string `json:"revenue"`
	SharePercent string `json:"share_percent"`
}

type CategoryStatResult struct {
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	Revenue      string `json:"revenue"`
	SharePercent string `json:"share_percent"`
}

type ServiceAnalyticsResult struct {
	Period       PeriodResult         `json:"period"`
	TotalRevenue string               `json:"total_revenue"`
	Services     []ServiceStatResult  `json:"services"`
	Categories   []CategoryStatResult `json:"categories"`
}

type MetricResult struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
	Growth   string `json:"growth_percent"`
}

type DashboardResult struct {
	Period            PeriodResult                `json:"period"`
	PreviousPeriod    PeriodResult                `json:"previous_period"`
	Revenue           MetricResult                `json:"revenue"`
	BillCount         MetricResult                `json:"bill_count"`
	AverageBill       MetricResult                `json:"average_bill"`
	CustomersServed   MetricResult                `json:"customers_served"`
	NewCustomers      MetricResult                `json:"new_customers"`
	ServicesPerformed MetricResult                `json:"services_performed"`
	ProductsSold      MetricResult                `json:"products_sold"`
	TopEmployees      []EmployeePerformanceResult `json:"top_employees"`
	TopServices       []ServiceStatResult         `json:"top_services"`
}
