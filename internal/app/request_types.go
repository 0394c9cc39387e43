package app

import "github.com/shopspring/decimal"

// Dates in requests are local calendar days in YYYY-MM-DD form. Money accepts
// either a JSON number or a decimal string.

// CreateBillRequest is the body of POST /api/bills.
type CreateBillRequest struct {
	CustomerID     int               `json:"customer_id" jsonschema:"required,minimum=1"`
	BranchID       int               `json:"branch_id" jsonschema:"required,minimum=1"`
	Items          []BillItemRequest `json:"items" jsonschema:"required,minItems=1"`
	Payments       []PaymentRequest  `json:"payments" jsonschema:"required"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	DiscountReason string            `json:"discount_reason,omitempty"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	Notes          string            `json:"notes,omitempty"`
	BillDate       string            `json:"bill_date,omitempty" jsonschema:"format=date,description=Historical date for imported bills"`
	Imported       bool              `json:"imported,omitempty"`
}

// BillItemRequest is one line of a CreateBillRequest. Exactly one of
// service_id, package_id or product_id must be set to match item_type.
type BillItemRequest struct {
	ItemType           string           `json:"item_type" jsonschema:"required,enum=service,enum=package,enum=product"`
	ServiceID          *int             `json:"service_id,omitempty"`
	PackageID          *int             `json:"package_id,omitempty"`
	ProductID          *int             `json:"product_id,omitempty"`
	EmployeeID         *int             `json:"employee_id,omitempty"`
	EmployeeIDs        []int            `json:"employee_ids,omitempty" jsonschema:"description=Employees sharing the item equally"`
	ChairID            *int             `json:"chair_id,omitempty"`
	Quantity           int              `json:"quantity" jsonschema:"required,minimum=1"`
	UnitPrice          decimal.Decimal  `json:"unit_price" jsonschema:"required"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	Notes              string           `json:"notes,omitempty"`
}

type PaymentRequest struct {
	PaymentMode          string          `json:"payment_mode" jsonschema:"required,enum=cash,enum=card,enum=upi,enum=online,enum=other"`
	Amount               decimal.Decimal `json:"amount" jsonschema:"required"`
	TransactionReference string          `json:"transaction_reference,omitempty"`
	BankName             string          `json:"bank_name,omitempty"`
}

// ListBillsRequest carries the GET /api/bills query. EndDate is inclusive.
type ListBillsRequest struct {
	BranchID   *int
	CustomerID *int
	Status     string
	StartDate  string
	EndDate    string
	Search     string
	Page       int
	Limit      int
}

// UpdateBillRequest is the body of PATCH /api/bills/{id}.
type UpdateBillRequest struct {
	Status *string             `json:"status,omitempty" jsonschema:"enum=draft,enum=pending,enum=completed,enum=cancelled"`
	Notes  *string             `json:"notes,omitempty"`
	Items  []ItemStatusRequest `json:"items,omitempty"`
}

type ItemStatusRequest struct {
	ItemID int    `json:"item_id" jsonschema:"required"`
	Status string `json:"status" jsonschema:"required,enum=pending,enum=in_progress,enum=completed,enum=rejected"`
}

// StockAdjustmentRequest is the body of POST /api/inventory/adjustments.
type StockAdjustmentRequest struct {
	ProductID      int    `json:"product_id" jsonschema:"required"`
	LocationID     int    `json:"location_id" jsonschema:"required"`
	Quantity       int    `json:"quantity" jsonschema:"required,minimum=0"`
	AdjustmentType string `json:"adjustment_type" jsonschema:"required,enum=add,enum=subtract,enum=set"`
	Reason         string `json:"reason,omitempty"`
	BatchNumber    string `json:"batch_number,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty" jsonschema:"format=date"`
}

type TransactionQuery struct {
	ProductID  *int
	LocationID *int
	Limit      int
}

// CreateTransferRequest is the body of POST /api/stock-transfers.
type CreateTransferRequest struct {
	FromLocationID int                   `json:"from_location_id" jsonschema:"required"`
	ToLocationID   int                   `json:"to_location_id" jsonschema:"required"`
	Items          []TransferItemRequest `json:"items" jsonschema:"required,minItems=1"`
	Notes          string                `json:"notes,omitempty"`
}

type TransferItemRequest struct {
	ProductID int `json:"product_id" jsonschema:"required"`
	Quantity  int `json:"quantity" jsonschema:"required,minimum=1"`
}

type TransferQuery struct {
	Status     string
	LocationID *int
}

// CashCountRequest is the body of POST /api/cash/reconcile.
type CashCountRequest struct {
	BranchID      int             `json:"branch_id" jsonschema:"required"`
	Date          string          `json:"date,omitempty" jsonschema:"format=date"`
	ActualCash    decimal.Decimal `json:"actual_cash" jsonschema:"required"`
	Denominations map[string]int  `json:"denominations,omitempty" jsonschema:"description=Face value to note/coin count"`
	Notes         string          `json:"notes,omitempty"`
}

type CashSourceRequest struct {
	BranchID   int             `json:"branch_id" jsonschema:"required"`
	Date       string          `json:"date,omitempty" jsonschema:"format=date"`
	SourceType string          `json:"source_type" jsonschema:"required,enum=opening_balance,enum=owner_deposit,enum=other,enum=counter"`
	Amount     decimal.Decimal `json:"amount" jsonschema:"required"`
	Notes      string          `json:"notes,omitempty"`
}

type BankDepositRequest struct {
	BranchID  int             `json:"branch_id" jsonschema:"required"`
	Date      string          `json:"date,omitempty" jsonschema:"format=date"`
	Amount    decimal.Decimal `json:"amount" jsonschema:"required"`
	BankName  string          `json:"bank_name,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

type CashExpenseRequest struct {
	BranchID int             `json:"branch_id" jsonschema:"required"`
	Date     string          `json:"date,omitempty" jsonschema:"format=date"`
	Category string          `json:"category" jsonschema:"required"`
	Amount   decimal.Decimal `json:"amount" jsonschema:"required"`
	Notes    string          `json:"notes,omitempty"`
}

// ReportQuery selects a reporting window: a named period, or start/end dates
// (inclusive) for a custom one.
type ReportQuery struct {
	Period     string
	StartDate  string
	EndDate    string
	BranchID   *int
	EmployeeID *int
}
