package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillDraft     BillStatus = "draft"
	BillPending   BillStatus = "pending"
	BillCompleted BillStatus = "completed"
	BillCancelled BillStatus = "cancelled"
)

type ItemType string

const (
	ItemService ItemType = "service"
	ItemPackage ItemType = "package"
	ItemProduct ItemType = "product"
)

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemCompleted  ItemStatus = "completed"
	ItemRejected   ItemStatus = "rejected"
)

type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentCard   PaymentMode = "card"
	PaymentUPI    PaymentMode = "upi"
	PaymentOnline PaymentMode = "online"
	PaymentOther  PaymentMode = "other"
)

// PaymentModes lists every accepted tender in display order.
var PaymentModes = []PaymentMode{PaymentCash, PaymentCard, PaymentUPI, PaymentOnline, PaymentOther}

func (m PaymentMode) Valid() bool {
	for _, v := range PaymentModes {
		if m == v {
			return true
		}
	}
	return false
}

// Bill is the header of one checkout transaction.
//
//	TotalAmount = Subtotal - DiscountAmount + TaxAmount
//
// DiscountAmount holds item discounts plus the bill-level discount.
type Bill struct {
	ID             int
	BillNumber     string
	BranchID       int
	BranchName     string
	CustomerID     int
	CustomerName   string
	CustomerPhone  string
	BillDate       time.Time
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountReason string
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         BillStatus
	Imported       bool
	Notes          string
	CreatedBy      int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items    []BillItem
	Payments []Payment
}

// BillItem is one priced line. Exactly one of ServiceID, PackageID or ProductID
// is set, matching ItemType.
type BillItem struct {
	ID             int
	BillID         int
	ItemType       ItemType
	ServiceID      *int
	PackageID      *int
	ProductID      *int
	ItemName       string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalPrice     decimal.Decimal
	EmployeeID     *int
	ChairID        *int
	Status         ItemStatus
	Notes          string

	Employees []BillItemEmployee
}

// BillItemEmployee credits one employee with a 1/N share of an item.
type BillItemEmployee struct {
	ID           int
	BillItemID   int
	EmployeeID   int
	EmployeeName string
}

type Payment struct {
	ID                   int
	BillID               int
	PaymentMode          PaymentMode
	Amount               decimal.Decimal
	TransactionReference string
	BankName             string
	CreatedAt            time.Time
}

// ── Inputs ────────────────────────────────────────────────────────────────────

type BillItemInput struct {
	ItemType           ItemType
	ServiceID          *int
	PackageID          *int
	ProductID          *int
	EmployeeID         *int
	EmployeeIDs        []int
	ChairID            *int
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountAmount     *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	Notes              string
}

type PaymentInput struct {
	PaymentMode          PaymentMode
	Amount               decimal.Decimal
	TransactionReference string
	BankName             string
}

type CreateBillInput struct {
	CustomerID     int
	BranchID       int
	Items          []BillItemInput
	Payments       []PaymentInput
	DiscountAmount decimal.Decimal
	DiscountReason string
	TaxAmount      decimal.Decimal
	Notes          string
	// BillDate overrides the creation time for imported bills.
	BillDate *time.Time
	Imported bool
	Actor    Actor
}

type ItemStatusUpdate struct {
	ItemID int
	Status ItemStatus
}

type UpdateBillInput struct {
	Status *BillStatus
	Notes  *string
	Items  []ItemStatusUpdate
	Actor  Actor
}

// BillFilter selects bills for listing. Scope pins non-admin actors to their branch.
type BillFilter struct {
	BranchID   *int
	CustomerID *int
	Status     *BillStatus
	StartDate  *time.Time
	EndDate    *time.Time // exclusive
	Search     string
	Page       int
	Limit      int
	Scope      Actor
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type BillPage struct {
	Bills      []Bill
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// CustomerStatistics pairs the stored counters with figures recomputed from
// completed bills.
type CustomerStatistics struct {
	Customer       Customer
	CompletedBills int
	LifetimeSpent  decimal.Decimal
	AverageBill    decimal.Decimal
	FirstVisit     *time.Time
	LastVisit      *time.Time
}

// CustomerBillStats is the raw aggregate a repository returns for a customer.
type CustomerBillStats struct {
	Count      int
	Spent      decimal.Decimal
	FirstVisit *time.Time
	LastVisit  *time.Time
}
