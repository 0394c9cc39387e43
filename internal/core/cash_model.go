package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashSourceType string

const (
	CashOpeningBalance CashSourceType = "opening_balance"
	CashOwnerDeposit   CashSourceType = "owner_deposit"
	CashOther          CashSourceType = "other"
	CashCounter        CashSourceType = "counter"
)

func (t CashSourceType) Valid() bool {
	switch t {
	case CashOpeningBalance, CashOwnerDeposit, CashOther, CashCounter:
		return true
	}
	return false
}

type ReconciliationStatus string

const (
	CashBalanced ReconciliationStatus = "balanced"
	CashSurplus  ReconciliationStatus = "surplus"
	CashShortage ReconciliationStatus = "shortage"
)

// CashSource is cash put into the drawer from outside the bills, including
// discrepancy entries written by a cash count. Amount may be negative for
// shortage entries.
type CashSource struct {
	ID            int
	BranchID      int
	Date          time.Time
	SourceType    CashSourceType
	Amount        decimal.Decimal
	Notes         string
	Status        ReconciliationStatus
	Denominations map[string]int
	RecordedBy    int
	CreatedAt     time.Time
}

type BankDeposit struct {
	ID         int
	BranchID   int
	Date       time.Time
	Amount     decimal.Decimal
	BankName   string
	Reference  string
	RecordedBy int
	CreatedAt  time.Time
}

type CashExpense struct {
	ID         int
	BranchID   int
	Date       time.Time
	Category   string
	Amount     decimal.Decimal
	Notes      string
	RecordedBy int
	CreatedAt  time.Time
}

// DayWindow is a half-open [Start, End) interval covering one local day.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// CashTotals are the raw sums a repository returns for one branch/day.
type CashTotals struct {
	CashPayments   decimal.Decimal
	CashSources    decimal.Decimal
	BankDeposits   decimal.Decimal
	CashExpenses   decimal.Decimal
	PaymentsByMode map[PaymentMode]decimal.Decimal
	BillCount      int
}

type DailyCashSummary struct {
	BranchID          int
	Date              time.Time
	CashPaymentsTotal decimal.Decimal
	CashSourcesTotal  decimal.Decimal
	BankDepositsTotal decimal.Decimal
	CashExpensesTotal decimal.Decimal
	ExpectedCash      decimal.Decimal
	PaymentsByMode    map[PaymentMode]decimal.Decimal
	BillCount         int
}

type CashCountInput struct {
	BranchID      int
	Date          time.Time
	ActualCash    decimal.Decimal
	Denominations map[string]int
	Notes         string
	Actor         Actor
}

type CashCountResult struct {
	Summary    DailyCashSummary
	ActualCash decimal.Decimal
	Difference decimal.Decimal
	Status     ReconciliationStatus
	Record     *CashSource
}

type CashSourceInput struct {
	BranchID   int
	Date       time.Time
	SourceType CashSourceType
	Amount     decimal.Decimal
	Notes      string
	Actor      Actor
}

type BankDepositInput struct {
	BranchID  int
	Date      time.Time
	Amount    decimal.Decimal
	BankName  string
	Reference string
	Actor     Actor
}

type CashExpenseInput struct {
	BranchID int
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Notes    string
	Actor    Actor
}
