package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnSale        TransactionType = "sale"
	TxnAdjustment  TransactionType = "adjustment"
	TxnTransferIn  TransactionType = "transfer_in"
	TxnTransferOut TransactionType = "transfer_out"
)

type AdjustmentType string

const (
	AdjustAdd      AdjustmentType = "add"
	AdjustSubtract AdjustmentType = "subtract"
	AdjustSet      AdjustmentType = "set"
)

// Reference types recorded on inventory transactions.
const (
	RefBill       = "bill"
	RefTransfer   = "stock_transfer"
	RefAdjustment = "adjustment"
)

// Inventory is the stock of one product at one location, optionally per batch.
type Inventory struct {
	ID               int
	ProductID        int
	LocationID       int
	BatchNumber      string
	Quantity         int
	ReservedQuantity int
	ExpiryDate       *time.Time
	UpdatedAt        time.Time
}

func (i Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}

// InventoryTransaction is an immutable stock movement. Quantity is signed:
// negative for stock leaving FromLocationID.
type InventoryTransaction struct {
	ID             int
	ProductID      int
	Type           TransactionType
	Quantity       int
	FromLocationID *int
	ToLocationID   *int
	BatchNumber    string
	ReferenceType  string
	ReferenceID    *int
	Reason         string
	CreatedBy      int
	CreatedAt      time.Time
}

// StockLevel is a read view of an inventory row with names joined in.
type StockLevel struct {
	InventoryID  int
	ProductID    int
	ProductName  string
	SKU          string
	LocationID   int
	LocationName string
	BatchNumber  string
	Quantity     int
	Reserved     int
	Available    int
	ExpiryDate   *time.Time
	UnitPrice    decimal.Decimal
}

type StockAdjustmentInput struct {
	ProductID      int
	LocationID     int
	Quantity       int
	AdjustmentType AdjustmentType
	Reason         string
	BatchNumber    string
	ExpiryDate     *time.Time
	Actor          Actor
}

type StockAdjustmentResult struct {
	Inventory   Inventory
	Previous    int
	Transaction *InventoryTransaction
}

type TransactionFilter struct {
	ProductID  *int
	LocationID *int
	Limit      int
}

// ── Stock transfers ───────────────────────────────────────────────────────────

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

type StockTransfer struct {
	ID               int
	TransferNumber   string
	FromLocationID   int
	FromLocationName string
	ToLocationID     int
	ToLocationName   string
	Status           TransferStatus
	Notes            string
	RequestedBy      int
	ApprovedBy       *int
	CreatedAt        time.Time
	CompletedAt      *time.Time
	Items            []StockTransferItem
}

type StockTransferItem struct {
	ID                int
	TransferID        int
	ProductID         int
	ProductName       string
	RequestedQuantity int
	SentQuantity      *int
	ReceivedQuantity  *int
}

type TransferItemInput struct {
	ProductID int
	Quantity  int
}

type CreateTransferInput struct {
	FromLocationID int
	ToLocationID   int
	Items          []TransferItemInput
	Notes          string
	Actor          Actor
}

type TransferFilter struct {
	Status     *TransferStatus
	LocationID *int
}
