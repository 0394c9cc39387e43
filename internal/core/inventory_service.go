package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// InventoryService manages per-location stock and its movement log. Stock rows
// only change through this ledger: every change appends an InventoryTransaction.
type InventoryService interface {
	// AdjustStock applies a manual add, subtract or set to one product/location/batch.
	AdjustStock(ctx context.Context, in StockAdjustmentInput) (*StockAdjustmentResult, error)
	// GetStockLevels returns stock rows, optionally for one location.
	GetStockLevels(ctx context.Context, locationID *int) ([]StockLevel, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error)
}

type inventoryService struct {
	store Store
	opts  Options
	log   *zap.Logger
}

func NewInventoryService(store Store, opts Options) InventoryService {
	opts = opts.withDefaults()
	return &inventoryService{store: store, opts: opts, log: opts.Logger.Named("inventory")}
}

// ── Ledger primitives (run inside a caller's transaction) ─────────────────────

// errNoStockRows means the product has never been stocked at the location.
var errNoStockRows = errors.New("no inventory rows")

type batchTake struct {
	row   Inventory
	taken int
}

// takeStock removes qty units of product from location, earliest expiry first.
// It fails with InsufficientStock, naming the product, when the available
// quantity across batches cannot cover qty.
func takeStock(ctx context.Context, inv InventoryRepository, product *Product, locationID, qty int) ([]batchTake, error) {
	rows, err := inv.LockRows(ctx, product.ID, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory for product %d: %w", product.ID, err)
	}
	if len(rows) == 0 {
		return nil, errNoStockRows
	}

	available := 0
	for _, r := range rows {
		available += max(r.Available(), 0)
	}
	if available < qty {
		return nil, InsufficientStock("insufficient stock for %s at location %d: available %d, requested %d",
			product.Name, locationID, available, qty)
	}

	var takes []batchTake
	remaining := qty
	for _, r := range rows {
		if remaining == 0 {
			break
		}
		take := min(max(r.Available(), 0), remaining)
		if take == 0 {
			continue
		}
		if err := inv.SetQuantity(ctx, r.ID, r.Quantity-take); err != nil {
			return nil, fmt.Errorf("failed to update inventory row %d: %w", r.ID, err)
		}
		takes = append(takes, batchTake{row: r, taken: take})
		remaining -= take
	}
	return takes, nil
}

// putStock adds qty units to the row for product/location/batch, creating it
// when absent.
func putStock(ctx context.Context, inv InventoryRepository, productID, locationID int, batch string, expiry *time.Time, qty int, now time.Time) (*Inventory, error) {
	rows, err := inv.LockRows(ctx, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory for product %d: %w", productID, err)
	}
	if row := findBatch(rows, batch); row != nil {
		row.Quantity += qty
		if err := inv.SetQuantity(ctx, row.ID, row.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update inventory row %d: %w", row.ID, err)
		}
		return row, nil
	}
	row := &Inventory{
		ProductID:   productID,
		LocationID:  locationID,
		BatchNumber: batch,
		Quantity:    qty,
		ExpiryDate:  expiry,
		UpdatedAt:   now,
	}
	if err := inv.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create inventory row: %w", err)
	}
	return row, nil
}

func findBatch(rows []Inventory, batch string) *Inventory {
	for i := range rows {
		if rows[i].BatchNumber == batch {
			return &rows[i]
		}
	}
	return nil
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) AdjustStock(ctx context.Context, in StockAdjustmentInput) (*StockAdjustmentResult, error) {
	switch in.AdjustmentType {
	case AdjustAdd, AdjustSubtract:
		if in.Quantity <= 0 {
			return nil, Validation("quantity must be positive for %s", in.AdjustmentType)
		}
	case AdjustSet:
		if in.Quantity < 0 {
			return nil, Validation("quantity must not be negative")
		}
	default:
		return nil, InvalidAdjustmentType(string(in.AdjustmentType))
	}

	var result *StockAdjustmentResult
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		product, err := r.Catalog().GetProduct(ctx, in.ProductID)
		if err != nil {
			return entityErr(err, "product", in.ProductID)
		}
		if _, err := r.Catalog().GetLocation(ctx, in.LocationID); err != nil {
			return entityErr(err, "location", in.LocationID)
		}

		inv := r.Inventory()
		rows, err := inv.LockRows(ctx, product.ID, in.LocationID)
		if err != nil {
			return fmt.Errorf("failed to lock inventory: %w", err)
		}
		row := findBatch(rows, in.BatchNumber)
		now := s.opts.Now()

		previous := 0
		if row != nil {
			previous = row.Quantity
		}
		next := previous
		switch in.AdjustmentType {
		case AdjustAdd:
			next = previous + in.Quantity
		case AdjustSubtract:
			if row == nil || row.Available() < in.Quantity {
				available := 0
				if row != nil {
					available = row.Available()
				}
				return InsufficientStock("insufficient stock for %s: available %d, requested %d",
					product.Name, available, in.Quantity)
			}
			next = previous - in.Quantity
		case AdjustSet:
			if row != nil && in.Quantity < row.ReservedQuantity {
				return InsufficientStock("cannot set %s below its reserved quantity %d", product.Name, row.ReservedQuantity)
			}
			next = in.Quantity
		}

		if row == nil {
			row = &Inventory{
				ProductID:   product.ID,
				LocationID:  in.LocationID,
				BatchNumber: in.BatchNumber,
				Quantity:    next,
				ExpiryDate:  in.ExpiryDate,
				UpdatedAt:   now,
			}
			if err := inv.Create(ctx, row); err != nil {
				return fmt.Errorf("failed to create inventory row: %w", err)
			}
		} else if next != previous {
			if err := inv.SetQuantity(ctx, row.ID, next); err != nil {
				return fmt.Errorf("failed to update inventory row: %w", err)
			}
			row.Quantity = next
		}

		result = &StockAdjustmentResult{Inventory: *row, Previous: previous}
		delta := next - previous
		if delta == 0 {
			return nil
		}
		txn := &InventoryTransaction{
			ProductID:     product.ID,
			Type:          TxnAdjustment,
			Quantity:      delta,
			BatchNumber:   in.BatchNumber,
			ReferenceType: RefAdjustment,
			Reason:        in.Reason,
			CreatedBy:     in.Actor.UserID,
			CreatedAt:     now,
		}
		loc := in.LocationID
		if delta > 0 {
			txn.ToLocationID = &loc
		} else {
			txn.FromLocationID = &loc
		}
		if err := inv.AppendTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to record adjustment: %w", err)
		}
		result.Transaction = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		zap.Int("product_id", in.ProductID),
		zap.Int("location_id", in.LocationID),
		zap.String("type", string(in.AdjustmentType)),
		zap.Int("from", result.Previous),
		zap.Int("to", result.Inventory.Quantity),
	)
	return result, nil
}

func (s *inventoryService) GetStockLevels(ctx context.Context, locationID *int) ([]StockLevel, error) {
	if locationID != nil {
		if _, err := s.store.Catalog().GetLocation(ctx, *locationID); err != nil {
			return nil, entityErr(err, "location", *locationID)
		}
	}
	levels, err := s.store.Inventory().StockLevels(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	return levels, nil
}

func (s *inventoryService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	txns, err := s.store.Inventory().Transactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory transactions: %w", err)
	}
	return txns, nil
}
