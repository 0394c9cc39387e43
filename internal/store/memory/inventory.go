package memory

import (
	"context"
	"sort"
	"time"

	"salon-billing/internal/core"
)

type inventoryRepo struct{ repos }

func (r inventoryRepo) LockRows(_ context.Context, productID, locationID int) ([]core.Inventory, error) {
	st, done := r.begin()
	defer done()
	var rows []core.Inventory
	for _, inv := range st.inventory {
		if inv.ProductID == productID && inv.LocationID == locationID {
			rows = append(rows, inv)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].ExpiryDate, rows[j].ExpiryDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (r inventoryRepo) Create(_ context.Context, inv *core.Inventory) error {
	st, done := r.begin()
	defer done()
	inv.ID = st.nextID("inventory")
	st.inventory[inv.ID] = *inv
	return nil
}

func (r inventoryRepo) SetQuantity(_ context.Context, id, quantity int) error {
	st, done := r.begin()
	defer done()
	inv, ok := st.inventory[id]
	if !ok {
		return core.ErrNotFound
	}
	inv.Quantity = quantity
	inv.UpdatedAt = time.Now()
	st.inventory[id] = inv
	return nil
}

func (r inventoryRepo) AppendTransaction(_ context.Context, txn *core.InventoryTransaction) error {
	st, done := r.begin()
	defer done()
	txn.ID = st.nextID("inventory_transactions")
	st.inventoryTxns = append(st.inventoryTxns, *txn)
	return nil
}

func (r inventoryRepo) StockLevels(_ context.Context, locationID *int) ([]core.StockLevel, error) {
	st, done := r.begin()
	defer done()
	var levels []core.StockLevel
	for _, inv := range st.inventory {
		if locationID != nil && inv.LocationID != *locationID {
			continue
		}
		p := st.products[inv.ProductID]
		levels = append(levels, core.StockLevel{
			InventoryID:  inv.ID,
			ProductID:    inv.ProductID,
			ProductName:  p.Name,
			SKU:          p.SKU,
			LocationID:   inv.LocationID,
			LocationName: st.locations[inv.LocationID].Name,
			BatchNumber:  inv.BatchNumber,
			Quantity:     inv.Quantity,
			Reserved:     inv.ReservedQuantity,
			Available:    inv.Available(),
			ExpiryDate:   inv.ExpiryDate,
			UnitPrice:    p.Price,
		})
	}
	sort.Slice(levels, func(i, j int) bool {
		a, b := levels[i], levels[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return a.BatchNumber < b.BatchNumber
	})
	return levels, nil
}

func (r inventoryRepo) Transactions(_ context.Context, f core.TransactionFilter) ([]core.InventoryTransaction, error) {
	st, done := r.begin()
	defer done()
	var out []core.InventoryTransaction
	for i := len(st.inventoryTxns) - 1; i >= 0; i-- {
		t := st.inventoryTxns[i]
		if f.ProductID != nil && t.ProductID != *f.ProductID {
			continue
		}
		if f.LocationID != nil && !touches(t, *f.LocationID) {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func touches(t core.InventoryTransaction, locationID int) bool {
	return (t.FromLocationID != nil && *t.FromLocationID == locationID) ||
		(t.ToLocationID != nil && *t.ToLocationID == locationID)
}
