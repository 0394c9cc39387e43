package postgres

import (
	"context"
	"fmt"
	"strings"

	"salon-billing/internal/core"
)

type inventoryRepo struct{ q querier }

func (r inventoryRepo) LockRows(ctx context.Context, productID, locationID int) ([]core.Inventory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, location_id, batch_number, quantity, reserved_quantity, expiry_date, updated_at
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
		ORDER BY expiry_date ASC NULLS LAST, id ASC
		FOR UPDATE
	`, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory: %w", err)
	}
	defer rows.Close()

	var out []core.Inventory
	for rows.Next() {
		var inv core.Inventory
		if err := rows.Scan(&inv.ID, &inv.ProductID, &inv.LocationID, &inv.BatchNumber,
			&inv.Quantity, &inv.ReservedQuantity, &inv.ExpiryDate, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r inventoryRepo) Create(ctx context.Context, inv *core.Inventory) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory (product_id, location_id, batch_number, quantity, reserved_quantity, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, updated_at
	`, inv.ProductID, inv.LocationID, inv.BatchNumber, inv.Quantity, inv.ReservedQuantity, inv.ExpiryDate,
	).Scan(&inv.ID, &inv.UpdatedAt)
	if err != nil {
		return conflict(err, "inventory row")
	}
	return nil
}

func (r inventoryRepo) SetQuantity(ctx context.Context, id, quantity int) error {
	tag, err := r.q.Exec(ctx, "UPDATE inventory SET quantity = $2, updated_at = NOW() WHERE id = $1", id, quantity)
	return mustAffect(tag, err, "inventory")
}

func (r inventoryRepo) AppendTransaction(ctx context.Context, t *core.InventoryTransaction) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_transactions (product_id, transaction_type, quantity, from_location_id, to_location_id,
		                                    batch_number, reference_type, reference_id, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, t.ProductID, string(t.Type), t.Quantity, t.FromLocationID, t.ToLocationID,
		t.BatchNumber, t.ReferenceType, t.ReferenceID, t.Reason, t.CreatedBy, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to record inventory transaction: %w", err)
	}
	return nil
}

func (r inventoryRepo) StockLevels(ctx context.Context, locationID *int) ([]core.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.product_id, p.name, p.sku, i.location_id, l.name, i.batch_number,
		       i.quantity, i.reserved_quantity, i.expiry_date, p.price
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN locations l ON l.id = i.location_id
		WHERE $1::int IS NULL OR i.location_id = $1
		ORDER BY p.name, l.name, i.batch_number
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var out []core.StockLevel
	for rows.Next() {
		var s core.StockLevel
		if err := rows.Scan(&s.InventoryID, &s.ProductID, &s.ProductName, &s.SKU, &s.LocationID, &s.LocationName,
			&s.BatchNumber, &s.Quantity, &s.Reserved, &s.ExpiryDate, &s.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		s.Available = s.Quantity - s.Reserved
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r inventoryRepo) Transactions(ctx context.Context, f core.TransactionFilter) ([]core.InventoryTransaction, error) {
	var where []string
	var args []any
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.LocationID != nil {
		args = append(args, *f.LocationID)
		where = append(where, fmt.Sprintf("(from_location_id = $%[1]d OR to_location_id = $%[1]d)", len(args)))
	}
	query := `
		SELECT id, product_id, transaction_type, quantity, from_location_id, to_location_id,
		       batch_number, reference_type, reference_id, reason, created_by, created_at
		FROM inventory_transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory transactions: %w", err)
	}
	defer rows.Close()

	var out []core.InventoryTransaction
	for rows.Next() {
		var t core.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.FromLocationID, &t.ToLocationID,
			&t.BatchNumber, &t.ReferenceType, &t.ReferenceID, &t.Reason, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
