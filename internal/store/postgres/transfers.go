package postgres

import (
	"context"
	"fmt"
	"strings"

	"salon-billing/internal/core"

	"github.com/jackc/pgx/v5"
)

type transferRepo struct{ q querier }

func (r transferRepo) Create(ctx context.Context, t *core.StockTransfer) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_transfers (transfer_number, from_location_id, to_location_id, status, notes, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.TransferNumber, t.FromLocationID, t.ToLocationID, string(t.Status), t.Notes, t.RequestedBy, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to insert stock transfer: %w", err)
	}
	for i := range t.Items {
		it := &t.Items[i]
		it.TransferID = t.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO stock_transfer_items (transfer_id, product_id, requested_quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, t.ID, it.ProductID, it.RequestedQuantity).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("failed to insert stock transfer item: %w", err)
		}
	}
	return nil
}

const transferColumns = `
	t.id, t.transfer_number, t.from_location_id, fl.name, t.to_location_id, tl.name,
	t.status, t.notes, t.requested_by, t.approved_by, t.created_at, t.completed_at
	FROM stock_transfers t
	JOIN locations fl ON fl.id = t.from_location_id
	JOIN locations tl ON tl.id = t.to_location_id`

func scanTransfer(row pgx.Row, t *core.StockTransfer) error {
	return row.Scan(&t.ID, &t.TransferNumber, &t.FromLocationID, &t.FromLocationName, &t.ToLocationID, &t.ToLocationName,
		&t.Status, &t.Notes, &t.RequestedBy, &t.ApprovedBy, &t.CreatedAt, &t.CompletedAt)
}

func (r transferRepo) Get(ctx context.Context, id int) (*core.StockTransfer, error) {
	return r.get(ctx, id, "")
}

func (r transferRepo) GetForUpdate(ctx context.Context, id int) (*core.StockTransfer, error) {
	return r.get(ctx, id, "FOR UPDATE OF t")
}

func (r transferRepo) get(ctx context.Context, id int, lock string) (*core.StockTransfer, error) {
	var t core.StockTransfer
	if err := scanTransfer(r.q.QueryRow(ctx, "SELECT "+transferColumns+" WHERE t.id = $1 "+lock, id), &t); err != nil {
		return nil, notFound(err, "stock transfer")
	}
	if err := r.loadItems(ctx, []*core.StockTransfer{&t}); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r transferRepo) loadItems(ctx context.Context, transfers []*core.StockTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	ids := make([]int, len(transfers))
	byID := make(map[int]*core.StockTransfer, len(transfers))
	for i, t := range transfers {
		ids[i] = t.ID
		byID[t.ID] = t
	}
	rows, err := r.q.Query(ctx, `
		SELECT sti.id, sti.transfer_id, sti.product_id, p.name, sti.requested_quantity, sti.sent_quantity, sti.received_quantity
		FROM stock_transfer_items sti
		JOIN products p ON p.id = sti.product_id
		WHERE sti.transfer_id = ANY($1)
		ORDER BY sti.id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query stock transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it core.StockTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.ProductName,
			&it.RequestedQuantity, &it.SentQuantity, &it.ReceivedQuantity); err != nil {
			return fmt.Errorf("failed to scan stock transfer item: %w", err)
		}
		t := byID[it.TransferID]
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}

func (r transferRepo) Complete(ctx context.Context, t *core.StockTransfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_transfers SET status = $2, approved_by = $3, completed_at = $4 WHERE id = $1
	`, t.ID, string(t.Status), t.ApprovedBy, t.CompletedAt)
	if err := mustAffect(tag, err, "stock transfer"); err != nil {
		return err
	}
	for _, it := range t.Items {
		tag, err := r.q.Exec(ctx,
			"UPDATE stock_transfer_items SET sent_quantity = $2, received_quantity = $3 WHERE id = $1",
			it.ID, it.SentQuantity, it.ReceivedQuantity)
		if err := mustAffect(tag, err, "stock transfer item"); err != nil {
			return err
		}
	}
	return nil
}

func (r transferRepo) SetStatus(ctx context.Context, id int, status core.TransferStatus) error {
	tag, err := r.q.Exec(ctx, "UPDATE stock_transfers SET status = $2 WHERE id = $1", id, string(status))
	return mustAffect(tag, err, "stock transfer")
}

func (r transferRepo) List(ctx context.Context, f core.TransferFilter) ([]core.StockTransfer, error) {
	var where []string
	var args []any
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.LocationID != nil {
		args = append(args, *f.LocationID)
		where = append(where, fmt.Sprintf("(t.from_location_id = $%[1]d OR t.to_location_id = $%[1]d)", len(args)))
	}
	query := "SELECT " + transferColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transfers: %w", err)
	}
	defer rows.Close()
	var out []core.StockTransfer
	for rows.Next() {
		var t core.StockTransfer
		if err := scanTransfer(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan stock transfer: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list stock transfers: %w", err)
	}

	ptrs := make([]*core.StockTransfer, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := r.loadItems(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}
