package postgres

import (
	"context"
	"fmt"
	"strings"

	"salon-billing/internal/core"

	"github.com/jackc/pgx/v5"
)

type billRepo struct{ q querier }

func (r billRepo) Create(ctx context.Context, bill *core.Bill) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO bills (bill_number, branch_id, customer_id, bill_date, subtotal, discount_amount,
		                   discount_reason, tax_amount, total_amount, status, is_imported, notes, created_by,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING id
	`, bill.BillNumber, bill.BranchID, bill.CustomerID, bill.BillDate, bill.Subtotal, bill.DiscountAmount,
		bill.DiscountReason, bill.TaxAmount, bill.TotalAmount, string(bill.Status), bill.Imported, bill.Notes, bill.CreatedBy,
		bill.CreatedAt,
	).Scan(&bill.ID)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Items {
		it := &bill.Items[i]
		it.BillID = bill.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO bill_items (bill_id, item_type, service_id, package_id, product_id, item_name, quantity,
			                        unit_price, discount_amount, total_price, employee_id, chair_id, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`, bill.ID, string(it.ItemType), it.ServiceID, it.PackageID, it.ProductID, it.ItemName, it.Quantity,
			it.UnitPrice, it.DiscountAmount, it.TotalPrice, it.EmployeeID, it.ChairID, string(it.Status), it.Notes,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("failed to insert bill item %d: %w", i+1, err)
		}
	}

	for i := range bill.Payments {
		p := &bill.Payments[i]
		p.BillID = bill.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO payments (bill_id, payment_mode, amount, transaction_reference, bank_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, bill.ID, string(p.PaymentMode), p.Amount, p.TransactionReference, p.BankName, p.CreatedAt).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert payment %d: %w", i+1, err)
		}
	}
	return nil
}

func (r billRepo) AddItemEmployees(ctx context.Context, itemID int, employeeIDs []int) error {
	for _, id := range employeeIDs {
		_, err := r.q.Exec(ctx,
			"INSERT INTO bill_item_employees (bill_item_id, employee_id) VALUES ($1, $2)", itemID, id)
		if err != nil {
			return fmt.Errorf("failed to assign employee %d to item %d: %w", id, itemID, err)
		}
	}
	return nil
}

const billHeaderColumns = `
	b.id, b.bill_number, b.branch_id, br.name, b.customer_id, c.name, c.phone, b.bill_date,
	b.subtotal, b.discount_amount, b.discount_reason, b.tax_amount, b.total_amount,
	b.status, b.is_imported, b.notes, b.created_by, b.created_at, b.updated_at`

const billHeaderFrom = `
	FROM bills b
	JOIN branches br ON br.id = b.branch_id
	JOIN customers c ON c.id = b.customer_id`

func scanBillHeader(row pgx.Row, b *core.Bill) error {
	return row.Scan(
		&b.ID, &b.BillNumber, &b.BranchID, &b.BranchName, &b.CustomerID, &b.CustomerName, &b.CustomerPhone, &b.BillDate,
		&b.Subtotal, &b.DiscountAmount, &b.DiscountReason, &b.TaxAmount, &b.TotalAmount,
		&b.Status, &b.Imported, &b.Notes, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
}

func (r billRepo) Get(ctx context.Context, id int) (*core.Bill, error) {
	return r.get(ctx, id, "")
}

func (r billRepo) GetForUpdate(ctx context.Context, id int) (*core.Bill, error) {
	return r.get(ctx, id, "FOR UPDATE OF b")
}

func (r billRepo) get(ctx context.Context, id int, lock string) (*core.Bill, error) {
	var b core.Bill
	query := "SELECT " + billHeaderColumns + billHeaderFrom + " WHERE b.id = $1 " + lock
	if err := scanBillHeader(r.q.QueryRow(ctx, query, id), &b); err != nil {
		return nil, notFound(err, "bill")
	}
	if err := r.loadItems(ctx, &b); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r billRepo) loadItems(ctx context.Context, b *core.Bill) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, bill_id, item_type, service_id, package_id, product_id, item_name, quantity,
		       unit_price, discount_amount, total_price, employee_id, chair_id, status, notes
		FROM bill_items WHERE bill_id = $1 ORDER BY id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to query bill items: %w", err)
	}
	defer rows.Close()

	index := make(map[int]int)
	for rows.Next() {
		var it core.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ItemType, &it.ServiceID, &it.PackageID, &it.ProductID,
			&it.ItemName, &it.Quantity, &it.UnitPrice, &it.DiscountAmount, &it.TotalPrice,
			&it.EmployeeID, &it.ChairID, &it.Status, &it.Notes); err != nil {
			return fmt.Errorf("failed to scan bill item: %w", err)
		}
		index[it.ID] = len(b.Items)
		b.Items = append(b.Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read bill items: %w", err)
	}
	if len(b.Items) == 0 {
		return nil
	}

	empRows, err := r.q.Query(ctx, `
		SELECT bie.id, bie.bill_item_id, bie.employee_id, e.name
		FROM bill_item_employees bie
		JOIN bill_items bi ON bi.id = bie.bill_item_id
		JOIN employees e ON e.id = bie.employee_id
		WHERE bi.bill_id = $1
		ORDER BY bie.id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to query item employees: %w", err)
	}
	defer empRows.Close()
	for empRows.Next() {
		var e core.BillItemEmployee
		if err := empRows.Scan(&e.ID, &e.BillItemID, &e.EmployeeID, &e.EmployeeName); err != nil {
			return fmt.Errorf("failed to scan item employee: %w", err)
		}
		if i, ok := index[e.BillItemID]; ok {
			b.Items[i].Employees = append(b.Items[i].Employees, e)
		}
	}
	return empRows.Err()
}

func (r billRepo) loadPayments(ctx context.Context, b *core.Bill) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, bill_id, payment_mode, amount, transaction_reference, bank_name, created_at
		FROM payments WHERE bill_id = $1 ORDER BY id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.ID, &p.BillID, &p.PaymentMode, &p.Amount, &p.TransactionReference, &p.BankName, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		b.Payments = append(b.Payments, p)
	}
	return rows.Err()
}

func (r billRepo) List(ctx context.Context, f core.BillFilter) ([]core.Bill, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.BranchID != nil {
		add("b.branch_id = $%d", *f.BranchID)
	}
	if f.CustomerID != nil {
		add("b.customer_id = $%d", *f.CustomerID)
	}
	if f.Status != nil {
		add("b.status = $%d", string(*f.Status))
	}
	if f.StartDate != nil {
		add("b.bill_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("b.bill_date < $%d", *f.EndDate)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(b.bill_number ILIKE $%[1]d OR c.name ILIKE $%[1]d OR c.phone ILIKE $%[1]d)", "%"+s+"%")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*)"+billHeaderFrom+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf("SELECT %s %s %s ORDER BY b.bill_date DESC, b.id DESC LIMIT $%d OFFSET $%d",
		billHeaderColumns, billHeaderFrom, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		var b core.Bill
		if err := scanBillHeader(rows, &b); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, total, nil
}

func (r billRepo) UpdateHeader(ctx context.Context, id int, status core.BillStatus, notes string) error {
	tag, err := r.q.Exec(ctx,
		"UPDATE bills SET status = $2, notes = $3, updated_at = NOW() WHERE id = $1", id, string(status), notes)
	return mustAffect(tag, err, "bill")
}

func (r billRepo) UpdateItemStatus(ctx context.Context, itemID int, status core.ItemStatus) error {
	tag, err := r.q.Exec(ctx, "UPDATE bill_items SET status = $2 WHERE id = $1", itemID, string(status))
	return mustAffect(tag, err, "bill item")
}

func (r billRepo) CustomerStats(ctx context.Context, customerID int) (core.CustomerBillStats, error) {
	var s core.CustomerBillStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0), MIN(bill_date), MAX(bill_date)
		FROM bills WHERE customer_id = $1 AND status = 'completed'
	`, customerID).Scan(&s.Count, &s.Spent, &s.FirstVisit, &s.LastVisit)
	if err != nil {
		return s, fmt.Errorf("failed to aggregate customer bills: %w", err)
	}
	return s, nil
}
