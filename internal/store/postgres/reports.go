package postgres

import (
	"context"
	"fmt"

	"salon-billing/internal/core"
)

type reportRepo struct{ q querier }

// AttributionRows counts assignees per item before the employee filter is
// applied, so a filtered report still divides by the full team size. Items
// without junction rows fall back to their single employee_id.
func (r reportRepo) AttributionRows(ctx context.Context, f core.ReportFilter) ([]core.AttributionRow, error) {
	rows, err := r.q.Query(ctx, `
		WITH scoped_items AS (
			SELECT b.id AS bill_id, b.bill_number, b.bill_date, b.branch_id,
			       bi.id AS item_id, bi.item_type, bi.item_name, bi.quantity, bi.total_price,
			       bi.employee_id, COALESCE(s.category, '') AS category, COALESCE(s.star_points, 0) AS star_points
			FROM bills b
			JOIN bill_items bi ON bi.bill_id = b.id
			LEFT JOIN services s ON s.id = bi.service_id
			WHERE b.status = 'completed' AND b.bill_date >= $1 AND b.bill_date < $2
			  AND ($3::int IS NULL OR b.branch_id = $3)
		),
		credits AS (
			SELECT bie.bill_item_id, bie.employee_id, bie.id AS credit_order,
			       COUNT(*) OVER (PARTITION BY bie.bill_item_id) AS assignees,
			       false AS legacy
			FROM bill_item_employees bie
			JOIN scoped_items si ON si.item_id = bie.bill_item_id
			UNION ALL
			SELECT si.item_id, si.employee_id, 0, 1, true
			FROM scoped_items si
			WHERE si.employee_id IS NOT NULL
			  AND NOT EXISTS (SELECT 1 FROM bill_item_employees x WHERE x.bill_item_id = si.item_id)
		)
		SELECT si.bill_id, si.bill_number, si.bill_date, si.branch_id, si.item_id, si.item_type, si.item_name,
		       si.category, si.quantity, si.total_price, si.star_points,
		       c.employee_id, e.name, c.assignees, c.legacy
		FROM credits c
		JOIN scoped_items si ON si.item_id = c.bill_item_id
		JOIN employees e ON e.id = c.employee_id
		WHERE $4::int IS NULL OR c.employee_id = $4
		ORDER BY si.bill_date, si.bill_id, si.item_id, c.credit_order
	`, f.Start, f.End, f.BranchID, f.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attribution rows: %w", err)
	}
	defer rows.Close()

	var out []core.AttributionRow
	for rows.Next() {
		var a core.AttributionRow
		if err := rows.Scan(&a.BillID, &a.BillNumber, &a.BillDate, &a.BranchID, &a.ItemID, &a.ItemType, &a.ItemName,
			&a.Category, &a.Quantity, &a.TotalPrice, &a.StarsPerUnit,
			&a.EmployeeID, &a.EmployeeName, &a.Assignees, &a.Legacy); err != nil {
			return nil, fmt.Errorf("failed to scan attribution row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r reportRepo) SalesSummary(ctx context.Context, f core.ReportFilter) (core.SalesSummary, error) {
	var s core.SalesSummary
	err := r.q.QueryRow(ctx, `
		WITH scoped AS (
			SELECT id, customer_id, total_amount FROM bills
			WHERE status = 'completed' AND bill_date >= $1 AND bill_date < $2
			  AND ($3::int IS NULL OR branch_id = $3)
		)
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM scoped),
			(SELECT COUNT(*) FROM scoped),
			(SELECT COUNT(DISTINCT customer_id) FROM scoped),
			(SELECT COUNT(*) FROM customers WHERE created_at >= $1 AND created_at < $2),
			(SELECT COALESCE(SUM(bi.quantity), 0) FROM bill_items bi JOIN scoped ON scoped.id = bi.bill_id WHERE bi.item_type = 'service'),
			(SELECT COALESCE(SUM(bi.quantity), 0) FROM bill_items bi JOIN scoped ON scoped.id = bi.bill_id WHERE bi.item_type = 'product')
	`, f.Start, f.End, f.BranchID).Scan(&s.Revenue, &s.BillCount, &s.CustomersServed, &s.NewCustomers,
		&s.ServicesPerformed, &s.ProductsSold)
	if err != nil {
		return s, fmt.Errorf("failed to summarize sales: %w", err)
	}
	return s, nil
}

func (r reportRepo) ServiceSales(ctx context.Context, f core.ReportFilter) ([]core.ServiceSalesRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.name, s.category, SUM(bi.quantity), SUM(bi.total_price) AS revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		JOIN services s ON s.id = bi.service_id
		WHERE bi.item_type = 'service' AND b.status = 'completed'
		  AND b.bill_date >= $1 AND b.bill_date < $2
		  AND ($3::int IS NULL OR b.branch_id = $3)
		GROUP BY s.id, s.name, s.category
		ORDER BY revenue DESC, s.id
	`, f.Start, f.End, f.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service sales: %w", err)
	}
	defer rows.Close()

	var out []core.ServiceSalesRow
	for rows.Next() {
		var s core.ServiceSalesRow
		if err := rows.Scan(&s.ServiceID, &s.Name, &s.Category, &s.Quantity, &s.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan service sales: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
