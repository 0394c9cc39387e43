package postgres

import (
	"context"
	"fmt"
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

type catalogRepo struct{ q querier }

func (r catalogRepo) GetCustomer(ctx context.Context, id int) (*core.Customer, error) {
	var c core.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, name, phone, is_active, total_visits, total_spent, last_visit_date, created_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.IsActive, &c.TotalVisits, &c.TotalSpent, &c.LastVisitDate, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

func (r catalogRepo) GetBranch(ctx context.Context, id int) (*core.Branch, error) {
	var b core.Branch
	err := r.q.QueryRow(ctx,
		"SELECT id, code, name, active_location_id, is_active FROM branches WHERE id = $1", id,
	).Scan(&b.ID, &b.Code, &b.Name, &b.ActiveLocationID, &b.IsActive)
	if err != nil {
		return nil, notFound(err, "branch")
	}
	return &b, nil
}

func (r catalogRepo) GetService(ctx context.Context, id int) (*core.Service, error) {
	var s core.Service
	err := r.q.QueryRow(ctx,
		"SELECT id, name, category, price, star_points, is_active FROM services WHERE id = $1", id,
	).Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.StarPoints, &s.IsActive)
	if err != nil {
		return nil, notFound(err, "service")
	}
	return &s, nil
}

func (r catalogRepo) GetPackage(ctx context.Context, id int) (*core.Package, error) {
	var p core.Package
	err := r.q.QueryRow(ctx,
		"SELECT id, name, price, is_active FROM packages WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.IsActive)
	if err != nil {
		return nil, notFound(err, "package")
	}
	return &p, nil
}

func (r catalogRepo) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	var p core.Product
	err := r.q.QueryRow(ctx,
		"SELECT id, name, sku, price, is_active FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.IsActive)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return &p, nil
}

func (r catalogRepo) GetEmployee(ctx context.Context, id int) (*core.Employee, error) {
	var e core.Employee
	err := r.q.QueryRow(ctx,
		"SELECT id, branch_id, name, role, monthly_star_goal, is_active FROM employees WHERE id = $1", id,
	).Scan(&e.ID, &e.BranchID, &e.Name, &e.Role, &e.MonthlyStarGoal, &e.IsActive)
	if err != nil {
		return nil, notFound(err, "employee")
	}
	return &e, nil
}

func (r catalogRepo) GetLocation(ctx context.Context, id int) (*core.Location, error) {
	var l core.Location
	err := r.q.QueryRow(ctx,
		"SELECT id, branch_id, name, is_active FROM locations WHERE id = $1", id,
	).Scan(&l.ID, &l.BranchID, &l.Name, &l.IsActive)
	if err != nil {
		return nil, notFound(err, "location")
	}
	return &l, nil
}

func (r catalogRepo) RecordCustomerVisit(ctx context.Context, customerID int, amount decimal.Decimal, visitedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers
		SET total_visits = total_visits + 1,
		    total_spent = total_spent + $2,
		    last_visit_date = GREATEST(COALESCE(last_visit_date, $3), $3)
		WHERE id = $1
	`, customerID, amount, visitedAt)
	if err := mustAffect(tag, err, "customer"); err != nil {
		return fmt.Errorf("failed to record customer visit: %w", err)
	}
	return nil
}
