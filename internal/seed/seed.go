// Package seed holds the demo salon catalog and loads it into a store.
package seed

import (
	"context"
	"fmt"
	"strconv"

	"salon-billing/internal/core"
	"salon-billing/internal/store/memory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Catalog is a complete set of reference data for one salon.
type Catalog struct {
	Locations []core.Location
	Branches  []core.Branch
	Customers []core.Customer
	Employees []core.Employee
	Services  []core.Service
	Packages  []core.Package
	Products  []core.Product
	Inventory []core.Inventory
	StarGoal  int
}

func ptr[T any](v T) *T { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Demo returns a two-branch salon with a central warehouse.
func Demo() Catalog {
	return Catalog{
		Locations: []core.Location{
			{ID: 1, BranchID: ptr(1), Name: "Indiranagar Store", IsActive: true},
			{ID: 2, BranchID: ptr(2), Name: "Koramangala Store", IsActive: true},
			{ID: 3, Name: "Central Warehouse", IsActive: true},
		},
		Branches: []core.Branch{
			{ID: 1, Code: "IND", Name: "Indiranagar", ActiveLocationID: ptr(1), IsActive: true},
			{ID: 2, Code: "KOR", Name: "Koramangala", ActiveLocationID: ptr(2), IsActive: true},
		},
		Customers: []core.Customer{
			{ID: 1, Name: "Walk-in", IsActive: true},
			{ID: 2, Name: "Ananya Iyer", Phone: "9845000001", IsActive: true},
			{ID: 3, Name: "Rohit Menon", Phone: "9845000002", IsActive: true},
		},
		Employees: []core.Employee{
			{ID: 1, BranchID: ptr(1), Name: "Priya", Role: "stylist", IsActive: true},
			{ID: 2, BranchID: ptr(1), Name: "Kiran", Role: "stylist", MonthlyStarGoal: ptr(120), IsActive: true},
			{ID: 3, BranchID: ptr(2), Name: "Meena", Role: "beautician", IsActive: true},
		},
		Services: []core.Service{
			{ID: 1, Name: "Haircut", Category: "Hair", Price: money("500"), StarPoints: money("2"), IsActive: true},
			{ID: 2, Name: "Hair Colour", Category: "Hair", Price: money("2500"), StarPoints: money("6"), IsActive: true},
			{ID: 3, Name: "Facial", Category: "Skin", Price: money("1200"), StarPoints: money("5"), IsActive: true},
			{ID: 4, Name: "Manicure", Category: "Nails", Price: money("600"), StarPoints: money("2.5"), IsActive: true},
		},
		Packages: []core.Package{
			{ID: 1, Name: "Bridal Glow", Price: money("15000"), IsActive: true},
		},
		Products: []core.Product{
			{ID: 1, Name: "Argan Shampoo", SKU: "SH-250", Price: money("650"), IsActive: true},
			{ID: 2, Name: "Keratin Mask", SKU: "KM-200", Price: money("900"), IsActive: true},
		},
		Inventory: []core.Inventory{
			{ProductID: 1, LocationID: 1, Quantity: 12},
			{ProductID: 2, LocationID: 1, Quantity: 6},
			{ProductID: 1, LocationID: 2, Quantity: 8},
			{ProductID: 1, LocationID: 3, Quantity: 60},
			{ProductID: 2, LocationID: 3, Quantity: 40},
		},
		StarGoal: 100,
	}
}

// LoadMemory adds c to an in-memory store.
func LoadMemory(store *memory.Store, c Catalog) {
	for _, l := range c.Locations {
		store.AddLocation(l)
	}
	for _, b := range c.Branches {
		store.AddBranch(b)
	}
	for _, cu := range c.Customers {
		store.AddCustomer(cu)
	}
	for _, e := range c.Employees {
		store.AddEmployee(e)
	}
	for _, s := range c.Services {
		store.AddService(s)
	}
	for _, p := range c.Packages {
		store.AddPackage(p)
	}
	for _, p := range c.Products {
		store.AddProduct(p)
	}
	for _, inv := range c.Inventory {
		store.PutInventory(inv)
	}
	if c.StarGoal > 0 {
		store.SetSetting(core.SettingMonthlyStarGoal, strconv.Itoa(c.StarGoal))
	}
}

// Restore upserts c into Postgres in one transaction. Rows are keyed by id so
// running it twice leaves the catalog unchanged; stock rows are only created,
// never overwritten.
func Restore(ctx context.Context, pool *pgxpool.Pool, c Catalog) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, l := range c.Locations {
		batch.Queue(`
			INSERT INTO locations (id, branch_id, name, is_active) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET branch_id = EXCLUDED.branch_id, name = EXCLUDED.name, is_active = EXCLUDED.is_active`,
			l.ID, l.BranchID, l.Name, l.IsActive)
	}
	for _, b := range c.Branches {
		batch.Queue(`
			INSERT INTO branches (id, code, name, active_location_id, is_active) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name,
			  active_location_id = EXCLUDED.active_location_id, is_active = EXCLUDED.is_active`,
			b.ID, b.Code, b.Name, b.ActiveLocationID, b.IsActive)
	}
	for _, cu := range c.Customers {
		batch.Queue(`
			INSERT INTO customers (id, name, phone, is_active) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone, is_active = EXCLUDED.is_active`,
			cu.ID, cu.Name, cu.Phone, cu.IsActive)
	}
	for _, e := range c.Employees {
		batch.Queue(`
			INSERT INTO employees (id, branch_id, name, role, monthly_star_goal, is_active) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET branch_id = EXCLUDED.branch_id, name = EXCLUDED.name, role = EXCLUDED.role,
			  monthly_star_goal = EXCLUDED.monthly_star_goal, is_active = EXCLUDED.is_active`,
			e.ID, e.BranchID, e.Name, e.Role, e.MonthlyStarGoal, e.IsActive)
	}
	for _, s := range c.Services {
		batch.Queue(`
			INSERT INTO services (id, name, category, price, star_points, is_active) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,
			  star_points = EXCLUDED.star_points, is_active = EXCLUDED.is_active`,
			s.ID, s.Name, s.Category, s.Price, s.StarPoints, s.IsActive)
	}
	for _, p := range c.Packages {
		batch.Queue(`
			INSERT INTO packages (id, name, price, is_active) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, is_active = EXCLUDED.is_active`,
			p.ID, p.Name, p.Price, p.IsActive)
	}
	for _, p := range c.Products {
		batch.Queue(`
			INSERT INTO products (id, name, sku, price, is_active) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sku = EXCLUDED.sku, price = EXCLUDED.price, is_active = EXCLUDED.is_active`,
			p.ID, p.Name, p.SKU, p.Price, p.IsActive)
	}
	for _, inv := range c.Inventory {
		batch.Queue(`
			INSERT INTO inventory (product_id, location_id, batch_number, quantity, expiry_date) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (product_id, location_id, batch_number) DO NOTHING`,
			inv.ProductID, inv.LocationID, inv.BatchNumber, inv.Quantity, inv.ExpiryDate)
	}
	if c.StarGoal > 0 {
		batch.Queue(`
			INSERT INTO system_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			core.SettingMonthlyStarGoal, strconv.Itoa(c.StarGoal))
	}
	// Explicit ids leave the serial sequences behind.
	for _, table := range []string{"locations", "branches", "customers", "employees", "services", "packages", "products"} {
		batch.Queue(fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))`, table))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to restore catalog: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}
