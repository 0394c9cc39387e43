package memory

import (
	"context"
	"time"

	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

type catalogRepo struct{ repos }

func lookup[T any](table map[int]T, id int) (*T, error) {
	v, ok := table[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &v, nil
}

func (r catalogRepo) GetCustomer(_ context.Context, id int) (*core.Customer, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.customers, id)
}

func (r catalogRepo) GetBranch(_ context.Context, id int) (*core.Branch, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.branches, id)
}

func (r catalogRepo) GetService(_ context.Context, id int) (*core.Service, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.services, id)
}

func (r catalogRepo) GetPackage(_ context.Context, id int) (*core.Package, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.packages, id)
}

func (r catalogRepo) GetProduct(_ context.Context, id int) (*core.Product, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.products, id)
}

func (r catalogRepo) GetEmployee(_ context.Context, id int) (*core.Employee, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.employees, id)
}

func (r catalogRepo) GetLocation(_ context.Context, id int) (*core.Location, error) {
	st, done := r.begin()
	defer done()
	return lookup(st.locations, id)
}

func (r catalogRepo) RecordCustomerVisit(_ context.Context, customerID int, amount decimal.Decimal, visitedAt time.Time) error {
	st, done := r.begin()
	defer done()
	c, ok := st.customers[customerID]
	if !ok {
		return core.ErrNotFound
	}
	c.TotalVisits++
	c.TotalSpent = c.TotalSpent.Add(amount)
	if c.LastVisitDate == nil || visitedAt.After(*c.LastVisitDate) {
		v := visitedAt
		c.LastVisitDate = &v
	}
	st.customers[customerID] = c
	return nil
}
