package memory

import (
	"context"
	"sort"
	"strings"

	"salon-billing/internal/core"
)

type billRepo struct{ repos }

func (r billRepo) Create(_ context.Context, bill *core.Bill) error {
	st, done := r.begin()
	defer done()

	bill.ID = st.nextID("bills")
	for i := range bill.Items {
		it := &bill.Items[i]
		it.ID = st.nextID("bill_items")
		it.BillID = bill.ID
		row := *it
		row.Employees = nil
		st.items[it.ID] = row
	}
	for i := range bill.Payments {
		p := &bill.Payments[i]
		p.ID = st.nextID("payments")
		p.BillID = bill.ID
		st.payments = append(st.payments, *p)
	}
	header := *bill
	header.Items, header.Payments = nil, nil
	st.bills[bill.ID] = header
	return nil
}

func (r billRepo) AddItemEmployees(_ context.Context, itemID int, employeeIDs []int) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.items[itemID]; !ok {
		return core.ErrNotFound
	}
	for _, id := range employeeIDs {
		st.itemEmployees = append(st.itemEmployees, core.BillItemEmployee{
			ID:         st.nextID("bill_item_employees"),
			BillItemID: itemID,
			EmployeeID: id,
		})
	}
	return nil
}

func (r billRepo) Get(_ context.Context, id int) (*core.Bill, error) {
	st, done := r.begin()
	defer done()
	return st.assembleBill(id)
}

func (r billRepo) GetForUpdate(ctx context.Context, id int) (*core.Bill, error) {
	return r.Get(ctx, id)
}

func (st *state) assembleBill(id int) (*core.Bill, error) {
	header, ok := st.bills[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	b := st.withNames(header)

	for _, it := range st.items {
		if it.BillID == id {
			b.Items = append(b.Items, it)
		}
	}
	sort.Slice(b.Items, func(i, j int) bool { return b.Items[i].ID < b.Items[j].ID })
	for i := range b.Items {
		for _, e := range st.itemEmployees {
			if e.BillItemID == b.Items[i].ID {
				e.EmployeeName = st.employees[e.EmployeeID].Name
				b.Items[i].Employees = append(b.Items[i].Employees, e)
			}
		}
	}
	for _, p := range st.payments {
		if p.BillID == id {
			b.Payments = append(b.Payments, p)
		}
	}
	return &b, nil
}

func (st *state) withNames(b core.Bill) core.Bill {
	c := st.customers[b.CustomerID]
	b.CustomerName, b.CustomerPhone = c.Name, c.Phone
	b.BranchName = st.branches[b.BranchID].Name
	return b
}

func (r billRepo) List(_ context.Context, f core.BillFilter) ([]core.Bill, int, error) {
	st, done := r.begin()
	defer done()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []core.Bill
	for _, header := range st.bills {
		b := st.withNames(header)
		switch {
		case f.BranchID != nil && b.BranchID != *f.BranchID,
			f.CustomerID != nil && b.CustomerID != *f.CustomerID,
			f.Status != nil && b.Status != *f.Status,
			f.StartDate != nil && b.BillDate.Before(*f.StartDate),
			f.EndDate != nil && !b.BillDate.Before(*f.EndDate):
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.BillNumber), search) &&
			!strings.Contains(strings.ToLower(b.CustomerName), search) &&
			!strings.Contains(b.CustomerPhone, search) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].BillDate.Equal(matched[j].BillDate) {
			return matched[i].BillDate.After(matched[j].BillDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min((f.Page-1)*f.Limit, total)
	end := min(start+f.Limit, total)
	return matched[start:end], total, nil
}

func (r billRepo) UpdateHeader(_ context.Context, id int, status core.BillStatus, notes string) error {
	st, done := r.begin()
	defer done()
	b, ok := st.bills[id]
	if !ok {
		return core.ErrNotFound
	}
	b.Status, b.Notes = status, notes
	st.bills[id] = b
	return nil
}

func (r billRepo) UpdateItemStatus(_ context.Context, itemID int, status core.ItemStatus) error {
	st, done := r.begin()
	defer done()
	it, ok := st.items[itemID]
	if !ok {
		return core.ErrNotFound
	}
	it.Status = status
	st.items[itemID] = it
	return nil
}

func (r billRepo) CustomerStats(_ context.Context, customerID int) (core.CustomerBillStats, error) {
	st, done := r.begin()
	defer done()
	var out core.CustomerBillStats
	for _, b := range st.bills {
		if b.CustomerID != customerID || b.Status != core.BillCompleted {
			continue
		}
		out.Count++
		out.Spent = out.Spent.Add(b.TotalAmount)
		d := b.BillDate
		if out.FirstVisit == nil || d.Before(*out.FirstVisit) {
			out.FirstVisit = &d
		}
		if out.LastVisit == nil || d.After(*out.LastVisit) {
			last := d
			out.LastVisit = &last
		}
	}
	return out, nil
}
