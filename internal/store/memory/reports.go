package memory

import (
	"context"
	"sort"

	"salon-billing/internal/core"
)

type reportRepo struct{ repos }

// completedBills returns completed bill headers in range, in processing order.
func (st *state) completedBills(f core.ReportFilter) []core.Bill {
	var out []core.Bill
	for _, b := range st.bills {
		if b.Status != core.BillCompleted || b.BillDate.Before(f.Start) || !b.BillDate.Before(f.End) {
			continue
		}
		if f.BranchID != nil && b.BranchID != *f.BranchID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.Before(out[j].BillDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (st *state) billItems(billID int) []core.BillItem {
	var items []core.BillItem
	for _, it := range st.items {
		if it.BillID == billID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r reportRepo) AttributionRows(_ context.Context, f core.ReportFilter) ([]core.AttributionRow, error) {
	st, done := r.begin()
	defer done()

	assigned := make(map[int][]core.BillItemEmployee)
	for _, e := range st.itemEmployees {
		assigned[e.BillItemID] = append(assigned[e.BillItemID], e)
	}

	var rows []core.AttributionRow
	for _, b := range st.completedBills(f) {
		for _, it := range st.billItems(b.ID) {
			base := core.AttributionRow{
				BillID:     b.ID,
				BillNumber: b.BillNumber,
				BillDate:   b.BillDate,
				BranchID:   b.BranchID,
				ItemID:     it.ID,
				ItemType:   it.ItemType,
				ItemName:   it.ItemName,
				Quantity:   it.Quantity,
				TotalPrice: it.TotalPrice,
			}
			if it.ServiceID != nil {
				svc := st.services[*it.ServiceID]
				base.Category = svc.Category
				base.StarsPerUnit = svc.StarPoints
			}

			credits := assigned[it.ID]
			if len(credits) == 0 {
				if it.EmployeeID == nil {
					continue
				}
				credits = []core.BillItemEmployee{{EmployeeID: *it.EmployeeID}}
				base.Legacy = true
			}
			base.Assignees = len(credits)
			for _, c := range credits {
				if f.EmployeeID != nil && c.EmployeeID != *f.EmployeeID {
					continue
				}
				row := base
				row.EmployeeID = c.EmployeeID
				row.EmployeeName = st.employees[c.EmployeeID].Name
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func (r reportRepo) SalesSummary(_ context.Context, f core.ReportFilter) (core.SalesSummary, error) {
	st, done := r.begin()
	defer done()

	var out core.SalesSummary
	customers := make(map[int]struct{})
	for _, b := range st.completedBills(f) {
		out.BillCount++
		out.Revenue = out.Revenue.Add(b.TotalAmount)
		customers[b.CustomerID] = struct{}{}
		for _, it := range st.billItems(b.ID) {
			switch it.ItemType {
			case core.ItemService:
				out.ServicesPerformed += it.Quantity
			case core.ItemProduct:
				out.ProductsSold += it.Quantity
			}
		}
	}
	out.CustomersServed = len(customers)
	for _, c := range st.customers {
		if !c.CreatedAt.Before(f.Start) && c.CreatedAt.Before(f.End) {
			out.NewCustomers++
		}
	}
	return out, nil
}

func (r reportRepo) ServiceSales(_ context.Context, f core.ReportFilter) ([]core.ServiceSalesRow, error) {
	st, done := r.begin()
	defer done()

	byService := make(map[int]*core.ServiceSalesRow)
	for _, b := range st.completedBills(f) {
		for _, it := range st.billItems(b.ID) {
			if it.ItemType != core.ItemService || it.ServiceID == nil {
				continue
			}
			row, ok := byService[*it.ServiceID]
			if !ok {
				svc := st.services[*it.ServiceID]
				row = &core.ServiceSalesRow{ServiceID: svc.ID, Name: svc.Name, Category: svc.Category}
				byService[*it.ServiceID] = row
			}
			row.Quantity += it.Quantity
			row.Revenue = row.Revenue.Add(it.TotalPrice)
		}
	}
	out := make([]core.ServiceSalesRow, 0, len(byService))
	for _, row := range byService {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ServiceID < out[j].ServiceID
	})
	return out, nil
}
