package memory

import (
	"context"
	"sort"

	"salon-billing/internal/core"
)

type transferRepo struct{ repos }

func (r transferRepo) Create(_ context.Context, t *core.StockTransfer) error {
	st, done := r.begin()
	defer done()
	t.ID = st.nextID("stock_transfers")
	for i := range t.Items {
		it := &t.Items[i]
		it.ID = st.nextID("stock_transfer_items")
		it.TransferID = t.ID
		st.transferItems[it.ID] = *it
	}
	header := *t
	header.Items = nil
	st.transfers[t.ID] = header
	return nil
}

func (st *state) assembleTransfer(id int) (*core.StockTransfer, error) {
	header, ok := st.transfers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	t := header
	t.FromLocationName = st.locations[t.FromLocationID].Name
	t.ToLocationName = st.locations[t.ToLocationID].Name
	for _, it := range st.transferItems {
		if it.TransferID == id {
			it.ProductName = st.products[it.ProductID].Name
			t.Items = append(t.Items, it)
		}
	}
	sort.Slice(t.Items, func(i, j int) bool { return t.Items[i].ID < t.Items[j].ID })
	return &t, nil
}

func (r transferRepo) Get(_ context.Context, id int) (*core.StockTransfer, error) {
	st, done := r.begin()
	defer done()
	return st.assembleTransfer(id)
}

func (r transferRepo) GetForUpdate(ctx context.Context, id int) (*core.StockTransfer, error) {
	return r.Get(ctx, id)
}

func (r transferRepo) Complete(_ context.Context, t *core.StockTransfer) error {
	st, done := r.begin()
	defer done()
	header, ok := st.transfers[t.ID]
	if !ok {
		return core.ErrNotFound
	}
	header.Status = t.Status
	header.ApprovedBy = t.ApprovedBy
	header.CompletedAt = t.CompletedAt
	st.transfers[t.ID] = header
	for _, it := range t.Items {
		row := st.transferItems[it.ID]
		row.SentQuantity = it.SentQuantity
		row.ReceivedQuantity = it.ReceivedQuantity
		st.transferItems[it.ID] = row
	}
	return nil
}

func (r transferRepo) SetStatus(_ context.Context, id int, status core.TransferStatus) error {
	st, done := r.begin()
	defer done()
	header, ok := st.transfers[id]
	if !ok {
		return core.ErrNotFound
	}
	header.Status = status
	st.transfers[id] = header
	return nil
}

func (r transferRepo) List(_ context.Context, f core.TransferFilter) ([]core.StockTransfer, error) {
	st, done := r.begin()
	defer done()
	var out []core.StockTransfer
	for id, header := range st.transfers {
		if f.Status != nil && header.Status != *f.Status {
			continue
		}
		if f.LocationID != nil && header.FromLocationID != *f.LocationID && header.ToLocationID != *f.LocationID {
			continue
		}
		t, _ := st.assembleTransfer(id)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
