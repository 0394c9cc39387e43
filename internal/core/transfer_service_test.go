package core_test

import (
	"context"
	"testing"
	"time"

	"salon-billing/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantities(t *testing.T, f *fixture, location int) map[int]int {
	t.Helper()
	levels, err := f.inventory().GetStockLevels(context.Background(), ptr(location))
	require.NoError(t, err)
	out := map[int]int{}
	for _, l := range levels {
		out[l.ProductID] += l.Quantity
	}
	return out
}

func TestTransferService_CreateAndApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.transfers()

	// 1. Request 4 units; nothing moves yet.
	tr, err := svc.CreateStockTransfer(ctx, core.CreateTransferInput{
		FromLocationID: mainStore,
		ToLocationID:   warehouse,
		Items:          []core.TransferItemInput{{ProductID: shampoo, Quantity: 4}},
		Notes:          "restock",
		Actor:          admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-202603-0001", tr.TransferNumber)
	assert.Equal(t, core.TransferPending, tr.Status)
	assert.Equal(t, "Main Store", tr.FromLocationName)
	assert.Equal(t, "Warehouse", tr.ToLocationName)
	require.Len(t, tr.Items, 1)
	assert.Equal(t, "Shampoo", tr.Items[0].ProductName)
	assert.Nil(t, tr.Items[0].SentQuantity)
	assert.Equal(t, 10, quantities(t, f, mainStore)[shampoo])

	// 2. Approve: stock moves and both legs are logged.
	f.advance(time.Hour)
	done, err := svc.ApproveStockTransfer(ctx, tr.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, core.TransferCompleted, done.Status)
	require.NotNil(t, done.ApprovedBy)
	assert.Equal(t, admin.UserID, *done.ApprovedBy)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 4, *done.Items[0].SentQuantity)
	assert.Equal(t, 4, *done.Items[0].ReceivedQuantity)

	assert.Equal(t, 6, quantities(t, f, mainStore)[shampoo])
	assert.Equal(t, 4, quantities(t, f, warehouse)[shampoo])

	txns, err := f.inventory().ListTransactions(ctx, core.TransactionFilter{LocationID: ptr(warehouse)})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	byType := map[core.TransactionType]int{}
	for _, txn := range txns {
		byType[txn.Type] = txn.Quantity
		assert.Equal(t, core.RefTransfer, txn.ReferenceType)
		assert.Equal(t, tr.ID, *txn.ReferenceID)
	}
	assert.Equal(t, map[core.TransactionType]int{core.TxnTransferOut: -4, core.TxnTransferIn: 4}, byType)

	// 3. A completed transfer cannot be approved again.
	_, err = svc.ApproveStockTransfer(ctx, tr.ID, admin)
	assert.True(t, core.IsKind(err, core.KindInvalidStatus), "got %v", err)
	assert.Equal(t, 6, quantities(t, f, mainStore)[shampoo])
}

func TestTransferService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.transfers()

	tests := []struct {
		name string
		in   core.CreateTransferInput
		kind core.ErrorKind
	}{
		{"same location", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: mainStore,
			Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 1}}}, core.KindValidation},
		{"no items", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: warehouse}, core.KindValidation},
		{"zero quantity", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: warehouse,
			Items: []core.TransferItemInput{{ProductID: shampoo}}}, core.KindValidation},
		{"unknown destination", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: 99,
			Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 1}}}, core.KindNotFound},
		{"more than available", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: warehouse,
			Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 11}}}, core.KindInsufficientStock},
		{"repeated lines add up", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: warehouse,
			Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 6}, {ProductID: shampoo, Quantity: 6}}}, core.KindInsufficientStock},
		{"never stocked", core.CreateTransferInput{FromLocationID: mainStore, ToLocationID: warehouse,
			Items: []core.TransferItemInput{{ProductID: conditioner, Quantity: 1}}}, core.KindInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Actor = admin
			_, err := svc.CreateStockTransfer(ctx, tt.in)
			assert.True(t, core.IsKind(err, tt.kind), "expected %s, got %v", tt.kind, err)
		})
	}

	list, err := svc.ListStockTransfers(ctx, core.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransferService_ApproveRechecksStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.transfers()

	tr, err := svc.CreateStockTransfer(ctx, core.CreateTransferInput{
		FromLocationID: mainStore, ToLocationID: warehouse,
		Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 8}},
		Actor: admin,
	})
	require.NoError(t, err)

	// Stock sold in the meantime.
	_, err = f.bills().CreateBill(ctx, productBill(shampoo, 5, "50"))
	require.NoError(t, err)

	_, err = svc.ApproveStockTransfer(ctx, tr.ID, admin)
	require.True(t, core.IsKind(err, core.KindInsufficientStock), "got %v", err)

	got, err := svc.GetStockTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TransferPending, got.Status)
	assert.Equal(t, 5, quantities(t, f, mainStore)[shampoo])
	assert.Empty(t, quantities(t, f, warehouse))
}

func TestTransferService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.transfers()

	tr, err := svc.CreateStockTransfer(ctx, core.CreateTransferInput{
		FromLocationID: mainStore, ToLocationID: warehouse,
		Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 2}},
		Actor: admin,
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelStockTransfer(ctx, tr.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, core.TransferCancelled, cancelled.Status)

	_, err = svc.ApproveStockTransfer(ctx, tr.ID, admin)
	assert.True(t, core.IsKind(err, core.KindInvalidStatus))
	_, err = svc.CancelStockTransfer(ctx, tr.ID, admin)
	assert.True(t, core.IsKind(err, core.KindInvalidStatus))
	_, err = svc.CancelStockTransfer(ctx, 99, admin)
	assert.True(t, core.IsKind(err, core.KindNotFound))

	pending := core.TransferPending
	list, err := svc.ListStockTransfers(ctx, core.TransferFilter{Status: &pending})
	require.NoError(t, err)
	assert.Empty(t, list)

	second, err := svc.CreateStockTransfer(ctx, core.CreateTransferInput{
		FromLocationID: mainStore, ToLocationID: warehouse,
		Items: []core.TransferItemInput{{ProductID: shampoo, Quantity: 1}},
		Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-202603-0002", second.TransferNumber)

	list, err = svc.ListStockTransfers(ctx, core.TransferFilter{LocationID: ptr(warehouse)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
}

func TestTransferService_RestockAfterSaleRestoresLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutInventory(core.Inventory{ProductID: shampoo, LocationID: warehouse, Quantity: 5})

	_, err := f.bills().CreateBill(ctx, productBill(shampoo, 2, "50"))
	require.NoError(t, err)
	assert.Equal(t, 8, quantities(t, f, mainStore)[shampoo])

	tr, err := f.transfers().CreateStockTransfer(ctx, core.CreateTransferInput{
		FromLocationID: warehouse,
		ToLocationID:   mainStore,
		Items:          []core.TransferItemInput{{ProductID: shampoo, Quantity: 2}},
		Actor:          admin,
	})
	require.NoError(t, err)
	_, err = f.transfers().ApproveStockTransfer(ctx, tr.ID, admin)
	require.NoError(t, err)

	assert.Equal(t, 10, quantities(t, f, mainStore)[shampoo])
	assert.Equal(t, 3, quantities(t, f, warehouse)[shampoo])

	txns, err := f.inventory().ListTransactions(ctx, core.TransactionFilter{ProductID: ptr(shampoo)})
	require.NoError(t, err)
	counts := map[core.TransactionType]int{}
	for _, txn := range txns {
		counts[txn.Type]++
	}
	assert.Equal(t, map[core.TransactionType]int{
		core.TxnSale:        1,
		core.TxnTransferOut: 1,
		core.TxnTransferIn:  1,
	}, counts)
}
