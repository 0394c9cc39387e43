package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// TransferService moves stock between locations:
//
//	pending → completed (ApproveStockTransfer)
//	pending → cancelled (CancelStockTransfer)
type TransferService interface {
	CreateStockTransfer(ctx context.Context, in CreateTransferInput) (*StockTransfer, error)
	// ApproveStockTransfer moves every item in one transaction and logs a
	// transfer_out and a transfer_in row per item.
	ApproveStockTransfer(ctx context.Context, id int, actor Actor) (*StockTransfer, error)
	CancelStockTransfer(ctx context.Context, id int, actor Actor) (*StockTransfer, error)
	GetStockTransfer(ctx context.Context, id int) (*StockTransfer, error)
	ListStockTransfers(ctx context.Context, filter TransferFilter) ([]StockTransfer, error)
}

type transferService struct {
	store Store
	opts  Options
	log   *zap.Logger
}

func NewTransferService(store Store, opts Options) TransferService {
	opts = opts.withDefaults()
	return &transferService{store: store, opts: opts, log: opts.Logger.Named("transfers")}
}

func (s *transferService) CreateStockTransfer(ctx context.Context, in CreateTransferInput) (*StockTransfer, error) {
	if in.FromLocationID == in.ToLocationID {
		return nil, Validation("source and destination locations must differ")
	}
	if len(in.Items) == 0 {
		return nil, Validation("a transfer needs at least one item")
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, Validation("item %d: quantity must be positive", i+1)
		}
	}

	var created *StockTransfer
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		from, err := r.Catalog().GetLocation(ctx, in.FromLocationID)
		if err != nil {
			return entityErr(err, "location", in.FromLocationID)
		}
		if _, err := r.Catalog().GetLocation(ctx, in.ToLocationID); err != nil {
			return entityErr(err, "location", in.ToLocationID)
		}

		t := &StockTransfer{
			FromLocationID: from.ID,
			ToLocationID:   in.ToLocationID,
			Status:         TransferPending,
			Notes:          in.Notes,
			RequestedBy:    in.Actor.UserID,
			CreatedAt:      s.opts.Now(),
		}
		requested := make(map[int]int)
		for _, it := range in.Items {
			requested[it.ProductID] += it.Quantity
		}
		for _, it := range in.Items {
			product, err := r.Catalog().GetProduct(ctx, it.ProductID)
			if err != nil {
				return entityErr(err, "product", it.ProductID)
			}
			available, err := availableAt(ctx, r.Inventory(), product.ID, from.ID)
			if err != nil {
				return err
			}
			if available < requested[product.ID] {
				return InsufficientStock("insufficient stock for %s at %s: available %d, requested %d",
					product.Name, from.Name, available, requested[product.ID])
			}
			t.Items = append(t.Items, StockTransferItem{ProductID: product.ID, ProductName: product.Name, RequestedQuantity: it.Quantity})
		}

		prefix := TransferNumberPrefix(t.CreatedAt.In(s.opts.Location))
		seq, err := r.Sequences().Next(ctx, SequenceTransfer, prefix)
		if err != nil {
			return fmt.Errorf("failed to allocate transfer number: %w", err)
		}
		t.TransferNumber = FormatTransferNumber(prefix, seq)

		if err := r.Transfers().Create(ctx, t); err != nil {
			return fmt.Errorf("failed to insert stock transfer: %w", err)
		}
		created, err = r.Transfers().Get(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transfer requested", zap.String("transfer_number", created.TransferNumber), zap.Int("items", len(created.Items)))
	return created, nil
}

// availableAt sums unreserved stock across batches. It locks the rows so the
// figure holds until the transaction ends.
func availableAt(ctx context.Context, inv InventoryRepository, productID, locationID int) (int, error) {
	rows, err := inv.LockRows(ctx, productID, locationID)
	if err != nil {
		return 0, fmt.Errorf("failed to read inventory for product %d: %w", productID, err)
	}
	total := 0
	for _, r := range rows {
		total += max(r.Available(), 0)
	}
	return total, nil
}

func (s *transferService) ApproveStockTransfer(ctx context.Context, id int, actor Actor) (*StockTransfer, error) {
	var approved *StockTransfer
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		t, err := r.Transfers().GetForUpdate(ctx, id)
		if err != nil {
			return entityErr(err, "stock transfer", id)
		}
		if t.Status != TransferPending {
			return InvalidStatus("stock transfer %s is %s, only pending transfers can be approved", t.TransferNumber, t.Status)
		}

		now := s.opts.Now()
		inv := r.Inventory()
		from, to := t.FromLocationID, t.ToLocationID
		for i := range t.Items {
			item := &t.Items[i]
			product, err := r.Catalog().GetProduct(ctx, item.ProductID)
			if err != nil {
				return entityErr(err, "product", item.ProductID)
			}
			takes, err := takeStock(ctx, inv, product, from, item.RequestedQuantity)
			if errors.Is(err, errNoStockRows) {
				return InsufficientStock("insufficient stock for %s: none at source location", product.Name)
			}
			if err != nil {
				return err
			}
			for _, tk := range takes {
				if _, err := putStock(ctx, inv, product.ID, to, tk.row.BatchNumber, tk.row.ExpiryDate, tk.taken, now); err != nil {
					return err
				}
			}

			ref := t.ID
			outTxn := &InventoryTransaction{
				ProductID: product.ID, Type: TxnTransferOut, Quantity: -item.RequestedQuantity,
				FromLocationID: &from, ToLocationID: &to,
				ReferenceType: RefTransfer, ReferenceID: &ref, CreatedBy: actor.UserID, CreatedAt: now,
			}
			inTxn := &InventoryTransaction{
				ProductID: product.ID, Type: TxnTransferIn, Quantity: item.RequestedQuantity,
				FromLocationID: &from, ToLocationID: &to,
				ReferenceType: RefTransfer, ReferenceID: &ref, CreatedBy: actor.UserID, CreatedAt: now,
			}
			for _, txn := range []*InventoryTransaction{outTxn, inTxn} {
				if err := inv.AppendTransaction(ctx, txn); err != nil {
					return fmt.Errorf("failed to record transfer movement: %w", err)
				}
			}

			qty := item.RequestedQuantity
			item.SentQuantity = &qty
			item.ReceivedQuantity = &qty
		}

		approver := actor.UserID
		t.Status = TransferCompleted
		t.ApprovedBy = &approver
		t.CompletedAt = &now
		if err := r.Transfers().Complete(ctx, t); err != nil {
			return fmt.Errorf("failed to complete stock transfer: %w", err)
		}
		approved, err = r.Transfers().Get(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transfer completed", zap.String("transfer_number", approved.TransferNumber), zap.Int("approved_by", actor.UserID))
	return approved, nil
}

func (s *transferService) CancelStockTransfer(ctx context.Context, id int, actor Actor) (*StockTransfer, error) {
	var cancelled *StockTransfer
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		t, err := r.Transfers().GetForUpdate(ctx, id)
		if err != nil {
			return entityErr(err, "stock transfer", id)
		}
		if t.Status != TransferPending {
			return InvalidStatus("stock transfer %s is %s, only pending transfers can be cancelled", t.TransferNumber, t.Status)
		}
		if err := r.Transfers().SetStatus(ctx, id, TransferCancelled); err != nil {
			return fmt.Errorf("failed to cancel stock transfer: %w", err)
		}
		cancelled, err = r.Transfers().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock transfer cancelled", zap.Int("transfer_id", id), zap.Int("user_id", actor.UserID))
	return cancelled, nil
}

func (s *transferService) GetStockTransfer(ctx context.Context, id int) (*StockTransfer, error) {
	t, err := s.store.Transfers().Get(ctx, id)
	if err != nil {
		return nil, entityErr(err, "stock transfer", id)
	}
	return t, nil
}

func (s *transferService) ListStockTransfers(ctx context.Context, filter TransferFilter) ([]StockTransfer, error) {
	transfers, err := s.store.Transfers().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transfers: %w", err)
	}
	return transfers, nil
}
