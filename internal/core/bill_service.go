package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillService creates bills and manages their lifecycle afterwards.
type BillService interface {
	// CreateBill validates, prices and persists a bill with its items, payments,
	// employee splits, customer counters and stock effects in one transaction.
	// It is not idempotent: a blind retry after an error can record a sale twice.
	CreateBill(ctx context.Context, in CreateBillInput) (*Bill, error)
	GetBill(ctx context.Context, id int, actor Actor) (*Bill, error)
	GetBills(ctx context.Context, filter BillFilter) (*BillPage, error)
	// UpdateBill changes bill status, notes and item statuses. Amounts, items,
	// payments and assignees are never edited after creation.
	UpdateBill(ctx context.Context, id int, in UpdateBillInput) (*Bill, error)
	// CancelBill flips the status to cancelled and leaves every child row intact.
	CancelBill(ctx context.Context, id int, actor Actor) error
	GetCustomerStatistics(ctx context.Context, customerID int) (*CustomerStatistics, error)
}

type billService struct {
	store Store
	opts  Options
	log   *zap.Logger
}

func NewBillService(store Store, opts Options) BillService {
	opts = opts.withDefaults()
	return &billService{store: store, opts: opts, log: opts.Logger.Named("bills")}
}

// pricedItem is a validated line ready for persistence plus its assignees.
type pricedItem struct {
	item      BillItem
	assignees []int
	product   *Product
}

func (s *billService) CreateBill(ctx context.Context, in CreateBillInput) (*Bill, error) {
	if err := validateBillInput(in); err != nil {
		return nil, err
	}

	var created *Bill
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		customer, err := r.Catalog().GetCustomer(ctx, in.CustomerID)
		if err != nil {
			return entityErr(err, "customer", in.CustomerID)
		}
		if !customer.IsActive {
			return BusinessRuleViolation("customer %d is inactive", customer.ID)
		}
		branch, err := r.Catalog().GetBranch(ctx, in.BranchID)
		if err != nil {
			return entityErr(err, "branch", in.BranchID)
		}

		items, err := s.priceItems(ctx, r.Catalog(), in.Items)
		if err != nil {
			return err
		}

		lines := make([]LineAmounts, len(items))
		for i, p := range items {
			lines[i] = LineAmounts{UnitPrice: p.item.UnitPrice, Quantity: p.item.Quantity, DiscountAmount: p.item.DiscountAmount}
		}
		totals := CalculateTotals(lines, in.DiscountAmount)
		total := totals.Total.Add(in.TaxAmount)
		if total.IsNegative() {
			return BusinessRuleViolation("bill total %s is negative", total.StringFixed(2))
		}
		if err := ReconcilePayments(total, in.Payments); err != nil {
			return err
		}

		now := s.opts.Now()
		billDate := now
		if in.BillDate != nil {
			billDate = *in.BillDate
		}
		prefix := BillNumberPrefix(branch.Code, billDate.In(s.opts.Location).Year())
		seq, err := r.Sequences().Next(ctx, SequenceBill, prefix)
		if err != nil {
			return fmt.Errorf("failed to allocate bill number: %w", err)
		}

		bill := &Bill{
			BillNumber:     FormatBillNumber(prefix, seq),
			BranchID:       branch.ID,
			CustomerID:     customer.ID,
			BillDate:       billDate,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.TotalDiscount,
			DiscountReason: in.DiscountReason,
			TaxAmount:      in.TaxAmount,
			TotalAmount:    total,
			Status:         BillCompleted,
			Imported:       in.Imported,
			Notes:          in.Notes,
			CreatedBy:      in.Actor.UserID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		for _, p := range items {
			bill.Items = append(bill.Items, p.item)
		}
		for _, p := range in.Payments {
			bill.Payments = append(bill.Payments, Payment{
				PaymentMode:          p.PaymentMode,
				Amount:               p.Amount,
				TransactionReference: p.TransactionReference,
				BankName:             p.BankName,
				CreatedAt:            now,
			})
		}
		if err := r.Bills().Create(ctx, bill); err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		for i, p := range items {
			if len(p.assignees) == 0 {
				continue
			}
			if err := r.Bills().AddItemEmployees(ctx, bill.Items[i].ID, p.assignees); err != nil {
				return fmt.Errorf("failed to record item employees: %w", err)
			}
		}

		if err := r.Catalog().RecordCustomerVisit(ctx, customer.ID, total, billDate); err != nil {
			return fmt.Errorf("failed to update customer statistics: %w", err)
		}

		if !in.Imported {
			for i, p := range items {
				if p.item.ItemType != ItemProduct {
					continue
				}
				if err := s.decrementForSale(ctx, r.Inventory(), branch, p.product, bill.Items[i].Quantity, bill.ID, in.Actor); err != nil {
					return err
				}
			}
		}

		created, err = r.Bills().Get(ctx, bill.ID)
		if err != nil {
			return fmt.Errorf("failed to reload bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill created",
		zap.String("bill_number", created.BillNumber),
		zap.Int("branch_id", created.BranchID),
		zap.String("total", created.TotalAmount.StringFixed(2)),
		zap.Int("items", len(created.Items)),
	)
	return created, nil
}

func validateBillInput(in CreateBillInput) error {
	if len(in.Items) == 0 {
		return Validation("a bill needs at least one item")
	}
	if in.DiscountAmount.IsNegative() {
		return Validation("discount_amount must not be negative")
	}
	if in.TaxAmount.IsNegative() {
		return Validation("tax_amount must not be negative")
	}
	for i, p := range in.Payments {
		if !p.PaymentMode.Valid() {
			return Validation("payment %d: unknown payment mode %q", i+1, p.PaymentMode)
		}
		if !p.Amount.IsPositive() {
			return Validation("payment %d: amount must be positive", i+1)
		}
	}
	return nil
}

// priceItems resolves each line's catalog reference and assignees and computes
// its total. Caller-supplied totals are never trusted.
func (s *billService) priceItems(ctx context.Context, catalog CatalogRepository, inputs []BillItemInput) ([]pricedItem, error) {
	out := make([]pricedItem, 0, len(inputs))
	for i, in := range inputs {
		n := i + 1
		if in.Quantity < 1 {
			return nil, Validation("item %d: quantity must be at least 1", n)
		}
		if in.UnitPrice.IsNegative() {
			return nil, Validation("item %d: unit_price must not be negative", n)
		}

		p := pricedItem{item: BillItem{
			ItemType:  in.ItemType,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			ChairID:   in.ChairID,
			Status:    ItemPending,
			Notes:     in.Notes,
		}}

		switch in.ItemType {
		case ItemService:
			if in.ServiceID == nil || in.PackageID != nil || in.ProductID != nil {
				return nil, Validation("item %d: service items reference exactly one service_id", n)
			}
			svc, err := catalog.GetService(ctx, *in.ServiceID)
			if err != nil {
				return nil, entityErr(err, "service", *in.ServiceID)
			}
			p.item.ServiceID = &svc.ID
			p.item.ItemName = svc.Name
		case ItemPackage:
			if in.PackageID == nil || in.ServiceID != nil || in.ProductID != nil {
				return nil, Validation("item %d: package items reference exactly one package_id", n)
			}
			pkg, err := catalog.GetPackage(ctx, *in.PackageID)
			if err != nil {
				return nil, entityErr(err, "package", *in.PackageID)
			}
			p.item.PackageID = &pkg.ID
			p.item.ItemName = pkg.Name
		case ItemProduct:
			if in.ProductID == nil || in.ServiceID != nil || in.PackageID != nil {
				return nil, Validation("item %d: product items reference exactly one product_id", n)
			}
			prod, err := catalog.GetProduct(ctx, *in.ProductID)
			if err != nil {
				return nil, entityErr(err, "product", *in.ProductID)
			}
			p.item.ProductID = &prod.ID
			p.item.ItemName = prod.Name
			p.product = prod
		default:
			return nil, Validation("item %d: unknown item_type %q", n, in.ItemType)
		}

		gross := LineAmounts{UnitPrice: in.UnitPrice, Quantity: in.Quantity}.Gross()
		discount, err := itemDiscount(in, gross)
		if err != nil {
			return nil, Validation("item %d: %v", n, err)
		}
		p.item.DiscountAmount = discount
		p.item.TotalPrice = LineAmounts{UnitPrice: in.UnitPrice, Quantity: in.Quantity, DiscountAmount: discount}.LineTotal()

		p.assignees = uniqueIDs(in.EmployeeIDs)
		for _, id := range p.assignees {
			if _, err := catalog.GetEmployee(ctx, id); err != nil {
				return nil, entityErr(err, "employee", id)
			}
		}
		switch {
		case in.EmployeeID != nil:
			if _, err := catalog.GetEmployee(ctx, *in.EmployeeID); err != nil {
				return nil, entityErr(err, "employee", *in.EmployeeID)
			}
			id := *in.EmployeeID
			p.item.EmployeeID = &id
		case len(p.assignees) > 0:
			id := p.assignees[0]
			p.item.EmployeeID = &id
		}

		out = append(out, p)
	}
	return out, nil
}

// itemDiscount prefers an explicit amount and otherwise converts a percentage
// of the gross line amount, rounded to cents.
func itemDiscount(in BillItemInput, gross decimal.Decimal) (decimal.Decimal, error) {
	discount := decimal.Zero
	switch {
	case in.DiscountAmount != nil:
		discount = *in.DiscountAmount
	case in.DiscountPercentage != nil:
		pct := *in.DiscountPercentage
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return decimal.Zero, errors.New("discount_percentage must be between 0 and 100")
		}
		discount = gross.Mul(pct).Div(hundred).Round(2)
	}
	if discount.IsNegative() {
		return decimal.Zero, errors.New("discount_amount must not be negative")
	}
	if discount.GreaterThan(gross) {
		return decimal.Zero, errors.New("discount exceeds the line amount")
	}
	return discount, nil
}

// decrementForSale removes sold units from the branch's active location.
// Missing stock rows are skipped with a warning unless StrictStock is set;
// a row that exists but cannot cover the sale always fails.
func (s *billService) decrementForSale(ctx context.Context, inv InventoryRepository, branch *Branch, product *Product, qty, billID int, actor Actor) error {
	if branch.ActiveLocationID == nil {
		if s.opts.StrictStock {
			return BusinessRuleViolation("branch %s has no active stock location", branch.Code)
		}
		s.log.Warn("inventory decrement skipped: branch has no active location",
			zap.Int("branch_id", branch.ID), zap.Int("product_id", product.ID))
		return nil
	}
	locationID := *branch.ActiveLocationID

	_, err := takeStock(ctx, inv, product, locationID, qty)
	if errors.Is(err, errNoStockRows) {
		if s.opts.StrictStock {
			return InsufficientStock("no stock of %s at location %d", product.Name, locationID)
		}
		s.log.Warn("inventory decrement skipped: no stock row",
			zap.Int("branch_id", branch.ID), zap.Int("product_id", product.ID), zap.Int("location_id", locationID))
		return nil
	}
	if err != nil {
		return err
	}

	return inv.AppendTransaction(ctx, &InventoryTransaction{
		ProductID:      product.ID,
		Type:           TxnSale,
		Quantity:       -qty,
		FromLocationID: &locationID,
		ReferenceType:  RefBill,
		ReferenceID:    &billID,
		CreatedBy:      actor.UserID,
		CreatedAt:      s.opts.Now(),
	})
}

func (s *billService) GetBill(ctx context.Context, id int, actor Actor) (*Bill, error) {
	bill, err := s.store.Bills().Get(ctx, id)
	if err != nil {
		return nil, entityErr(err, "bill", id)
	}
	if !canSeeBranch(actor, bill.BranchID) {
		return nil, NotFound("bill", id)
	}
	return bill, nil
}

func (s *billService) GetBills(ctx context.Context, filter BillFilter) (*BillPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	branchID, err := filter.Scope.BranchScope(filter.BranchID)
	if err != nil {
		return nil, err
	}
	filter.BranchID = branchID

	bills, total, err := s.store.Bills().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return &BillPage{
		Bills:      bills,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

var billTransitions = map[BillStatus][]BillStatus{
	BillDraft:     {BillPending, BillCompleted, BillCancelled},
	BillPending:   {BillCompleted, BillCancelled},
	BillCompleted: {BillCancelled},
}

var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:    {ItemInProgress, ItemCompleted, ItemRejected},
	ItemInProgress: {ItemCompleted, ItemRejected},
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *billService) UpdateBill(ctx context.Context, id int, in UpdateBillInput) (*Bill, error) {
	var updated *Bill
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		bill, err := r.Bills().GetForUpdate(ctx, id)
		if err != nil {
			return entityErr(err, "bill", id)
		}
		if !canSeeBranch(in.Actor, bill.BranchID) {
			return NotFound("bill", id)
		}

		status, notes := bill.Status, bill.Notes
		if in.Status != nil && *in.Status != bill.Status {
			if !canTransition(billTransitions, bill.Status, *in.Status) {
				return InvalidStatus("bill %s cannot move from %s to %s", bill.BillNumber, bill.Status, *in.Status)
			}
			status = *in.Status
		}
		if in.Notes != nil {
			notes = *in.Notes
		}
		if status != bill.Status || notes != bill.Notes {
			if err := r.Bills().UpdateHeader(ctx, id, status, notes); err != nil {
				return fmt.Errorf("failed to update bill: %w", err)
			}
		}

		for _, u := range in.Items {
			item := findItem(bill.Items, u.ItemID)
			if item == nil {
				return NotFound("bill item", u.ItemID)
			}
			if item.Status == u.Status {
				continue
			}
			if !canTransition(itemTransitions, item.Status, u.Status) {
				return InvalidStatus("item %d cannot move from %s to %s", item.ID, item.Status, u.Status)
			}
			if err := r.Bills().UpdateItemStatus(ctx, item.ID, u.Status); err != nil {
				return fmt.Errorf("failed to update item status: %w", err)
			}
			item.Status = u.Status
		}

		updated, err = r.Bills().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func findItem(items []BillItem, id int) *BillItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func (s *billService) CancelBill(ctx context.Context, id int, actor Actor) error {
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		bill, err := r.Bills().GetForUpdate(ctx, id)
		if err != nil {
			return entityErr(err, "bill", id)
		}
		if !canSeeBranch(actor, bill.BranchID) {
			return NotFound("bill", id)
		}
		if !canTransition(billTransitions, bill.Status, BillCancelled) {
			return InvalidStatus("bill %s is already %s", bill.BillNumber, bill.Status)
		}
		return r.Bills().UpdateHeader(ctx, id, BillCancelled, bill.Notes)
	})
	if err != nil {
		return err
	}
	s.log.Info("bill cancelled", zap.Int("bill_id", id), zap.Int("user_id", actor.UserID))
	return nil
}

func (s *billService) GetCustomerStatistics(ctx context.Context, customerID int) (*CustomerStatistics, error) {
	customer, err := s.store.Catalog().GetCustomer(ctx, customerID)
	if err != nil {
		return nil, entityErr(err, "customer", customerID)
	}
	raw, err := s.store.Bills().CustomerStats(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute customer statistics: %w", err)
	}
	stats := &CustomerStatistics{
		Customer:       *customer,
		CompletedBills: raw.Count,
		LifetimeSpent:  raw.Spent,
		AverageBill:    decimal.Zero,
		FirstVisit:     raw.FirstVisit,
		LastVisit:      raw.LastVisit,
	}
	if raw.Count > 0 {
		stats.AverageBill = raw.Spent.Div(decimal.NewFromInt(int64(raw.Count))).Round(2)
	}
	return stats, nil
}

func canSeeBranch(actor Actor, branchID int) bool {
	if actor.SeesAllBranches() {
		return true
	}
	return actor.BranchID != nil && *actor.BranchID == branchID
}

// entityErr maps a repository lookup failure onto a typed NotFound, wrapping
// anything else.
func entityErr(err error, entity string, id int) error {
	if errors.Is(err, ErrNotFound) {
		return NotFound(entity, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}
