package core_test

import (
	"testing"
	"time"

	"salon-billing/internal/core"
	"salon-billing/internal/store/memory"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

// fixedNow is a Sunday.
var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

var (
	admin   = core.Actor{UserID: 1, Role: core.RoleAdmin}
	branch1 = 1
	cashier = core.Actor{UserID: 2, Role: "cashier", BranchID: &branch1}
)

const (
	mainBranch    = 1
	uptownBranch  = 2
	mainStore     = 1
	warehouse     = 3
	activeCust    = 1
	inactiveCust  = 2
	priya         = 1
	kiran         = 2
	meena         = 3
	haircut       = 1
	facial        = 2
	bridalPackage = 1
	shampoo       = 1
	conditioner   = 2
)

type fixture struct {
	store *memory.Store
	opts  core.Options
	clock *time.Time
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	store.AddLocation(core.Location{ID: mainStore, BranchID: ptr(mainBranch), Name: "Main Store", IsActive: true})
	store.AddLocation(core.Location{ID: warehouse, Name: "Warehouse", IsActive: true})
	store.AddBranch(core.Branch{ID: mainBranch, Code: "MAIN", Name: "Main Branch", ActiveLocationID: ptr(mainStore), IsActive: true})
	store.AddBranch(core.Branch{ID: uptownBranch, Code: "UPT", Name: "Uptown", IsActive: true})
	store.AddCustomer(core.Customer{ID: activeCust, Name: "Asha Rao", Phone: "9800000001", IsActive: true, CreatedAt: fixedNow.AddDate(0, 0, -40)})
	store.AddCustomer(core.Customer{ID: inactiveCust, Name: "Dormant", IsActive: false, CreatedAt: fixedNow.AddDate(-1, 0, 0)})
	store.AddEmployee(core.Employee{ID: priya, BranchID: ptr(mainBranch), Name: "Priya", IsActive: true})
	store.AddEmployee(core.Employee{ID: kiran, BranchID: ptr(mainBranch), Name: "Kiran", IsActive: true})
	store.AddEmployee(core.Employee{ID: meena, BranchID: ptr(uptownBranch), Name: "Meena", MonthlyStarGoal: ptr(50), IsActive: true})
	store.AddService(core.Service{ID: haircut, Name: "Haircut", Category: "Hair", Price: dec("500"), StarPoints: dec("2"), IsActive: true})
	store.AddService(core.Service{ID: facial, Name: "Facial", Category: "Skin", Price: dec("1200"), StarPoints: dec("5"), IsActive: true})
	store.AddPackage(core.Package{ID: bridalPackage, Name: "Bridal", Price: dec("5000"), IsActive: true})
	store.AddProduct(core.Product{ID: shampoo, Name: "Shampoo", SKU: "SH-01", Price: dec("50"), IsActive: true})
	store.AddProduct(core.Product{ID: conditioner, Name: "Conditioner", SKU: "CO-01", Price: dec("80"), IsActive: true})
	store.PutInventory(core.Inventory{ProductID: shampoo, LocationID: mainStore, Quantity: 10})

	clock := fixedNow
	f := &fixture{store: store, clock: &clock}
	f.opts = core.Options{
		Location:        time.UTC,
		Now:             func() time.Time { return *f.clock },
		Logger:          zaptest.NewLogger(t),
		DefaultStarGoal: 100,
	}
	return f
}

func (f *fixture) bills() core.BillService          { return core.NewBillService(f.store, f.opts) }
func (f *fixture) inventory() core.InventoryService { return core.NewInventoryService(f.store, f.opts) }
func (f *fixture) transfers() core.TransferService  { return core.NewTransferService(f.store, f.opts) }
func (f *fixture) cash() core.CashService           { return core.NewCashService(f.store, f.opts) }
func (f *fixture) reporting() core.ReportingService { return core.NewReportingService(f.store, f.opts) }
func (f *fixture) advance(d time.Duration)          { *f.clock = f.clock.Add(d) }

// serviceBill is a one-line service bill paid in full in cash.
func serviceBill(service int, price string, employees ...int) core.CreateBillInput {
	return core.CreateBillInput{
		CustomerID: activeCust,
		BranchID:   mainBranch,
		Items: []core.BillItemInput{{
			ItemType:    core.ItemService,
			ServiceID:   ptr(service),
			EmployeeIDs: employees,
			Quantity:    1,
			UnitPrice:   dec(price),
		}},
		Payments: []core.PaymentInput{{PaymentMode: core.PaymentCash, Amount: dec(price)}},
		Actor:    admin,
	}
}

func productBill(product, qty int, unitPrice string) core.CreateBillInput {
	total := dec(unitPrice).Mul(decimal.NewFromInt(int64(qty)))
	return core.CreateBillInput{
		CustomerID: activeCust,
		BranchID:   mainBranch,
		Items: []core.BillItemInput{{
			ItemType:  core.ItemProduct,
			ProductID: ptr(product),
			Quantity:  qty,
			UnitPrice: dec(unitPrice),
		}},
		Payments: []core.PaymentInput{{PaymentMode: core.PaymentCard, Amount: total}},
		Actor:    admin,
	}
}
