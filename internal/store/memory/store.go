// Package memory is an in-process core.Store. Transactions run one at a time
// against a copy of the data that replaces the live copy on success, so a
// failed unit of work leaves nothing behind.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"salon-billing/internal/core"
)

type state struct {
	customers map[int]core.Customer
	branches  map[int]core.Branch
	services  map[int]core.Service
	packages  map[int]core.Package
	products  map[int]core.Product
	employees map[int]core.Employee
	locations map[int]core.Location

	bills         map[int]core.Bill
	items         map[int]core.BillItem
	itemEmployees []core.BillItemEmployee
	payments      []core.Payment

	inventory     map[int]core.Inventory
	inventoryTxns []core.InventoryTransaction
	transfers     map[int]core.StockTransfer
	transferItems map[int]core.StockTransferItem

	cashSources []core.CashSource
	deposits    []core.BankDeposit
	expenses    []core.CashExpense

	sequences map[string]int64
	settings  map[string]string
	ids       map[string]int
}

func newState() *state {
	return &state{
		customers:     map[int]core.Customer{},
		branches:      map[int]core.Branch{},
		services:      map[int]core.Service{},
		packages:      map[int]core.Package{},
		products:      map[int]core.Product{},
		employees:     map[int]core.Employee{},
		locations:     map[int]core.Location{},
		bills:         map[int]core.Bill{},
		items:         map[int]core.BillItem{},
		inventory:     map[int]core.Inventory{},
		transfers:     map[int]core.StockTransfer{},
		transferItems: map[int]core.StockTransferItem{},
		sequences:     map[string]int64{},
		settings:      map[string]string{},
		ids:           map[string]int{},
	}
}

// clone copies every table. Row values are replaced wholesale on update and
// never mutated through shared pointers, so copying the containers suffices.
func (st *state) clone() *state {
	return &state{
		customers:     maps.Clone(st.customers),
		branches:      maps.Clone(st.branches),
		services:      maps.Clone(st.services),
		packages:      maps.Clone(st.packages),
		products:      maps.Clone(st.products),
		employees:     maps.Clone(st.employees),
		locations:     maps.Clone(st.locations),
		bills:         maps.Clone(st.bills),
		items:         maps.Clone(st.items),
		itemEmployees: slices.Clone(st.itemEmployees),
		payments:      slices.Clone(st.payments),
		inventory:     maps.Clone(st.inventory),
		inventoryTxns: slices.Clone(st.inventoryTxns),
		transfers:     maps.Clone(st.transfers),
		transferItems: maps.Clone(st.transferItems),
		cashSources:   slices.Clone(st.cashSources),
		deposits:      slices.Clone(st.deposits),
		expenses:      slices.Clone(st.expenses),
		sequences:     maps.Clone(st.sequences),
		settings:      maps.Clone(st.settings),
		ids:           maps.Clone(st.ids),
	}
}

func (st *state) nextID(table string) int {
	st.ids[table]++
	return st.ids[table]
}

// Store implements core.Store in memory.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// repos binds repository calls either to the live state (taking the lock per
// call) or to a transaction's private copy (lock already held).
type repos struct {
	store *Store
	tx    *state
}

func (r repos) begin() (*state, func()) {
	if r.tx != nil {
		return r.tx, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

func (r repos) Catalog() core.CatalogRepository     { return catalogRepo{r} }
func (r repos) Bills() core.BillRepository          { return billRepo{r} }
func (r repos) Inventory() core.InventoryRepository { return inventoryRepo{r} }
func (r repos) Transfers() core.TransferRepository  { return transferRepo{r} }
func (r repos) Cash() core.CashRepository           { return cashRepo{r} }
func (r repos) Sequences() core.SequenceRepository  { return sequenceRepo{r} }
func (r repos) Reports() core.ReportRepository      { return reportRepo{r} }
func (r repos) Settings() core.SettingsRepository   { return settingsRepo{r} }

func (s *Store) live() repos { return repos{store: s} }

func (s *Store) Catalog() core.CatalogRepository     { return s.live().Catalog() }
func (s *Store) Bills() core.BillRepository          { return s.live().Bills() }
func (s *Store) Inventory() core.InventoryRepository { return s.live().Inventory() }
func (s *Store) Transfers() core.TransferRepository  { return s.live().Transfers() }
func (s *Store) Cash() core.CashRepository           { return s.live().Cash() }
func (s *Store) Sequences() core.SequenceRepository  { return s.live().Sequences() }
func (s *Store) Reports() core.ReportRepository      { return s.live().Reports() }
func (s *Store) Settings() core.SettingsRepository   { return s.live().Settings() }

// WithinTx runs fn against a private copy and publishes it only when fn
// succeeds. Transactions are serialized.
func (s *Store) WithinTx(ctx context.Context, fn func(core.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(repos{store: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ── Seeding ───────────────────────────────────────────────────────────────────
// Catalog data is owned by other systems; tests and dev mode load it directly.

func (s *Store) seed(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func (s *Store) AddBranch(b core.Branch) {
	s.seed(func(st *state) { st.branches[b.ID] = b })
}

func (s *Store) AddCustomer(c core.Customer) {
	s.seed(func(st *state) { st.customers[c.ID] = c })
}

func (s *Store) AddEmployee(e core.Employee) {
	s.seed(func(st *state) { st.employees[e.ID] = e })
}

func (s *Store) AddService(v core.Service) {
	s.seed(func(st *state) { st.services[v.ID] = v })
}

func (s *Store) AddPackage(p core.Package) {
	s.seed(func(st *state) { st.packages[p.ID] = p })
}

func (s *Store) AddProduct(p core.Product) {
	s.seed(func(st *state) { st.products[p.ID] = p })
}

func (s *Store) AddLocation(l core.Location) {
	s.seed(func(st *state) { st.locations[l.ID] = l })
}

func (s *Store) SetSetting(key, value string) {
	s.seed(func(st *state) { st.settings[key] = value })
}

// PutInventory stores a stock row as-is, assigning an id when it has none.
func (s *Store) PutInventory(inv core.Inventory) core.Inventory {
	s.seed(func(st *state) {
		if inv.ID == 0 {
			inv.ID = st.nextID("inventory")
		} else if inv.ID > st.ids["inventory"] {
			st.ids["inventory"] = inv.ID
		}
		st.inventory[inv.ID] = inv
	})
	return inv
}

// ── Settings ──────────────────────────────────────────────────────────────────

type settingsRepo struct{ repos }

func (r settingsRepo) Get(_ context.Context, key string) (string, error) {
	st, done := r.begin()
	defer done()
	v, ok := st.settings[key]
	if !ok {
		return "", core.ErrNotFound
	}
	return v, nil
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type sequenceRepo struct{ repos }

func (r sequenceRepo) Next(_ context.Context, kind core.SequenceKind, prefix string) (int64, error) {
	st, done := r.begin()
	defer done()

	key := string(kind) + ":" + prefix
	last, ok := st.sequences[key]
	if !ok {
		var issued []string
		switch kind {
		case core.SequenceBill:
			for _, b := range st.bills {
				issued = append(issued, b.BillNumber)
			}
		case core.SequenceTransfer:
			for _, t := range st.transfers {
				issued = append(issued, t.TransferNumber)
			}
		}
		last = core.MaxSequenceSuffix(issued, prefix)
	}
	last++
	st.sequences[key] = last
	return last, nil
}
