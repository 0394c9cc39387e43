package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles that see every branch. Any other role is pinned to its own branch.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UserID   int
	BranchID *int
	Role     string
}

// SeesAllBranches reports whether the actor may read data across branches.
func (a Actor) SeesAllBranches() bool {
	return a.Role == RoleOwner || a.Role == RoleAdmin
}

// BranchScope returns the branch a query may cover. Owners and admins get
// what they asked for; everyone else is pinned to their own branch.
func (a Actor) BranchScope(requested *int) (*int, error) {
	if a.SeesAllBranches() {
		return requested, nil
	}
	if a.BranchID == nil {
		return nil, BusinessRuleViolation("user %d is not assigned to a branch", a.UserID)
	}
	branchID := *a.BranchID
	return &branchID, nil
}

// Branch is one physical salon. ActiveLocationID points at the stock location
// that retail sales decrement; it may be unset.
type Branch struct {
	ID               int
	Code             string
	Name             string
	ActiveLocationID *int
	IsActive         bool
}

// Customer carries the aggregate counters maintained by the bill writer.
type Customer struct {
	ID            int
	Name          string
	Phone         string
	IsActive      bool
	TotalVisits   int
	TotalSpent    decimal.Decimal
	LastVisitDate *time.Time
	CreatedAt     time.Time
}

// Employee is a staff member who can be credited on bill items.
type Employee struct {
	ID              int
	BranchID        *int
	Name            string
	Role            string
	MonthlyStarGoal *int
	IsActive        bool
}

type Service struct {
	ID         int
	Name       string
	Category   string
	Price      decimal.Decimal
	StarPoints decimal.Decimal
	IsActive   bool
}

type Package struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	IsActive bool
}

type Product struct {
	ID       int
	Name     string
	SKU      string
	Price    decimal.Decimal
	IsActive bool
}

// Location is a stock-holding place: a branch store room or a central warehouse.
type Location struct {
	ID       int
	BranchID *int
	Name     string
	IsActive bool
}
