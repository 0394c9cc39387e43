package core

import (
	"math"

	"github.com/shopspring/decimal"
)

type ContributionType string

const (
	ContributionFull    ContributionType = "full"
	ContributionPartial ContributionType = "partial"
)

// Contribution is one employee's share of a bill item.
type Contribution struct {
	EmployeeID int
	Type       ContributionType
	Percent    int
	Revenue    decimal.Decimal
	Stars      decimal.Decimal
}

// ContributionShape returns the contribution type and rounded percent for an
// item credited to n employees.
func ContributionShape(n int) (ContributionType, int) {
	if n <= 1 {
		return ContributionFull, 100
	}
	return ContributionPartial, int(math.Round(100 / float64(n)))
}

// SplitContribution divides an item's revenue and star points equally across
// assignees employees. starsPerUnit is the service's star rating (zero for
// packages and products).
func SplitContribution(totalPrice, starsPerUnit decimal.Decimal, quantity, assignees int) (revenue, stars decimal.Decimal) {
	if assignees < 1 {
		assignees = 1
	}
	n := decimal.NewFromInt(int64(assignees))
	itemStars := starsPerUnit.Mul(decimal.NewFromInt(int64(quantity)))
	return totalPrice.Div(n), itemStars.Div(n)
}

// SplitAttribution credits every employee in employeeIDs with an equal share.
// An empty list yields no contributions.
func SplitAttribution(totalPrice, starsPerUnit decimal.Decimal, quantity int, employeeIDs []int) []Contribution {
	if len(employeeIDs) == 0 {
		return nil
	}
	kind, pct := ContributionShape(len(employeeIDs))
	revenue, stars := SplitContribution(totalPrice, starsPerUnit, quantity, len(employeeIDs))
	out := make([]Contribution, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		out = append(out, Contribution{
			EmployeeID: id,
			Type:       kind,
			Percent:    pct,
			Revenue:    revenue,
			Stars:      stars,
		})
	}
	return out
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
