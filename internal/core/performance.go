package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type employeeAccumulator struct {
	perf  EmployeePerformance
	days  map[time.Time]*DailyPerformance
	order []time.Time
}

// AggregatePerformance replays attribution rows into per-employee totals and
// per-day breakdowns. Rows must arrive in processing order; daily service
// lists keep that order. Averages divide by every calendar day in period.
// goalFor supplies the monthly star goal for an employee.
func AggregatePerformance(rows []AttributionRow, period Period, loc *time.Location, goalFor func(employeeID int) int) []EmployeePerformance {
	byEmployee := make(map[int]*employeeAccumulator)
	var employees []int

	for _, row := range rows {
		acc, ok := byEmployee[row.EmployeeID]
		if !ok {
			acc = &employeeAccumulator{
				perf: EmployeePerformance{EmployeeID: row.EmployeeID, EmployeeName: row.EmployeeName},
				days: make(map[time.Time]*DailyPerformance),
			}
			byEmployee[row.EmployeeID] = acc
			employees = append(employees, row.EmployeeID)
		}

		assignees := row.Assignees
		if row.Legacy || assignees < 1 {
			assignees = 1
		}
		kind, pct := ContributionShape(assignees)
		revenue, stars := SplitContribution(row.TotalPrice, row.StarsPerUnit, row.Quantity, assignees)

		day := StartOfDay(row.BillDate, loc)
		daily, ok := acc.days[day]
		if !ok {
			daily = &DailyPerformance{Date: day}
			acc.days[day] = daily
			acc.order = append(acc.order, day)
		}
		daily.TotalServices++
		daily.TotalStars = daily.TotalStars.Add(stars)
		daily.TotalEarnings = daily.TotalEarnings.Add(revenue)
		daily.Services = append(daily.Services, ServiceContribution{
			BillID:              row.BillID,
			BillNumber:          row.BillNumber,
			ItemID:              row.ItemID,
			ItemType:            row.ItemType,
			ServiceName:         row.ItemName,
			Category:            row.Category,
			Quantity:            row.Quantity,
			ContributionType:    kind,
			ContributionPercent: pct,
			Revenue:             revenue,
			Stars:               stars,
		})

		acc.perf.TotalServices++
		acc.perf.TotalStars = acc.perf.TotalStars.Add(stars)
		acc.perf.RevenueGenerated = acc.perf.RevenueGenerated.Add(revenue)
	}

	out := make([]EmployeePerformance, 0, len(employees))
	for _, id := range employees {
		acc := byEmployee[id]
		sort.Slice(acc.order, func(i, j int) bool { return acc.order[i].Before(acc.order[j]) })
		for _, day := range acc.order {
			acc.perf.Daily = append(acc.perf.Daily, *acc.days[day])
		}
		FinishPerformance(&acc.perf, period, goalFor(id))
		out = append(out, acc.perf)
	}
	SortByRevenue(out)
	return out
}

// FinishPerformance fills the derived fields of p: daily averages over the
// period's calendar days, the star goal and progress towards it.
func FinishPerformance(p *EmployeePerformance, period Period, goal int) {
	days := decimal.NewFromInt(int64(max(period.Days(), 1)))
	p.DailyAvgServices = decimal.NewFromInt(int64(p.TotalServices)).Div(days).Round(2)
	p.DailyAvgStars = p.TotalStars.Div(days).Round(2)
	p.DailyAvgRevenue = p.RevenueGenerated.Div(days).Round(2)
	p.MonthlyStarGoal = goal
	p.GoalProgress = decimal.Zero
	if goal > 0 {
		p.GoalProgress = p.TotalStars.Div(decimal.NewFromInt(int64(goal))).Mul(hundred).Round(2)
	}
}

// SortByRevenue orders a leaderboard by revenue descending, then by name.
func SortByRevenue(perf []EmployeePerformance) {
	sort.SliceStable(perf, func(i, j int) bool {
		if c := perf[i].RevenueGenerated.Cmp(perf[j].RevenueGenerated); c != 0 {
			return c > 0
		}
		return perf[i].EmployeeName < perf[j].EmployeeName
	})
}

// BuildServiceAnalytics ranks services by revenue and rolls them up by category.
func BuildServiceAnalytics(rows []ServiceSalesRow, period Period) ServiceAnalytics {
	a := ServiceAnalytics{Period: period, TotalRevenue: decimal.Zero}
	for _, r := range rows {
		a.TotalRevenue = a.TotalRevenue.Add(r.Revenue)
	}

	categories := make(map[string]*CategoryStat)
	var categoryOrder []string
	for _, r := range rows {
		a.Services = append(a.Services, ServiceStat{
			ServiceID:    r.ServiceID,
			Name:         r.Name,
			Category:     r.Category,
			Quantity:     r.Quantity,
			Revenue:      r.Revenue,
			SharePercent: sharePercent(r.Revenue, a.TotalRevenue),
		})
		c, ok := categories[r.Category]
		if !ok {
			c = &CategoryStat{Category: r.Category}
			categories[r.Category] = c
			categoryOrder = append(categoryOrder, r.Category)
		}
		c.Quantity += r.Quantity
		c.Revenue = c.Revenue.Add(r.Revenue)
	}
	for _, name := range categoryOrder {
		c := categories[name]
		c.SharePercent = sharePercent(c.Revenue, a.TotalRevenue)
		a.Categories = append(a.Categories, *c)
	}

	sort.SliceStable(a.Services, func(i, j int) bool {
		return a.Services[i].Revenue.GreaterThan(a.Services[j].Revenue)
	})
	sort.SliceStable(a.Categories, func(i, j int) bool {
		return a.Categories[i].Revenue.GreaterThan(a.Categories[j].Revenue)
	})
	return a
}

func sharePercent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
