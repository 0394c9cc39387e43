package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportingService is the read side: it replays attribution rows and sales
// totals into performance, analytics and dashboard views. Reports are not
// snapshot-consistent with concurrent writes.
type ReportingService interface {
	GetEmployeePerformance(ctx context.Context, q PerformanceQuery) (*PerformanceReport, error)
	// GetStaffPerformance reports one employee for a period alongside the
	// previous equivalent period.
	GetStaffPerformance(ctx context.Context, employeeID int, period PeriodName, actor Actor) (*StaffPerformance, error)
	GetServiceAnalytics(ctx context.Context, q PerformanceQuery) (*ServiceAnalytics, error)
	GetDashboard(ctx context.Context, q PerformanceQuery) (*Dashboard, error)
}

type reportingService struct {
	store Store
	opts  Options
	log   *zap.Logger
}

func NewReportingService(store Store, opts Options) ReportingService {
	opts = opts.withDefaults()
	return &reportingService{store: store, opts: opts, log: opts.Logger.Named("reports")}
}

const dashboardTopN = 5

func (s *reportingService) resolve(q PerformanceQuery) (Period, error) {
	return ResolvePeriod(q.Period, q.StartDate, q.EndDate, s.opts.Now(), s.opts.Location)
}

// starGoals resolves monthly star goals: the employee's own goal, then the
// settings store, then the configured default.
func (s *reportingService) starGoals(ctx context.Context) (func(int) int, error) {
	fallback := s.opts.DefaultStarGoal
	raw, err := s.store.Settings().Get(ctx, SettingMonthlyStarGoal)
	switch {
	case err == nil:
		if v, convErr := strconv.Atoi(raw); convErr == nil && v > 0 {
			fallback = v
		} else {
			s.log.Warn("ignoring malformed setting", zap.String("key", SettingMonthlyStarGoal), zap.String("value", raw))
		}
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to read star goal setting: %w", err)
	}

	var mu sync.Mutex
	cache := make(map[int]int)
	return func(employeeID int) int {
		mu.Lock()
		defer mu.Unlock()
		if goal, ok := cache[employeeID]; ok {
			return goal
		}
		goal := fallback
		e, err := s.store.Catalog().GetEmployee(ctx, employeeID)
		switch {
		case err == nil:
			if e.MonthlyStarGoal != nil {
				goal = *e.MonthlyStarGoal
			}
		case !errors.Is(err, ErrNotFound):
			s.log.Warn("falling back to default star goal", zap.Int("employee_id", employeeID), zap.Error(err))
		}
		cache[employeeID] = goal
		return goal
	}, nil
}

func (s *reportingService) performance(ctx context.Context, period Period, branchID, employeeID *int, goals func(int) int) ([]EmployeePerformance, error) {
	rows, err := s.store.Reports().AttributionRows(ctx, ReportFilter{
		Start: period.Start, End: period.End, BranchID: branchID, EmployeeID: employeeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load attribution rows: %w", err)
	}
	return AggregatePerformance(rows, period, s.opts.Location, goals), nil
}

func (s *reportingService) GetEmployeePerformance(ctx context.Context, q PerformanceQuery) (*PerformanceReport, error) {
	period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	goals, err := s.starGoals(ctx)
	if err != nil {
		return nil, err
	}
	branchID, err := q.Actor.BranchScope(q.BranchID)
	if err != nil {
		return nil, err
	}
	perf, err := s.performance(ctx, period, branchID, q.EmployeeID, goals)
	if err != nil {
		return nil, err
	}

	// A requested employee with no credited work still gets a zero row.
	if q.EmployeeID != nil && len(perf) == 0 {
		e, err := s.store.Catalog().GetEmployee(ctx, *q.EmployeeID)
		if err != nil {
			return nil, entityErr(err, "employee", *q.EmployeeID)
		}
		p := EmployeePerformance{EmployeeID: e.ID, EmployeeName: e.Name}
		FinishPerformance(&p, period, goals(e.ID))
		perf = append(perf, p)
	}
	return &PerformanceReport{Period: period, Days: period.Days(), Employees: perf}, nil
}

func (s *reportingService) GetStaffPerformance(ctx context.Context, employeeID int, name PeriodName, actor Actor) (*StaffPerformance, error) {
	employee, err := s.store.Catalog().GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, entityErr(err, "employee", employeeID)
	}
	period, err := ResolvePeriod(name, nil, nil, s.opts.Now(), s.opts.Location)
	if err != nil {
		return nil, err
	}
	if name == PeriodCustom {
		return nil, Validation("staff performance takes a named period")
	}
	previous := period.Previous()
	goals, err := s.starGoals(ctx)
	if err != nil {
		return nil, err
	}
	branchID, err := actor.BranchScope(nil)
	if err != nil {
		return nil, err
	}

	var current, prior []EmployeePerformance
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.performance(gctx, period, branchID, &employee.ID, goals)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = s.performance(gctx, previous, branchID, &employee.ID, goals)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pick := func(list []EmployeePerformance, p Period) EmployeePerformance {
		if len(list) > 0 {
			return list[0]
		}
		out := EmployeePerformance{EmployeeID: employee.ID, EmployeeName: employee.Name}
		FinishPerformance(&out, p, goals(employee.ID))
		return out
	}
	cur, prev := pick(current, period), pick(prior, previous)
	return &StaffPerformance{
		Period:         period,
		PreviousPeriod: previous,
		Current:        cur,
		Previous:       prev,
		RevenueGrowth:  GrowthPercent(cur.RevenueGenerated, prev.RevenueGenerated),
		StarsGrowth:    GrowthPercent(cur.TotalStars, prev.TotalStars),
		ServicesGrowth: GrowthPercent(decimal.NewFromInt(int64(cur.TotalServices)), decimal.NewFromInt(int64(prev.TotalServices))),
	}, nil
}

func (s *reportingService) GetServiceAnalytics(ctx context.Context, q PerformanceQuery) (*ServiceAnalytics, error) {
	period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	branchID, err := q.Actor.BranchScope(q.BranchID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Reports().ServiceSales(ctx, ReportFilter{
		Start: period.Start, End: period.End, BranchID: branchID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load service sales: %w", err)
	}
	a := BuildServiceAnalytics(rows, period)
	return &a, nil
}

func (s *reportingService) GetDashboard(ctx context.Context, q PerformanceQuery) (*Dashboard, error) {
	period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	previous := period.Previous()
	branchID, err := q.Actor.BranchScope(q.BranchID)
	if err != nil {
		return nil, err
	}
	goals, err := s.starGoals(ctx)
	if err != nil {
		return nil, err
	}

	var (
		cur, prev SalesSummary
		perf      []EmployeePerformance
		services  []ServiceSalesRow
	)
	reports := s.store.Reports()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = reports.SalesSummary(gctx, ReportFilter{Start: period.Start, End: period.End, BranchID: branchID})
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = reports.SalesSummary(gctx, ReportFilter{Start: previous.Start, End: previous.End, BranchID: branchID})
		return err
	})
	g.Go(func() error {
		var err error
		perf, err = s.performance(gctx, period, branchID, nil, goals)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = reports.ServiceSales(gctx, ReportFilter{Start: period.Start, End: period.End, BranchID: branchID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	for i := range perf {
		perf[i].Daily = nil
	}
	analytics := BuildServiceAnalytics(services, period)

	d := &Dashboard{
		Period:            period,
		PreviousPeriod:    previous,
		Revenue:           NewMetric(cur.Revenue, prev.Revenue),
		BillCount:         NewMetric(intDec(cur.BillCount), intDec(prev.BillCount)),
		AverageBill:       NewMetric(averageBill(cur), averageBill(prev)),
		CustomersServed:   NewMetric(intDec(cur.CustomersServed), intDec(prev.CustomersServed)),
		NewCustomers:      NewMetric(intDec(cur.NewCustomers), intDec(prev.NewCustomers)),
		ServicesPerformed: NewMetric(intDec(cur.ServicesPerformed), intDec(prev.ServicesPerformed)),
		ProductsSold:      NewMetric(intDec(cur.ProductsSold), intDec(prev.ProductsSold)),
		TopEmployees:      perf[:min(len(perf), dashboardTopN)],
		TopServices:       analytics.Services[:min(len(analytics.Services), dashboardTopN)],
	}
	return d, nil
}

func intDec(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func averageBill(s SalesSummary) decimal.Decimal {
	if s.BillCount == 0 {
		return decimal.Zero
	}
	return s.Revenue.Div(intDec(s.BillCount)).Round(2)
}
