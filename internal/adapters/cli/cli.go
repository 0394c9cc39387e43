package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"salon-billing/internal/app"
	"salon-billing/internal/core"

	"github.com/shopspring/decimal"
)

const usage = `Available commands:
  cash-summary <branch_id> [YYYY-MM-DD]
  reconcile <branch_id> <amount> [YYYY-MM-DD]
  performance [period] [branch_id]
  stock [location_id]
  approve-transfer <id>`

// Run executes a one-shot CLI command on behalf of actor and prints the result to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, actor core.Actor, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", usage)
	}

	switch args[0] {
	case "cash-summary", "cash":
		if len(args) < 2 {
			return fmt.Errorf("usage: app cash-summary <branch_id> [YYYY-MM-DD]")
		}
		branchID, err := intArg("branch_id", args[1])
		if err != nil {
			return err
		}
		result, err := svc.GetDailyCashSummary(ctx, actor, branchID, optional(args, 2))
		if err != nil {
			return err
		}
		printCashSummary(out, result)

	case "reconcile":
		if len(args) < 3 {
			return fmt.Errorf("usage: app reconcile <branch_id> <amount> [YYYY-MM-DD]")
		}
		branchID, err := intArg("branch_id", args[1])
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		result, err := svc.RecordCashCount(ctx, actor, app.CashCountRequest{
			BranchID: branchID, ActualCash: amount, Date: optional(args, 3),
		})
		if err != nil {
			return err
		}
		printCashSummary(out, &result.Summary)
		fmt.Fprintf(out, "  %-22s %15s\n", "Counted", result.ActualCash)
		fmt.Fprintf(out, "  %-22s %15s  (%s)\n", "Difference", result.Difference, strings.ToUpper(result.Status))
		if result.RecordID != nil {
			fmt.Fprintf(out, "  Adjustment recorded as cash source #%d\n", *result.RecordID)
		}

	case "performance", "perf":
		q := app.ReportQuery{Period: optional(args, 1)}
		if b := optional(args, 2); b != "" {
			branchID, err := intArg("branch_id", b)
			if err != nil {
				return err
			}
			q.BranchID = &branchID
		}
		result, err := svc.GetEmployeePerformance(ctx, actor, q)
		if err != nil {
			return err
		}
		printPerformance(out, result)

	case "stock":
		var locationID *int
		if l := optional(args, 1); l != "" {
			id, err := intArg("location_id", l)
			if err != nil {
				return err
			}
			locationID = &id
		}
		result, err := svc.GetStockLevels(ctx, actor, locationID)
		if err != nil {
			return err
		}
		printStock(out, result)

	case "approve-transfer":
		if len(args) < 2 {
			return fmt.Errorf("usage: app approve-transfer <id>")
		}
		id, err := intArg("id", args[1])
		if err != nil {
			return err
		}
		result, err := svc.ApproveStockTransfer(ctx, actor, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Transfer %s %s: %s → %s\n", result.TransferNumber, result.Status,
			result.FromLocationName, result.ToLocationName)
		for _, it := range result.Items {
			fmt.Fprintf(out, "  %-30s %6d\n", it.ProductName, it.RequestedQuantity)
		}

	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func optional(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func intArg(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func printCashSummary(out io.Writer, s *app.CashSummaryResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 42))
	fmt.Fprintf(out, "  CASH SUMMARY  branch %d  %s\n", s.BranchID, s.Date)
	fmt.Fprintln(out, strings.Repeat("=", 42))
	fmt.Fprintf(out, "  %-22s %15s\n", "Cash payments", s.CashPayments)
	fmt.Fprintf(out, "  %-22s %15s\n", "+ Cash sources", s.CashSources)
	fmt.Fprintf(out, "  %-22s %15s\n", "- Bank deposits", s.BankDeposits)
	fmt.Fprintf(out, "  %-22s %15s\n", "- Expenses", s.CashExpenses)
	fmt.Fprintln(out, strings.Repeat("-", 42))
	fmt.Fprintf(out, "  %-22s %15s\n", "Expected in drawer", s.ExpectedCash)

	modes := make([]string, 0, len(s.PaymentsByMode))
	for m := range s.PaymentsByMode {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	if len(modes) > 0 {
		fmt.Fprintf(out, "\n  %d bills by payment mode:\n", s.BillCount)
		for _, m := range modes {
			fmt.Fprintf(out, "    %-20s %15s\n", m, s.PaymentsByMode[m])
		}
	}
	fmt.Fprintln(out, strings.Repeat("=", 42))
}

func printPerformance(out io.Writer, p *app.PerformanceResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  EMPLOYEE PERFORMANCE  %s  %s .. %s (%d days)\n", p.Period.Name, p.Period.StartDate, p.Period.EndDate, p.Period.Days)
	fmt.Fprintln(out, strings.Repeat("-", 78))
	fmt.Fprintf(out, "  %-20s %8s %10s %14s %10s %8s\n", "EMPLOYEE", "SERVICES", "STARS", "REVENUE", "AVG/DAY", "GOAL %")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, e := range p.Employees {
		fmt.Fprintf(out, "  %-20s %8d %10s %14s %10s %8s\n",
			e.EmployeeName, e.TotalServices, e.TotalStars, e.RevenueGenerated, e.DailyAvgRevenue, e.GoalProgress)
	}
	fmt.Fprintln(out, strings.Repeat("-", 78))
}

func printStock(out io.Writer, s *app.StockResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-24s %-22s %-10s %8s %9s\n", "PRODUCT", "LOCATION", "BATCH", "QTY", "AVAILABLE")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, l := range s.Levels {
		fmt.Fprintf(out, "  %-24s %-22s %-10s %8d %9d\n", l.ProductName, l.LocationName, l.BatchNumber, l.Quantity, l.Available)
	}
}
