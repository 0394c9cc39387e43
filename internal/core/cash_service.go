package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashService derives the expected drawer balance for a branch/day and
// records the movements that feed it.
type CashService interface {
	// GetDailyCashSummary computes
	//
	//	expected = cash payments + cash sources - bank deposits - cash expenses
	//
	// over the branch's local day.
	GetDailyCashSummary(ctx context.Context, branchID int, date time.Time) (*DailyCashSummary, error)
	// RecordCashCount compares a counted drawer against the summary and records
	// any discrepancy beyond PaymentTolerance as a cash source.
	RecordCashCount(ctx context.Context, in CashCountInput) (*CashCountResult, error)
	RecordCashSource(ctx context.Context, in CashSourceInput) (*CashSource, error)
	RecordBankDeposit(ctx context.Context, in BankDepositInput) (*BankDeposit, error)
	RecordCashExpense(ctx context.Context, in CashExpenseInput) (*CashExpense, error)
}

type cashService struct {
	store Store
	opts  Options
	log   *zap.Logger
}

func NewCashService(store Store, opts Options) CashService {
	opts = opts.withDefaults()
	return &cashService{store: store, opts: opts, log: opts.Logger.Named("cash")}
}

// dailySummary is shared by the read and the reconcile paths so both report
// the same expected figure.
func (s *cashService) dailySummary(ctx context.Context, r Repositories, branchID int, date time.Time) (*DailyCashSummary, error) {
	if _, err := r.Catalog().GetBranch(ctx, branchID); err != nil {
		return nil, entityErr(err, "branch", branchID)
	}
	window := DayWindowFor(date, s.opts.Location)
	totals, err := r.Cash().Totals(ctx, branchID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cash totals: %w", err)
	}
	byMode := make(map[PaymentMode]decimal.Decimal, len(PaymentModes))
	for _, m := range PaymentModes {
		byMode[m] = totals.PaymentsByMode[m]
	}
	return &DailyCashSummary{
		BranchID:          branchID,
		Date:              window.Start,
		CashPaymentsTotal: totals.CashPayments,
		CashSourcesTotal:  totals.CashSources,
		BankDepositsTotal: totals.BankDeposits,
		CashExpensesTotal: totals.CashExpenses,
		ExpectedCash:      ExpectedCash(totals),
		PaymentsByMode:    byMode,
		BillCount:         totals.BillCount,
	}, nil
}

// ExpectedCash applies the drawer formula to raw totals.
func ExpectedCash(t CashTotals) decimal.Decimal {
	return t.CashPayments.Add(t.CashSources).Sub(t.BankDeposits).Sub(t.CashExpenses)
}

// ClassifyDifference labels actual - expected.
func ClassifyDifference(diff decimal.Decimal) ReconciliationStatus {
	switch {
	case diff.Abs().LessThanOrEqual(PaymentTolerance):
		return CashBalanced
	case diff.IsPositive():
		return CashSurplus
	default:
		return CashShortage
	}
}

func (s *cashService) GetDailyCashSummary(ctx context.Context, branchID int, date time.Time) (*DailyCashSummary, error) {
	return s.dailySummary(ctx, s.store, branchID, date)
}

func (s *cashService) RecordCashCount(ctx context.Context, in CashCountInput) (*CashCountResult, error) {
	if in.ActualCash.IsNegative() {
		return nil, Validation("actual_cash must not be negative")
	}
	if len(in.Denominations) > 0 {
		counted, err := DenominationTotal(in.Denominations)
		if err != nil {
			return nil, err
		}
		if !counted.Equal(in.ActualCash) {
			return nil, Validation("denominations add up to %s but actual_cash is %s",
				counted.StringFixed(2), in.ActualCash.StringFixed(2))
		}
	}

	var result *CashCountResult
	err := s.store.WithinTx(ctx, func(r Repositories) error {
		if err := r.Cash().LockDay(ctx, in.BranchID, DayWindowFor(in.Date, s.opts.Location)); err != nil {
			return fmt.Errorf("failed to lock cash day: %w", err)
		}
		summary, err := s.dailySummary(ctx, r, in.BranchID, in.Date)
		if err != nil {
			return err
		}
		diff := in.ActualCash.Sub(summary.ExpectedCash)
		result = &CashCountResult{
			Summary:    *summary,
			ActualCash: in.ActualCash,
			Difference: diff,
			Status:     ClassifyDifference(diff),
		}
		if result.Status == CashBalanced {
			return nil
		}

		sourceType := CashOther
		if result.Status == CashShortage {
			sourceType = CashCounter
		}
		record := &CashSource{
			BranchID:      in.BranchID,
			Date:          summary.Date,
			SourceType:    sourceType,
			Amount:        diff,
			Notes:         in.Notes,
			Status:        result.Status,
			Denominations: in.Denominations,
			RecordedBy:    in.Actor.UserID,
			CreatedAt:     s.opts.Now(),
		}
		if err := r.Cash().AddSource(ctx, record); err != nil {
			return fmt.Errorf("failed to record cash discrepancy: %w", err)
		}
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("cash counted",
		zap.Int("branch_id", in.BranchID),
		zap.String("expected", result.Summary.ExpectedCash.StringFixed(2)),
		zap.String("actual", in.ActualCash.StringFixed(2)),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// DenominationTotal sums face value times count. Keys are face values such
// as "500" or "0.50".
func DenominationTotal(denominations map[string]int) (decimal.Decimal, error) {
	total := decimal.Zero
	for face, count := range denominations {
		value, err := decimal.NewFromString(face)
		if err != nil || !value.IsPositive() {
			return decimal.Zero, Validation("invalid denomination %q", face)
		}
		if count < 0 {
			return decimal.Zero, Validation("denomination %s has a negative count", face)
		}
		total = total.Add(value.Mul(decimal.NewFromInt(int64(count))))
	}
	return total, nil
}

func (s *cashService) RecordCashSource(ctx context.Context, in CashSourceInput) (*CashSource, error) {
	if !in.SourceType.Valid() {
		return nil, Validation("unknown cash source type %q", in.SourceType)
	}
	if !in.Amount.IsPositive() {
		return nil, Validation("amount must be positive")
	}
	src := &CashSource{
		BranchID:   in.BranchID,
		Date:       StartOfDay(in.Date, s.opts.Location),
		SourceType: in.SourceType,
		Amount:     in.Amount,
		Notes:      in.Notes,
		RecordedBy: in.Actor.UserID,
		CreatedAt:  s.opts.Now(),
	}
	err := s.record(ctx, in.BranchID, func(r Repositories) error { return r.Cash().AddSource(ctx, src) })
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *cashService) RecordBankDeposit(ctx context.Context, in BankDepositInput) (*BankDeposit, error) {
	if !in.Amount.IsPositive() {
		return nil, Validation("amount must be positive")
	}
	dep := &BankDeposit{
		BranchID:   in.BranchID,
		Date:       StartOfDay(in.Date, s.opts.Location),
		Amount:     in.Amount,
		BankName:   in.BankName,
		Reference:  in.Reference,
		RecordedBy: in.Actor.UserID,
		CreatedAt:  s.opts.Now(),
	}
	err := s.record(ctx, in.BranchID, func(r Repositories) error { return r.Cash().AddBankDeposit(ctx, dep) })
	if err != nil {
		return nil, err
	}
	return dep, nil
}

func (s *cashService) RecordCashExpense(ctx context.Context, in CashExpenseInput) (*CashExpense, error) {
	if !in.Amount.IsPositive() {
		return nil, Validation("amount must be positive")
	}
	if in.Category == "" {
		return nil, Validation("category is required")
	}
	exp := &CashExpense{
		BranchID:   in.BranchID,
		Date:       StartOfDay(in.Date, s.opts.Location),
		Category:   in.Category,
		Amount:     in.Amount,
		Notes:      in.Notes,
		RecordedBy: in.Actor.UserID,
		CreatedAt:  s.opts.Now(),
	}
	err := s.record(ctx, in.BranchID, func(r Repositories) error { return r.Cash().AddExpense(ctx, exp) })
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func (s *cashService) record(ctx context.Context, branchID int, write func(Repositories) error) error {
	return s.store.WithinTx(ctx, func(r Repositories) error {
		if _, err := r.Catalog().GetBranch(ctx, branchID); err != nil {
			return entityErr(err, "branch", branchID)
		}
		if err := write(r); err != nil {
			return fmt.Errorf("failed to record cash movement for branch %d: %w", branchID, err)
		}
		return nil
	})
}
