package core

import "github.com/shopspring/decimal"

// PaymentTolerance is the largest accepted gap between tendered and billed amounts.
var PaymentTolerance = decimal.RequireFromString("0.01")

// LineAmounts is the subset of a bill item the totals calculation needs.
type LineAmounts struct {
	UnitPrice      decimal.Decimal
	Quantity       int
	DiscountAmount decimal.Decimal
}

// LineTotal returns unit_price*quantity - discount for one line.
func (l LineAmounts) LineTotal() decimal.Decimal {
	return l.Gross().Sub(l.DiscountAmount)
}

func (l LineAmounts) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal      decimal.Decimal
	ItemsDiscount decimal.Decimal
	TotalDiscount decimal.Decimal
	Total         decimal.Decimal
}

// CalculateTotals sums the lines and applies the bill-level discount.
// Negative results are returned as-is; callers decide whether they are legal.
func CalculateTotals(lines []LineAmounts, billDiscount decimal.Decimal) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Gross())
		t.ItemsDiscount = t.ItemsDiscount.Add(l.DiscountAmount)
	}
	t.TotalDiscount = t.ItemsDiscount.Add(billDiscount)
	t.Total = t.Subtotal.Sub(t.TotalDiscount)
	return t
}

// ReconcilePayments fails with PaymentMismatch unless the payments sum to
// total within PaymentTolerance.
func ReconcilePayments(total decimal.Decimal, payments []PaymentInput) error {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	if paid.Sub(total).Abs().GreaterThan(PaymentTolerance) {
		return PaymentMismatch(paid.StringFixed(2), total.StringFixed(2))
	}
	return nil
}
