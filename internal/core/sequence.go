package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SequenceKind selects which document family a counter numbers. The kind
// decides where a fresh counter is seeded from.
type SequenceKind string

const (
	SequenceBill     SequenceKind = "bill"
	SequenceTransfer SequenceKind = "transfer"
)

const (
	billNumberWidth     = 6
	transferNumberWidth = 4
)

// SequenceRepository hands out document numbers. Next must be atomic: two
// concurrent callers with the same prefix never receive the same value.
// A counter seen for the first time starts after the greatest number already
// issued with that prefix.
type SequenceRepository interface {
	Next(ctx context.Context, kind SequenceKind, prefix string) (int64, error)
}

// BillNumberPrefix returns "{code}-{year}".
func BillNumberPrefix(branchCode string, year int) string {
	return fmt.Sprintf("%s-%d", branchCode, year)
}

// TransferNumberPrefix returns "TRF-{YYYYMM}".
func TransferNumberPrefix(t time.Time) string {
	return fmt.Sprintf("TRF-%04d%02d", t.Year(), int(t.Month()))
}

func FormatBillNumber(prefix string, n int64) string {
	return formatDocumentNumber(prefix, n, billNumberWidth)
}

func FormatTransferNumber(prefix string, n int64) string {
	return formatDocumentNumber(prefix, n, transferNumberWidth)
}

func formatDocumentNumber(prefix string, n int64, width int) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}

// ParseSequenceSuffix extracts the trailing counter of a number issued under
// prefix. ok is false when number does not belong to prefix.
func ParseSequenceSuffix(number, prefix string) (n int64, ok bool) {
	rest, found := strings.CutPrefix(number, prefix+"-")
	if !found || rest == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// MaxSequenceSuffix returns the greatest counter among numbers issued under prefix.
func MaxSequenceSuffix(numbers []string, prefix string) int64 {
	var max int64
	for _, num := range numbers {
		if v, ok := ParseSequenceSuffix(num, prefix); ok && v > max {
			max = v
		}
	}
	return max
}
