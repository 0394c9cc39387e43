package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodName string

const (
	PeriodToday     PeriodName = "today"
	PeriodYesterday PeriodName = "yesterday"
	PeriodWeek      PeriodName = "week"
	PeriodMonth     PeriodName = "month"
	PeriodQuarter   PeriodName = "quarter"
	PeriodYear      PeriodName = "year"
	PeriodCustom    PeriodName = "custom"
)

// Period is a range of whole local days: [Start, End).
type Period struct {
	Name  PeriodName
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days covered, active or not.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// LastDay returns the start of the final day in the period.
func (p Period) LastDay() time.Time {
	return p.End.AddDate(0, 0, -1)
}

// Previous returns the period immediately before p. Calendar periods step back
// one calendar unit; other periods step back by their own length.
func (p Period) Previous() Period {
	prev := Period{Name: p.Name, End: p.Start}
	switch p.Name {
	case PeriodMonth:
		prev.Start = p.Start.AddDate(0, -1, 0)
	case PeriodQuarter:
		prev.Start = p.Start.AddDate(0, -3, 0)
	case PeriodYear:
		prev.Start = p.Start.AddDate(-1, 0, 0)
	default:
		prev.Start = p.Start.AddDate(0, 0, -p.Days())
	}
	return prev
}

// StartOfDay returns local midnight of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween counts whole days from start to end, DST-safe.
func DaysBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// DayWindowFor returns the local-day window containing date.
func DayWindowFor(date time.Time, loc *time.Location) DayWindow {
	start := StartOfDay(date, loc)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

func quarterStart(t time.Time) time.Time {
	q := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
}

// ResolvePeriod turns a named period, or an explicit inclusive start/end date
// pair, into a day range in loc. An empty name with both dates set is custom;
// an empty name without dates means this month.
func ResolvePeriod(name PeriodName, startDate, endDate *time.Time, now time.Time, loc *time.Location) (Period, error) {
	if name == "" {
		if startDate != nil && endDate != nil {
			name = PeriodCustom
		} else {
			name = PeriodMonth
		}
	}
	today := StartOfDay(now, loc)
	p := Period{Name: name}
	switch name {
	case PeriodToday:
		p.Start, p.End = today, today.AddDate(0, 0, 1)
	case PeriodYesterday:
		p.Start, p.End = today.AddDate(0, 0, -1), today
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		p.Start = today.AddDate(0, 0, -offset)
		p.End = p.Start.AddDate(0, 0, 7)
	case PeriodMonth:
		p.Start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		p.End = p.Start.AddDate(0, 1, 0)
	case PeriodQuarter:
		p.Start = quarterStart(today)
		p.End = p.Start.AddDate(0, 3, 0)
	case PeriodYear:
		p.Start = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, loc)
		p.End = p.Start.AddDate(1, 0, 0)
	case PeriodCustom:
		if startDate == nil || endDate == nil {
			return Period{}, Validation("custom period requires start_date and end_date")
		}
		p.Start = StartOfDay(*startDate, loc)
		p.End = StartOfDay(*endDate, loc).AddDate(0, 0, 1)
		if !p.End.After(p.Start) {
			return Period{}, Validation("end_date must not be before start_date")
		}
	default:
		return Period{}, Validation("unknown period %q", name)
	}
	return p, nil
}

var hundred = decimal.NewFromInt(100)

// GrowthPercent is the change from previous to current in percent, rounded to
// two places. A zero baseline reports 100 when anything happened and 0 otherwise.
func GrowthPercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
}
