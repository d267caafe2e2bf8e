package analytics

import "time"

// PeriodKind selects the calendar period a report covers.
type PeriodKind string

const (
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
	PeriodYear    PeriodKind = "year"
)

// IsValid checks if the kind is a known PeriodKind
func (k PeriodKind) IsValid() bool {
	switch k {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// String returns the string representation of PeriodKind
func (k PeriodKind) String() string {
	return string(k)
}

// DateRange is an inclusive [Start, End] range. Start is 00:00:00 of the
// first day and End is 23:59:59 of the last day, in the reference date's
// location. Tests pin this convention down.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Day normalizes a timestamp to midnight of its calendar day, preserving the
// location. All date comparisons in the core go through this so time-of-day
// and parsing artifacts cannot defeat them.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay returns 23:59:59 of t's calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ResolvePeriod computes the calendar period of the given kind containing
// ref. Weeks start Monday; quarters align to Jan/Apr/Jul/Oct; month lengths
// follow the calendar. An unknown kind resolves to the month, which keeps
// the function total for config-driven callers.
func ResolvePeriod(kind PeriodKind, ref time.Time) DateRange {
	day := Day(ref)
	switch kind {
	case PeriodWeek:
		// time.Weekday has Sunday == 0; shift so Monday == 0.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case PeriodQuarter:
		q := (int(day.Month()) - 1) / 3
		start := time.Date(day.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 3, -1))}
	case PeriodYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(1, 0, -1))}
	default: // PeriodMonth and anything unknown
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	}
}

// Days returns the whole-day length of the range.
func (r DateRange) Days() int {
	return int(Day(r.End).Sub(Day(r.Start)).Hours()/24) + 1
}

// Contains reports whether t's calendar day falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Previous returns the immediately preceding range of equal day length,
// ending the day before Start. Used for period-over-period comparisons.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	end := Day(r.Start).AddDate(0, 0, -1)
	return DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: endOfDay(end)}
}

// Dated is implemented by every ledger record carrying a document date.
type Dated interface {
	DocDate() time.Time
}

// FilterByRange returns the records whose document date falls within the
// range, preserving insertion order. Comparison is by calendar day only.
// Empty input yields an empty, non-nil slice.
func FilterByRange[T Dated](records []T, r DateRange) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.DocDate()) {
			out = append(out, rec)
		}
	}
	return out
}

// wholeDaysBetween returns the signed number of whole calendar days from a
// to b (positive when b is after a).
func wholeDaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
