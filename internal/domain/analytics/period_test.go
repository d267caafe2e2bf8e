package analytics

import (
	"testing"
	"time"

	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKind_IsValid(t *testing.T) {
	tests := []struct {
		kind    PeriodKind
		isValid bool
	}{
		{PeriodWeek, true},
		{PeriodMonth, true},
		{PeriodQuarter, true},
		{PeriodYear, true},
		{PeriodKind("fortnight"), false},
		{PeriodKind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.kind.IsValid())
		})
	}
}

func TestResolvePeriod_Month(t *testing.T) {
	t.Run("31-day month", func(t *testing.T) {
		r := ResolvePeriod(PeriodMonth, day("2025-01-15"))
		assert.Equal(t, day("2025-01-01"), r.Start)
		assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC), r.End)
		assert.Equal(t, 31, r.Days())
	})

	t.Run("February non-leap", func(t *testing.T) {
		r := ResolvePeriod(PeriodMonth, day("2025-02-28"))
		assert.Equal(t, day("2025-02-01"), r.Start)
		assert.Equal(t, 28, r.Days())
	})

	t.Run("February leap", func(t *testing.T) {
		r := ResolvePeriod(PeriodMonth, day("2024-02-10"))
		assert.Equal(t, 29, r.Days())
	})

	t.Run("start has zero clock, end is 23:59:59", func(t *testing.T) {
		r := ResolvePeriod(PeriodMonth, day("2025-06-10"))
		assert.Equal(t, 0, r.Start.Hour())
		assert.Equal(t, 23, r.End.Hour())
		assert.Equal(t, 59, r.End.Minute())
		assert.Equal(t, 59, r.End.Second())
	})
}

func TestResolvePeriod_Week(t *testing.T) {
	t.Run("week starts Monday", func(t *testing.T) {
		// 2025-01-15 is a Wednesday.
		r := ResolvePeriod(PeriodWeek, day("2025-01-15"))
		assert.Equal(t, day("2025-01-13"), r.Start)
		assert.Equal(t, time.Monday, r.Start.Weekday())
		assert.Equal(t, time.Sunday, r.End.Weekday())
		assert.Equal(t, 7, r.Days())
	})

	t.Run("Sunday belongs to the week started the previous Monday", func(t *testing.T) {
		// 2025-01-19 is a Sunday.
		r := ResolvePeriod(PeriodWeek, day("2025-01-19"))
		assert.Equal(t, day("2025-01-13"), r.Start)
	})

	t.Run("week crossing a month boundary", func(t *testing.T) {
		// 2025-01-30 is a Thursday; the week runs Jan 27 to Feb 2.
		r := ResolvePeriod(PeriodWeek, day("2025-01-30"))
		assert.Equal(t, day("2025-01-27"), r.Start)
		assert.True(t, r.Contains(day("2025-02-02")))
		assert.False(t, r.Contains(day("2025-02-03")))
	})
}

func TestResolvePeriod_Quarter(t *testing.T) {
	tests := []struct {
		ref       string
		wantStart string
	}{
		{"2025-02-15", "2025-01-01"},
		{"2025-03-31", "2025-01-01"},
		{"2025-04-01", "2025-04-01"},
		{"2025-09-10", "2025-07-01"},
		{"2025-12-31", "2025-10-01"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r := ResolvePeriod(PeriodQuarter, day(tt.ref))
			assert.Equal(t, day(tt.wantStart), r.Start)
		})
	}
}

func TestResolvePeriod_Year(t *testing.T) {
	r := ResolvePeriod(PeriodYear, day("2025-07-04"))
	assert.Equal(t, day("2025-01-01"), r.Start)
	assert.Equal(t, 365, r.Days())
}

func TestResolvePeriod_UnknownKindDefaultsToMonth(t *testing.T) {
	r := ResolvePeriod(PeriodKind("bogus"), day("2025-03-15"))
	assert.Equal(t, day("2025-03-01"), r.Start)
	assert.Equal(t, 31, r.Days())
}

// The month containing a reference date nests inside its quarter, which
// nests inside its year.
func TestResolvePeriod_NestingInvariant(t *testing.T) {
	refs := []string{"2025-01-01", "2025-02-28", "2025-06-15", "2025-12-31", "2024-02-29"}

	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			month := ResolvePeriod(PeriodMonth, day(ref))
			quarter := ResolvePeriod(PeriodQuarter, day(ref))
			year := ResolvePeriod(PeriodYear, day(ref))

			assert.False(t, month.Start.Before(quarter.Start))
			assert.False(t, month.End.After(quarter.End))
			assert.False(t, quarter.Start.Before(year.Start))
			assert.False(t, quarter.End.After(year.End))
		})
	}
}

func TestDateRange_Previous(t *testing.T) {
	t.Run("month", func(t *testing.T) {
		r := ResolvePeriod(PeriodMonth, day("2025-03-15"))
		prev := r.Previous()
		assert.Equal(t, r.Days(), prev.Days())
		assert.Equal(t, day("2025-02-28"), Day(prev.End))
	})

	t.Run("week", func(t *testing.T) {
		r := ResolvePeriod(PeriodWeek, day("2025-01-15"))
		prev := r.Previous()
		assert.Equal(t, day("2025-01-06"), prev.Start)
		assert.Equal(t, 7, prev.Days())
	})
}

func TestDay_NormalizesClock(t *testing.T) {
	noon := time.Date(2025, 5, 10, 12, 30, 45, 123, time.UTC)
	assert.Equal(t, day("2025-05-10"), Day(noon))
}

func TestFilterByRange(t *testing.T) {
	r := ResolvePeriod(PeriodMonth, day("2025-01-15"))

	t.Run("keeps insertion order", func(t *testing.T) {
		sales := []ledger.Sale{
			saleOn("2025-01-20", ledger.SaleStatusPaid, 300),
			saleOn("2025-01-05", ledger.SaleStatusPaid, 100),
			saleOn("2025-02-01", ledger.SaleStatusPaid, 999),
			saleOn("2025-01-31", ledger.SaleStatusPaid, 200),
		}

		got := FilterByRange(sales, r)
		require.Len(t, got, 3)
		assert.Equal(t, sales[0].ID, got[0].ID)
		assert.Equal(t, sales[1].ID, got[1].ID)
		assert.Equal(t, sales[3].ID, got[2].ID)
	})

	t.Run("boundary days are inclusive", func(t *testing.T) {
		sales := []ledger.Sale{
			saleOn("2025-01-01", ledger.SaleStatusPaid, 1),
			saleOn("2025-01-31", ledger.SaleStatusPaid, 1),
			saleOn("2024-12-31", ledger.SaleStatusPaid, 1),
		}
		assert.Len(t, FilterByRange(sales, r), 2)
	})

	t.Run("time of day cannot defeat the comparison", func(t *testing.T) {
		lastDayEvening := ledger.Sale{
			ID:     saleOn("2025-01-31", ledger.SaleStatusPaid, 1).ID,
			Date:   time.Date(2025, 1, 31, 23, 59, 59, 999, time.UTC),
			Status: ledger.SaleStatusPaid,
		}
		assert.Len(t, FilterByRange([]ledger.Sale{lastDayEvening}, r), 1)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := FilterByRange([]ledger.Sale{}, r)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		sales := []ledger.Sale{
			saleOn("2025-01-10", ledger.SaleStatusPaid, 100),
			saleOn("2025-03-10", ledger.SaleStatusPaid, 100),
		}
		once := FilterByRange(sales, r)
		twice := FilterByRange(once, r)
		assert.Equal(t, once, twice)
	})
}
