package analytics

import (
	"testing"

	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeGoalProgress(t *testing.T) {
	// Day 10 of a 31-day month: 10 whole days elapsed, 20 remaining after
	// today.
	today := day("2025-01-11")
	sales := []ledger.Sale{
		saleOn("2025-01-05", ledger.SaleStatusPaid, 0),
	}
	sales[0].Total = dec(1000)

	got := ComputeGoalProgress(sales, dec(4000), PeriodMonth, today)

	assert.Equal(t, 10, got.DaysElapsed)
	assert.Equal(t, 20, got.DaysRemaining)
	assert.True(t, decimalEq(got.CurrentSales, 1000))
	assert.True(t, decimalEq(got.ProgressPercent, 25))
	// Run rate 100/day over 20 remaining days: 1000 + 2000.
	assert.True(t, decimalEq(got.ProjectedTotal, 3000))
	// 3000 still missing over 20 days.
	assert.True(t, decimalEq(got.RequiredDaily, 150))
	assert.False(t, got.OnTrack)
}

func TestComputeGoalProgress_OnTrack(t *testing.T) {
	today := day("2025-01-11")
	sales := []ledger.Sale{saleOn("2025-01-05", ledger.SaleStatusPaid, 0)}
	sales[0].Total = dec(2000)

	got := ComputeGoalProgress(sales, dec(4000), PeriodMonth, today)

	assert.True(t, decimalEq(got.ProjectedTotal, 6000))
	assert.True(t, got.OnTrack)
}

func TestComputeGoalProgress_DayZeroHasNoRunRate(t *testing.T) {
	today := day("2025-01-01")
	sales := []ledger.Sale{saleOn("2025-01-01", ledger.SaleStatusPaid, 0)}
	sales[0].Total = dec(500)

	got := ComputeGoalProgress(sales, dec(10000), PeriodMonth, today)

	assert.Equal(t, 0, got.DaysElapsed)
	assert.True(t, decimalEq(got.ProjectedTotal, 500))
	assert.False(t, got.OnTrack)
}

func TestComputeGoalProgress_ZeroGoal(t *testing.T) {
	today := day("2025-01-11")
	sales := []ledger.Sale{saleOn("2025-01-05", ledger.SaleStatusPaid, 100)}

	got := ComputeGoalProgress(sales, decimal.Zero, PeriodMonth, today)

	assert.True(t, got.ProgressPercent.IsZero())
	assert.True(t, got.RequiredDaily.IsZero())
	assert.True(t, got.OnTrack)
}

func TestComputeGoalProgress_GoalAlreadyMet(t *testing.T) {
	today := day("2025-01-11")
	sales := []ledger.Sale{saleOn("2025-01-05", ledger.SaleStatusPaid, 0)}
	sales[0].Total = dec(5000)

	got := ComputeGoalProgress(sales, dec(4000), PeriodMonth, today)

	assert.True(t, got.RequiredDaily.IsZero())
	assert.True(t, decimalEq(got.ProgressPercent, 125))
	assert.True(t, got.OnTrack)
}

func TestComputeGoalProgress_LastDayOfPeriod(t *testing.T) {
	today := day("2025-01-31")
	sales := []ledger.Sale{saleOn("2025-01-05", ledger.SaleStatusPaid, 0)}
	sales[0].Total = dec(3000)

	got := ComputeGoalProgress(sales, dec(4000), PeriodMonth, today)

	assert.Equal(t, 30, got.DaysElapsed)
	assert.Equal(t, 0, got.DaysRemaining)
	assert.True(t, decimalEq(got.ProjectedTotal, 3000))
	// The whole gap is due today.
	assert.True(t, decimalEq(got.RequiredDaily, 1000))
}

func TestComputeGoalProgress_VoidedExcluded(t *testing.T) {
	today := day("2025-01-11")
	sales := []ledger.Sale{
		saleOn("2025-01-05", ledger.SaleStatusVoided, 1000),
		saleOn("2024-12-20", ledger.SaleStatusPaid, 1000), // previous period
	}

	got := ComputeGoalProgress(sales, dec(4000), PeriodMonth, today)
	assert.True(t, got.CurrentSales.IsZero())
}

func TestComputeGoalProgress_WeeklyPeriod(t *testing.T) {
	// 2025-01-15 is a Wednesday: 2 elapsed days (Mon, Tue), 4 remaining
	// after today.
	today := day("2025-01-15")
	got := ComputeGoalProgress(nil, dec(700), PeriodWeek, today)

	assert.Equal(t, 2, got.DaysElapsed)
	assert.Equal(t, 4, got.DaysRemaining)
	assert.True(t, decimalEq(got.RequiredDaily, 175))
}
