package analytics

import (
	"time"

	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// GoalProgress projects period-end sales against a configured goal using a
// linear run rate from the elapsed days. A reference date outside the
// resolved period is clamped to its boundaries; asking about a future period
// is not supported and behaves as day zero.
type GoalProgress struct {
	Period          DateRange
	GoalAmount      decimal.Decimal
	CurrentSales    decimal.Decimal // non-voided sale totals inside the period
	ProgressPercent decimal.Decimal // 0 when the goal is 0, never Inf
	ProjectedTotal  decimal.Decimal // linear extrapolation; CurrentSales on day zero
	RequiredDaily   decimal.Decimal // remaining goal spread over remaining days
	DaysElapsed     int             // whole days before today within the period
	DaysRemaining   int             // whole days from today through period end
	OnTrack         bool            // ProjectedTotal >= GoalAmount
}

// ComputeGoalProgress resolves the current instance of the period kind,
// sums the sales inside it and extrapolates to period end.
func ComputeGoalProgress(sales []ledger.Sale, goal decimal.Decimal, kind PeriodKind, today time.Time) GoalProgress {
	period := ResolvePeriod(kind, today)
	inPeriod := FilterByRange(sales, period)

	current := decimal.Zero
	for _, s := range inPeriod {
		if s.CountsTowardRevenue() {
			current = current.Add(s.Total)
		}
	}

	totalDays := period.Days()
	elapsed := wholeDaysBetween(period.Start, today)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > totalDays {
		elapsed = totalDays
	}
	remaining := totalDays - elapsed - 1
	if remaining < 0 {
		remaining = 0
	}

	// Day zero has no run rate to extrapolate from.
	projected := current
	if elapsed > 0 {
		perDay := current.Div(decimal.NewFromInt(int64(elapsed)))
		projected = current.Add(perDay.Mul(decimal.NewFromInt(int64(remaining))))
	}

	missing := goal.Sub(current)
	if missing.IsNegative() {
		missing = decimal.Zero
	}
	divisorDays := remaining
	if divisorDays < 1 {
		divisorDays = 1
	}

	return GoalProgress{
		Period:          period,
		GoalAmount:      goal,
		CurrentSales:    current,
		ProgressPercent: ratioPercent(current, goal),
		ProjectedTotal:  projected,
		RequiredDaily:   missing.Div(decimal.NewFromInt(int64(divisorDays))),
		DaysElapsed:     elapsed,
		DaysRemaining:   remaining,
		OnTrack:         projected.GreaterThanOrEqual(goal),
	}
}
