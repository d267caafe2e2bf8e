package analytics

import (
	"time"

	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ProjectionDay is one day of the forward cash ledger.
type ProjectionDay struct {
	Date          time.Time
	Inflows       decimal.Decimal // pending sales due this day
	Outflows      decimal.Decimal // pending purchases due this day
	Net           decimal.Decimal
	CumulativeNet decimal.Decimal // running sum from day zero
}

// CashFlowProjection is a forward liquidity forecast built from open
// documents keyed by effective due date. It is not a historical report:
// dues before today never appear here, they belong to the aging view.
type CashFlowProjection struct {
	Days          []ProjectionDay
	TotalInflows  decimal.Decimal
	TotalOutflows decimal.Decimal
	NetFlow       decimal.Decimal
	CriticalDays  []time.Time // days where the cumulative balance goes negative
}

// ProjectCashFlow builds a horizonDays-day daily ledger of expected inflows
// and outflows starting at today (inclusive). Documents due outside the
// horizon are dropped from this view. The sum of daily nets equals
// TotalInflows - TotalOutflows exactly.
func ProjectCashFlow(sales []ledger.Sale, purchases []ledger.Purchase, today time.Time, horizonDays int) CashFlowProjection {
	if horizonDays <= 0 {
		return CashFlowProjection{
			Days:          []ProjectionDay{},
			TotalInflows:  decimal.Zero,
			TotalOutflows: decimal.Zero,
			NetFlow:       decimal.Zero,
			CriticalDays:  []time.Time{},
		}
	}

	start := Day(today)
	days := make([]ProjectionDay, horizonDays)
	for i := range days {
		days[i] = ProjectionDay{
			Date:          start.AddDate(0, 0, i),
			Inflows:       decimal.Zero,
			Outflows:      decimal.Zero,
			Net:           decimal.Zero,
			CumulativeNet: decimal.Zero,
		}
	}

	dayIndex := func(due time.Time) (int, bool) {
		idx := wholeDaysBetween(start, due)
		if idx < 0 || idx >= horizonDays {
			return 0, false
		}
		return idx, true
	}

	totalIn := decimal.Zero
	for _, s := range sales {
		if !s.IsPending() {
			continue
		}
		if idx, ok := dayIndex(s.EffectiveDueDate()); ok {
			days[idx].Inflows = days[idx].Inflows.Add(s.Total)
			totalIn = totalIn.Add(s.Total)
		}
	}

	totalOut := decimal.Zero
	for _, p := range purchases {
		if !p.IsPending() {
			continue
		}
		if idx, ok := dayIndex(p.EffectiveDueDate()); ok {
			days[idx].Outflows = days[idx].Outflows.Add(p.Total)
			totalOut = totalOut.Add(p.Total)
		}
	}

	critical := []time.Time{}
	running := decimal.Zero
	for i := range days {
		days[i].Net = days[i].Inflows.Sub(days[i].Outflows)
		running = running.Add(days[i].Net)
		days[i].CumulativeNet = running
		if running.IsNegative() {
			critical = append(critical, days[i].Date)
		}
	}

	return CashFlowProjection{
		Days:          days,
		TotalInflows:  totalIn,
		TotalOutflows: totalOut,
		NetFlow:       totalIn.Sub(totalOut),
		CriticalDays:  critical,
	}
}
