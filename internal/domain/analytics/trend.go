package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// displayNameLimit caps ranking display names; FullName keeps the original
// for tooltips.
const displayNameLimit = 18

// SeriesPoint is one bucket of a revenue/cost/profit time series. Buckets
// with no activity are present with zero values so chart axes stay
// contiguous.
type SeriesPoint struct {
	Label   string // "2006-01" for monthly buckets, "2006-01-02" for daily
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// MonthlySeries produces the trailing months-month revenue/cost/profit
// series ending at the month containing ref, oldest bucket first.
func MonthlySeries(sales []ledger.Sale, months int, ref time.Time, cfg Config) []SeriesPoint {
	if months <= 0 {
		return []SeriesPoint{}
	}
	refMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	points := make([]SeriesPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		start := refMonth.AddDate(0, i-(months-1), 0)
		label := start.Format("2006-01")
		points[i] = SeriesPoint{Label: label, Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
		index[label] = i
	}

	for _, s := range sales {
		if !s.CountsTowardRevenue() {
			continue
		}
		i, ok := index[s.Date.Format("2006-01")]
		if !ok {
			continue
		}
		revenue := s.EffectiveSubtotal(cfg.TaxRate)
		cost := s.COGS()
		points[i].Revenue = points[i].Revenue.Add(revenue)
		points[i].Cost = points[i].Cost.Add(cost)
		points[i].Profit = points[i].Profit.Add(revenue.Sub(cost))
	}
	return points
}

// DailySeries produces the day-by-day revenue/cost/profit series covering
// every day of the range, oldest first, zero-filling inactive days.
func DailySeries(sales []ledger.Sale, r DateRange, cfg Config) []SeriesPoint {
	days := r.Days()
	if days <= 0 {
		return []SeriesPoint{}
	}
	start := Day(r.Start)

	points := make([]SeriesPoint, days)
	for i := range points {
		points[i] = SeriesPoint{
			Label:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Revenue: decimal.Zero,
			Cost:    decimal.Zero,
			Profit:  decimal.Zero,
		}
	}

	for _, s := range sales {
		if !s.CountsTowardRevenue() || !r.Contains(s.Date) {
			continue
		}
		i := wholeDaysBetween(start, s.Date)
		revenue := s.EffectiveSubtotal(cfg.TaxRate)
		cost := s.COGS()
		points[i].Revenue = points[i].Revenue.Add(revenue)
		points[i].Cost = points[i].Cost.Add(cost)
		points[i].Profit = points[i].Profit.Add(revenue.Sub(cost))
	}
	return points
}

// RankedEntry is one row of a top-N ranking. Name is truncated for chart
// labels; FullName is the untruncated original for tooltips.
type RankedEntry struct {
	ID       uuid.UUID
	Name     string
	FullName string
	Quantity decimal.Decimal
	Revenue  decimal.Decimal
	Count    int // documents contributing to the entry
}

// TopProducts ranks products by tax-exclusive revenue within the period and
// truncates to n (falling back to the configured default when n <= 0).
func TopProducts(sales []ledger.Sale, r DateRange, n int, cfg Config) []RankedEntry {
	type accum struct {
		name     string
		quantity decimal.Decimal
		revenue  decimal.Decimal
		count    int
	}
	byProduct := make(map[uuid.UUID]*accum)
	order := make([]uuid.UUID, 0)

	for _, s := range sales {
		if !s.CountsTowardRevenue() || !r.Contains(s.Date) {
			continue
		}
		for _, item := range s.Items {
			acc, ok := byProduct[item.ProductID]
			if !ok {
				acc = &accum{name: item.ProductName, quantity: decimal.Zero, revenue: decimal.Zero}
				byProduct[item.ProductID] = acc
				order = append(order, item.ProductID)
			}
			acc.quantity = acc.quantity.Add(item.Quantity)
			acc.revenue = acc.revenue.Add(item.Subtotal)
			acc.count++
		}
	}

	entries := make([]RankedEntry, 0, len(order))
	for _, id := range order {
		acc := byProduct[id]
		entries = append(entries, RankedEntry{
			ID:       id,
			Name:     truncateName(acc.name),
			FullName: acc.name,
			Quantity: acc.quantity,
			Revenue:  acc.revenue,
			Count:    acc.count,
		})
	}
	return rankAndTruncate(entries, n, cfg)
}

// TopClients ranks clients by tax-inclusive sales totals within the period
// and truncates to n. Sales without a client ID cannot be attributed and are
// skipped.
func TopClients(sales []ledger.Sale, r DateRange, n int, cfg Config) []RankedEntry {
	type accum struct {
		name    string
		revenue decimal.Decimal
		count   int
	}
	byClient := make(map[uuid.UUID]*accum)
	order := make([]uuid.UUID, 0)

	for _, s := range sales {
		if !s.CountsTowardRevenue() || !r.Contains(s.Date) || s.ClientID == uuid.Nil {
			continue
		}
		acc, ok := byClient[s.ClientID]
		if !ok {
			acc = &accum{name: s.ClientName, revenue: decimal.Zero}
			byClient[s.ClientID] = acc
			order = append(order, s.ClientID)
		}
		acc.revenue = acc.revenue.Add(s.Total)
		acc.count++
	}

	entries := make([]RankedEntry, 0, len(order))
	for _, id := range order {
		acc := byClient[id]
		entries = append(entries, RankedEntry{
			ID:       id,
			Name:     truncateName(acc.name),
			FullName: acc.name,
			Quantity: decimal.Zero,
			Revenue:  acc.revenue,
			Count:    acc.count,
		})
	}
	return rankAndTruncate(entries, n, cfg)
}

func rankAndTruncate(entries []RankedEntry, n int, cfg Config) []RankedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Revenue.GreaterThan(entries[j].Revenue)
	})
	if n <= 0 {
		n = cfg.TopNDefault
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= displayNameLimit {
		return name
	}
	return string(runes[:displayNameLimit-1]) + "…"
}
