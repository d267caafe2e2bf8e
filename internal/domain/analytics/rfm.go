package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// RecencyNever is the recency sentinel for clients with no purchase history.
// It is a marker, not a day count: a client who bought exactly 999 days ago
// is reported as 999 too, but with Frequency > 0, so consumers can always
// tell the two apart.
const RecencyNever = 999

// RFMSegment is a customer-value class assigned by the segmentation rule
// tree.
type RFMSegment string

const (
	SegmentChampions RFMSegment = "Champions"
	SegmentLoyal     RFMSegment = "Loyal"
	SegmentPromising RFMSegment = "Promising"
	SegmentRegular   RFMSegment = "Regular"
	SegmentAtRisk    RFMSegment = "At Risk"
	SegmentLost      RFMSegment = "Lost"
)

// AllSegments lists every segment in rank order, best first. Summaries
// always report all of them so a segment with zero customers still appears.
func AllSegments() []RFMSegment {
	return []RFMSegment{SegmentChampions, SegmentLoyal, SegmentPromising, SegmentRegular, SegmentAtRisk, SegmentLost}
}

// Rank orders segments best (0) to worst. Promising and Regular share a rank:
// both are unremarkable-but-healthy, differing only in recency of contact.
func (s RFMSegment) Rank() int {
	switch s {
	case SegmentChampions:
		return 0
	case SegmentLoyal:
		return 1
	case SegmentPromising, SegmentRegular:
		return 2
	case SegmentAtRisk:
		return 3
	case SegmentLost:
		return 4
	}
	return 4
}

// RFMTrend compares a client's current-period spend against the immediately
// preceding period of equal length.
type RFMTrend string

const (
	TrendUp   RFMTrend = "up"
	TrendDown RFMTrend = "down"
	TrendFlat RFMTrend = "flat"
	TrendNew  RFMTrend = "new" // no purchases before the current period
)

// ClientProductStat is one entry of a client's top-products ranking.
type ClientProductStat struct {
	ProductName string
	Quantity    decimal.Decimal
	Revenue     decimal.Decimal
}

// CustomerRFM is the per-client recency/frequency/monetary profile.
type CustomerRFM struct {
	ClientID    uuid.UUID
	ClientName  string
	RecencyDays int // days since last non-voided sale; RecencyNever if none
	Frequency   int // count of non-voided sales
	Monetary    decimal.Decimal
	AvgTicket   decimal.Decimal // Monetary / Frequency, 0 when Frequency is 0
	Segment     RFMSegment
	Trend       RFMTrend
	TopProducts []ClientProductStat
}

// ComputeCustomerRFM profiles every client against the full sales history.
// Voided sales are invisible here. Sales without a client ID cannot be
// attributed and are skipped. The result is sorted by monetary value
// descending so the most valuable customers come first.
func ComputeCustomerRFM(clients []ledger.Client, sales []ledger.Sale, today time.Time, cfg Config) []CustomerRFM {
	currentPeriod := ResolvePeriod(PeriodMonth, today)
	previousPeriod := currentPeriod.Previous()

	type clientAccum struct {
		lastSale    time.Time
		frequency   int
		monetary    decimal.Decimal
		current     decimal.Decimal // spend in the current period
		previous    decimal.Decimal // spend in the preceding equal period
		before      decimal.Decimal // any spend before the current period
		productQty  map[string]decimal.Decimal
		productRev  map[string]decimal.Decimal
	}

	accums := make(map[uuid.UUID]*clientAccum, len(clients))
	for _, c := range clients {
		accums[c.ID] = &clientAccum{
			monetary:   decimal.Zero,
			current:    decimal.Zero,
			previous:   decimal.Zero,
			before:     decimal.Zero,
			productQty: make(map[string]decimal.Decimal),
			productRev: make(map[string]decimal.Decimal),
		}
	}

	for _, s := range sales {
		if !s.CountsTowardRevenue() || s.ClientID == uuid.Nil {
			continue
		}
		acc, ok := accums[s.ClientID]
		if !ok {
			continue // sale references a client not in the snapshot
		}
		acc.frequency++
		acc.monetary = acc.monetary.Add(s.Total)
		if acc.lastSale.IsZero() || s.Date.After(acc.lastSale) {
			acc.lastSale = s.Date
		}
		switch {
		case currentPeriod.Contains(s.Date):
			acc.current = acc.current.Add(s.Total)
		case previousPeriod.Contains(s.Date):
			acc.previous = acc.previous.Add(s.Total)
			acc.before = acc.before.Add(s.Total)
		case Day(s.Date).Before(currentPeriod.Start):
			acc.before = acc.before.Add(s.Total)
		}
		for _, item := range s.Items {
			acc.productQty[item.ProductName] = acc.productQty[item.ProductName].Add(item.Quantity)
			acc.productRev[item.ProductName] = acc.productRev[item.ProductName].Add(item.Subtotal)
		}
	}

	result := make([]CustomerRFM, 0, len(clients))
	for _, c := range clients {
		acc := accums[c.ID]

		recency := RecencyNever
		if acc.frequency > 0 {
			recency = wholeDaysBetween(acc.lastSale, today)
			if recency < 0 {
				recency = 0 // future-dated sale, clamp
			}
			if recency > RecencyNever {
				recency = RecencyNever
			}
		}

		avgTicket := decimal.Zero
		if acc.frequency > 0 {
			avgTicket = acc.monetary.Div(decimal.NewFromInt(int64(acc.frequency)))
		}

		result = append(result, CustomerRFM{
			ClientID:    c.ID,
			ClientName:  c.Name,
			RecencyDays: recency,
			Frequency:   acc.frequency,
			Monetary:    acc.monetary,
			AvgTicket:   avgTicket,
			Segment:     ClassifySegment(recency, acc.frequency, acc.monetary, cfg.RFM),
			Trend:       classifyTrend(acc.current, acc.previous, acc.before, cfg.RFM),
			TopProducts: topClientProducts(acc.productQty, acc.productRev, cfg.TopProductsPerClient),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Monetary.GreaterThan(result[j].Monetary)
	})
	return result
}

// ClassifySegment runs the segmentation rule tree: a fixed priority order
// where the first matching rule wins. Clients with no purchases fall through
// to Lost via the recency sentinel, keeping the ranking monotone in the
// three metrics.
func ClassifySegment(recencyDays, frequency int, monetary decimal.Decimal, th RFMThresholds) RFMSegment {
	frequent := frequency >= th.FrequentOrders
	bigSpender := monetary.GreaterThanOrEqual(th.BigSpender)

	switch {
	case recencyDays <= th.RecentDays && frequent && bigSpender:
		return SegmentChampions
	case recencyDays < th.ColdDays && frequent:
		return SegmentLoyal
	case recencyDays <= th.RecentDays:
		return SegmentPromising
	case recencyDays >= th.LostDays:
		return SegmentLost
	case recencyDays >= th.ColdDays:
		return SegmentAtRisk
	default:
		return SegmentRegular
	}
}

// classifyTrend compares current-period spend to the preceding equal period.
// A client with no history before the current period is new, not flat.
func classifyTrend(current, previous, before decimal.Decimal, th RFMThresholds) RFMTrend {
	if before.IsZero() {
		if current.IsZero() {
			return TrendFlat // no activity at all
		}
		return TrendNew
	}
	if previous.IsZero() {
		if current.IsZero() {
			return TrendFlat
		}
		return TrendUp
	}
	changePct := current.Sub(previous).Div(previous).Mul(oneHundred)
	switch {
	case changePct.GreaterThan(th.FlatBandPct):
		return TrendUp
	case changePct.LessThan(th.FlatBandPct.Neg()):
		return TrendDown
	default:
		return TrendFlat
	}
}

// SegmentSummary counts customers per segment. Every segment appears in the
// map, zero-valued when empty, so downstream consumers get a stable shape.
func SegmentSummary(profiles []CustomerRFM) map[RFMSegment]int {
	summary := make(map[RFMSegment]int, 6)
	for _, s := range AllSegments() {
		summary[s] = 0
	}
	for _, p := range profiles {
		summary[p.Segment]++
	}
	return summary
}

func topClientProducts(qty, rev map[string]decimal.Decimal, n int) []ClientProductStat {
	stats := make([]ClientProductStat, 0, len(rev))
	for name, revenue := range rev {
		stats = append(stats, ClientProductStat{
			ProductName: name,
			Quantity:    qty[name],
			Revenue:     revenue,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Revenue.Equal(stats[j].Revenue) {
			return stats[i].ProductName < stats[j].ProductName
		}
		return stats[i].Revenue.GreaterThan(stats[j].Revenue)
	})
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
