// Package analytics is the computation core: pure, stateless functions that
// derive financial statements and KPIs from ledger snapshots. Every function
// is a deterministic map from (records, parameters) to a value; nothing here
// performs I/O, holds state, or returns errors. Possibly-zero denominators
// resolve to defined sentinels instead of NaN or Inf because the results are
// rendered directly.
package analytics

import "github.com/shopspring/decimal"

// RFMThresholds holds the tunable cutoffs of the customer segmentation rule
// tree. They are a business-tuning concern, not part of the algorithm.
type RFMThresholds struct {
	RecentDays     int             // recency at or below this is "recent"
	ColdDays       int             // recency at or above this is "cooling off"
	LostDays       int             // recency at or above this is "lost"
	FrequentOrders int             // frequency at or above this is "frequent"
	BigSpender     decimal.Decimal // monetary at or above this is "high value"
	FlatBandPct    decimal.Decimal // +-band (percent) within which a trend is flat
}

// Config carries every tunable constant of the analytics core. Callers build
// one from application configuration; DefaultConfig matches the behavior of
// the Peruvian small-business regime the system was written for.
type Config struct {
	TaxRate               decimal.Decimal // IGV, applied on tax-exclusive subtotals
	IncomeTaxRate         decimal.Decimal // flat small-business income tax on positive EBITDA
	LowStockThreshold     decimal.Decimal // stock strictly below this (and above zero) is low
	TargetCoverageDays    int             // desired days of inventory coverage
	ProjectionHorizonDays int             // forward window of the cash-flow projection
	TopProductsPerClient  int             // product ranking size inside a customer profile
	TopNDefault           int             // default size for product/client rankings
	RFM                   RFMThresholds
}

// DefaultConfig returns the production defaults: 18% IGV, 1.5% small-business
// income tax, 5-unit low-stock threshold, 45-day coverage target and a
// 30-day projection horizon.
func DefaultConfig() Config {
	return Config{
		TaxRate:               decimal.NewFromFloat(0.18),
		IncomeTaxRate:         decimal.NewFromFloat(0.015),
		LowStockThreshold:     decimal.NewFromInt(5),
		TargetCoverageDays:    45,
		ProjectionHorizonDays: 30,
		TopProductsPerClient:  5,
		TopNDefault:           10,
		RFM: RFMThresholds{
			RecentDays:     30,
			ColdDays:       90,
			LostDays:       180,
			FrequentOrders: 5,
			BigSpender:     decimal.NewFromInt(1000),
			FlatBandPct:    decimal.NewFromInt(5),
		},
	}
}

var oneHundred = decimal.NewFromInt(100)

// ratioPercent returns num/den*100, or zero when den is zero. Margins and
// progress percentages go through here so an empty period can never produce
// NaN on a dashboard.
func ratioPercent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(oneHundred)
}

// safeDiv returns num/den, or zero when den is zero.
func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
