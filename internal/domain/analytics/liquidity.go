package analytics

import (
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LiquidityKPIs describes how long cash stays tied up in receivables,
// payables and stock.
//
// CashConversionCycle uses the standard DSO + DIO - DPO formula. The system
// this replaces omitted the inventory term; including it is a deliberate
// correction, and callers that want the legacy behavior can pass a zero
// daysOfInventory.
type LiquidityKPIs struct {
	AccountsReceivable  decimal.Decimal // pending sale totals, regardless of due date
	AccountsPayable     decimal.Decimal // pending purchase totals
	DSO                 decimal.Decimal // days sales outstanding, 0 on zero revenue
	DPO                 decimal.Decimal // days payable outstanding, 0 on zero purchases
	WorkingCapital      decimal.Decimal // AR - AP
	CashConversionCycle decimal.Decimal // DSO + DIO - DPO
}

// ComputeLiquidityKPIs derives liquidity ratios from the sales and purchases
// of a trailing window of periodDays days. daysOfInventory comes from the
// inventory KPIs; a negative sentinel (turnover undefined) is treated as
// zero so the cycle stays finite.
func ComputeLiquidityKPIs(sales []ledger.Sale, purchases []ledger.Purchase, periodDays int, daysOfInventory decimal.Decimal, cfg Config) LiquidityKPIs {
	receivable := decimal.Zero
	periodRevenue := decimal.Zero
	for _, s := range sales {
		if s.IsPending() {
			receivable = receivable.Add(s.Total)
		}
		if s.CountsTowardRevenue() {
			periodRevenue = periodRevenue.Add(s.Total)
		}
	}

	payable := decimal.Zero
	periodPurchases := decimal.Zero
	for _, p := range purchases {
		if p.IsPending() {
			payable = payable.Add(p.Total)
		}
		periodPurchases = periodPurchases.Add(p.Total)
	}

	days := decimal.NewFromInt(int64(periodDays))
	// DSO = AR / (revenue per day); zero revenue means zero, not Inf.
	dso := safeDiv(receivable, safeDiv(periodRevenue, days))
	dpo := safeDiv(payable, safeDiv(periodPurchases, days))

	dio := daysOfInventory
	if dio.IsNegative() {
		dio = decimal.Zero
	}

	return LiquidityKPIs{
		AccountsReceivable:  receivable,
		AccountsPayable:     payable,
		DSO:                 dso,
		DPO:                 dpo,
		WorkingCapital:      receivable.Sub(payable),
		CashConversionCycle: dso.Add(dio).Sub(dpo),
	}
}
