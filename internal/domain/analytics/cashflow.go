package analytics

import (
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CashFlowSummary is the realized-cash view of a period: only money that
// actually moved. Pending documents are obligations, not cash, and belong to
// the aging and projection views instead.
type CashFlowSummary struct {
	Period            DateRange
	Inflows           decimal.Decimal // tax-inclusive totals of paid sales
	InflowsCount      int
	OutflowsPurchases decimal.Decimal // tax-inclusive totals of paid purchases
	OutflowsExpenses  decimal.Decimal // expenses are cash-paid on record
	TotalOutflows     decimal.Decimal
	NetCashFlow       decimal.Decimal
}

// ComputeCashFlow aggregates already-filtered records into realized cash
// movements for the period.
func ComputeCashFlow(sales []ledger.Sale, purchases []ledger.Purchase, expenses []ledger.Expense, period DateRange) CashFlowSummary {
	inflows := decimal.Zero
	inflowsCount := 0
	for _, s := range sales {
		if s.IsPaid() {
			inflows = inflows.Add(s.Total)
			inflowsCount++
		}
	}

	outPurchases := decimal.Zero
	for _, p := range purchases {
		if p.IsPaid() {
			outPurchases = outPurchases.Add(p.Total)
		}
	}

	outExpenses := decimal.Zero
	for _, e := range expenses {
		outExpenses = outExpenses.Add(e.Amount)
	}

	totalOut := outPurchases.Add(outExpenses)
	return CashFlowSummary{
		Period:            period,
		Inflows:           inflows,
		InflowsCount:      inflowsCount,
		OutflowsPurchases: outPurchases,
		OutflowsExpenses:  outExpenses,
		TotalOutflows:     totalOut,
		NetCashFlow:       inflows.Sub(totalOut),
	}
}
