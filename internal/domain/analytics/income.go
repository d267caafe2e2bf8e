package analytics

import (
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// IncomeStatement is the accrual view of a period: revenue earned and costs
// incurred regardless of whether cash moved. Compare CashFlowSummary for the
// realized view; the two must never be conflated.
type IncomeStatement struct {
	Period            DateRange
	GrossRevenue      decimal.Decimal // tax-exclusive subtotals of non-voided sales
	CostOfGoodsSold   decimal.Decimal // per-item cost snapshots, not current product cost
	GrossProfit       decimal.Decimal
	GrossMargin       decimal.Decimal // percent, 0 on zero revenue
	OperatingExpenses decimal.Decimal
	EBITDA            decimal.Decimal
	EBITDAMargin      decimal.Decimal // percent, 0 on zero revenue
	IncomeTax         decimal.Decimal // flat rate on positive EBITDA only
	NetIncome         decimal.Decimal
	NetMargin         decimal.Decimal // percent, 0 on zero revenue
	TransactionCount  int             // non-voided sales in the period
}

// ComputeIncomeStatement aggregates already-filtered sales and expenses into
// an income statement. COGS uses the cost snapshot stored on each sale item
// so repricing a product never rewrites history. Tax is never negative: a
// loss-making period owes zero, it does not accrue a credit.
func ComputeIncomeStatement(sales []ledger.Sale, expenses []ledger.Expense, period DateRange, cfg Config) IncomeStatement {
	revenue := decimal.Zero
	cogs := decimal.Zero
	count := 0
	for _, s := range sales {
		if !s.CountsTowardRevenue() {
			continue
		}
		revenue = revenue.Add(s.EffectiveSubtotal(cfg.TaxRate))
		cogs = cogs.Add(s.COGS())
		count++
	}

	opex := decimal.Zero
	for _, e := range expenses {
		opex = opex.Add(e.Amount)
	}

	grossProfit := revenue.Sub(cogs)
	ebitda := grossProfit.Sub(opex)

	tax := decimal.Zero
	if ebitda.IsPositive() {
		tax = ebitda.Mul(cfg.IncomeTaxRate)
	}
	netIncome := ebitda.Sub(tax)

	return IncomeStatement{
		Period:            period,
		GrossRevenue:      revenue,
		CostOfGoodsSold:   cogs,
		GrossProfit:       grossProfit,
		GrossMargin:       ratioPercent(grossProfit, revenue),
		OperatingExpenses: opex,
		EBITDA:            ebitda,
		EBITDAMargin:      ratioPercent(ebitda, revenue),
		IncomeTax:         tax,
		NetIncome:         netIncome,
		NetMargin:         ratioPercent(netIncome, revenue),
		TransactionCount:  count,
	}
}
