package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pyme/backend/internal/domain/analytics"
)

// Responses carry float64 amounts: all arithmetic happens on decimals inside
// the analytics core, and the conversion occurs exactly once, here, for JSON
// rendering.

// IncomeStatementResponse represents the income statement response
type IncomeStatementResponse struct {
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
	GrossRevenue      float64   `json:"gross_revenue"`
	CostOfGoodsSold   float64   `json:"cost_of_goods_sold"`
	GrossProfit       float64   `json:"gross_profit"`
	GrossMargin       float64   `json:"gross_margin"`
	OperatingExpenses float64   `json:"operating_expenses"`
	EBITDA            float64   `json:"ebitda"`
	EBITDAMargin      float64   `json:"ebitda_margin"`
	IncomeTax         float64   `json:"income_tax"`
	NetIncome         float64   `json:"net_income"`
	NetMargin         float64   `json:"net_margin"`
	TransactionCount  int       `json:"transaction_count"`
}

// CashFlowResponse represents the realized cash flow response
type CashFlowResponse struct {
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
	Inflows           float64   `json:"inflows"`
	InflowsCount      int       `json:"inflows_count"`
	OutflowsPurchases float64   `json:"outflows_purchases"`
	OutflowsExpenses  float64   `json:"outflows_expenses"`
	TotalOutflows     float64   `json:"total_outflows"`
	NetCashFlow       float64   `json:"net_cash_flow"`
}

// LiquidityResponse represents the liquidity KPI response
type LiquidityResponse struct {
	AccountsReceivable  float64 `json:"accounts_receivable"`
	AccountsPayable     float64 `json:"accounts_payable"`
	DSO                 float64 `json:"dso"`
	DPO                 float64 `json:"dpo"`
	WorkingCapital      float64 `json:"working_capital"`
	CashConversionCycle float64 `json:"cash_conversion_cycle"`
}

// InventoryResponse represents the inventory KPI response
type InventoryResponse struct {
	InventoryValue     float64 `json:"inventory_value"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
	DaysOfInventory    float64 `json:"days_of_inventory"` // -1 when turnover is zero
	TotalSKUs          int     `json:"total_skus"`
	LowStockCount      int     `json:"low_stock_count"`
	OutOfStockCount    int     `json:"out_of_stock_count"`
	TargetCoverageDays int     `json:"target_coverage_days"`
}

// ProjectionDayResponse represents one day of the cash-flow projection
type ProjectionDayResponse struct {
	Date          string  `json:"date"`
	Inflows       float64 `json:"inflows"`
	Outflows      float64 `json:"outflows"`
	Net           float64 `json:"net"`
	CumulativeNet float64 `json:"cumulative_net"`
}

// ProjectionResponse represents the 30-day cash-flow projection response
type ProjectionResponse struct {
	Days          []ProjectionDayResponse `json:"days"`
	TotalInflows  float64                 `json:"total_inflows"`
	TotalOutflows float64                 `json:"total_outflows"`
	NetFlow       float64                 `json:"net_flow"`
	CriticalDays  []string                `json:"critical_days"`
}

// AgingBucketsResponse represents the five aging buckets
type AgingBucketsResponse struct {
	Current    float64 `json:"current"`
	Days1to30  float64 `json:"days_1_30"`
	Days31to60 float64 `json:"days_31_60"`
	Days61to90 float64 `json:"days_61_90"`
	Days90Plus float64 `json:"days_90_plus"`
}

// CounterpartyDebtResponse represents one row of the aging rollup
type CounterpartyDebtResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Total          float64 `json:"total"`
	OpenDocuments  int     `json:"open_documents"`
	OldestDueDate  string  `json:"oldest_due_date"`
	MaxDaysOverdue int     `json:"max_days_overdue"`
}

// AgingResponse represents the aging report response
type AgingResponse struct {
	AsOf             string                     `json:"as_of"`
	Buckets          AgingBucketsResponse       `json:"buckets"`
	TotalOutstanding float64                    `json:"total_outstanding"`
	Counterparties   []CounterpartyDebtResponse `json:"counterparties"`
}

// ClientProductResponse represents one product in a customer profile
type ClientProductResponse struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// CustomerProfileResponse represents one customer RFM profile
type CustomerProfileResponse struct {
	ClientID    string                  `json:"client_id"`
	ClientName  string                  `json:"client_name"`
	RecencyDays int                     `json:"recency_days"`
	Frequency   int                     `json:"frequency"`
	Monetary    float64                 `json:"monetary"`
	AvgTicket   float64                 `json:"avg_ticket"`
	Segment     string                  `json:"segment"`
	Trend       string                  `json:"trend"`
	TopProducts []ClientProductResponse `json:"top_products"`
}

// CustomerRFMResponse represents the customer analytics response
type CustomerRFMResponse struct {
	Customers []CustomerProfileResponse `json:"customers"`
	Segments  map[string]int            `json:"segments"`
}

// SeriesPointResponse represents one bucket of a trend series
type SeriesPointResponse struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// RankedEntryResponse represents one row of a top-N ranking
type RankedEntryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	FullName string  `json:"full_name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Count    int     `json:"count"`
}

// GoalProgressResponse represents the sales goal progress response
type GoalProgressResponse struct {
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	GoalAmount      float64   `json:"goal_amount"`
	CurrentSales    float64   `json:"current_sales"`
	ProgressPercent float64   `json:"progress_percent"`
	ProjectedTotal  float64   `json:"projected_total"`
	RequiredDaily   float64   `json:"required_daily"`
	DaysElapsed     int       `json:"days_elapsed"`
	DaysRemaining   int       `json:"days_remaining"`
	OnTrack         bool      `json:"on_track"`
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toIncomeStatementResponse(is analytics.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		PeriodStart:       is.Period.Start,
		PeriodEnd:         is.Period.End,
		GrossRevenue:      toFloat64(is.GrossRevenue),
		CostOfGoodsSold:   toFloat64(is.CostOfGoodsSold),
		GrossProfit:       toFloat64(is.GrossProfit),
		GrossMargin:       toFloat64(is.GrossMargin),
		OperatingExpenses: toFloat64(is.OperatingExpenses),
		EBITDA:            toFloat64(is.EBITDA),
		EBITDAMargin:      toFloat64(is.EBITDAMargin),
		IncomeTax:         toFloat64(is.IncomeTax),
		NetIncome:         toFloat64(is.NetIncome),
		NetMargin:         toFloat64(is.NetMargin),
		TransactionCount:  is.TransactionCount,
	}
}

func toCashFlowResponse(cf analytics.CashFlowSummary) CashFlowResponse {
	return CashFlowResponse{
		PeriodStart:       cf.Period.Start,
		PeriodEnd:         cf.Period.End,
		Inflows:           toFloat64(cf.Inflows),
		InflowsCount:      cf.InflowsCount,
		OutflowsPurchases: toFloat64(cf.OutflowsPurchases),
		OutflowsExpenses:  toFloat64(cf.OutflowsExpenses),
		TotalOutflows:     toFloat64(cf.TotalOutflows),
		NetCashFlow:       toFloat64(cf.NetCashFlow),
	}
}

func toLiquidityResponse(k analytics.LiquidityKPIs) LiquidityResponse {
	return LiquidityResponse{
		AccountsReceivable:  toFloat64(k.AccountsReceivable),
		AccountsPayable:     toFloat64(k.AccountsPayable),
		DSO:                 toFloat64(k.DSO),
		DPO:                 toFloat64(k.DPO),
		WorkingCapital:      toFloat64(k.WorkingCapital),
		CashConversionCycle: toFloat64(k.CashConversionCycle),
	}
}

func toInventoryResponse(k analytics.InventoryKPIs) InventoryResponse {
	return InventoryResponse{
		InventoryValue:     toFloat64(k.InventoryValue),
		InventoryTurnover:  toFloat64(k.InventoryTurnover),
		DaysOfInventory:    toFloat64(k.DaysOfInventory),
		TotalSKUs:          k.TotalSKUs,
		LowStockCount:      k.LowStockCount,
		OutOfStockCount:    k.OutOfStockCount,
		TargetCoverageDays: k.TargetCoverageDays,
	}
}

func toProjectionResponse(p analytics.CashFlowProjection) ProjectionResponse {
	days := make([]ProjectionDayResponse, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, ProjectionDayResponse{
			Date:          d.Date.Format("2006-01-02"),
			Inflows:       toFloat64(d.Inflows),
			Outflows:      toFloat64(d.Outflows),
			Net:           toFloat64(d.Net),
			CumulativeNet: toFloat64(d.CumulativeNet),
		})
	}
	critical := make([]string, 0, len(p.CriticalDays))
	for _, d := range p.CriticalDays {
		critical = append(critical, d.Format("2006-01-02"))
	}
	return ProjectionResponse{
		Days:          days,
		TotalInflows:  toFloat64(p.TotalInflows),
		TotalOutflows: toFloat64(p.TotalOutflows),
		NetFlow:       toFloat64(p.NetFlow),
		CriticalDays:  critical,
	}
}

func toAgingResponse(r analytics.AgingReport) AgingResponse {
	counterparties := make([]CounterpartyDebtResponse, 0, len(r.Counterparties))
	for _, c := range r.Counterparties {
		counterparties = append(counterparties, CounterpartyDebtResponse{
			ID:             c.ID.String(),
			Name:           c.Name,
			Total:          toFloat64(c.Total),
			OpenDocuments:  c.OpenDocuments,
			OldestDueDate:  c.OldestDueDate.Format("2006-01-02"),
			MaxDaysOverdue: c.MaxDaysOverdue,
		})
	}
	return AgingResponse{
		AsOf: r.AsOf.Format("2006-01-02"),
		Buckets: AgingBucketsResponse{
			Current:    toFloat64(r.Buckets.Current),
			Days1to30:  toFloat64(r.Buckets.Days1to30),
			Days31to60: toFloat64(r.Buckets.Days31to60),
			Days61to90: toFloat64(r.Buckets.Days61to90),
			Days90Plus: toFloat64(r.Buckets.Days90Plus),
		},
		TotalOutstanding: toFloat64(r.TotalOutstanding),
		Counterparties:   counterparties,
	}
}

func toCustomerRFMResponse(profiles []analytics.CustomerRFM) CustomerRFMResponse {
	customers := make([]CustomerProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		products := make([]ClientProductResponse, 0, len(p.TopProducts))
		for _, tp := range p.TopProducts {
			products = append(products, ClientProductResponse{
				ProductName: tp.ProductName,
				Quantity:    toFloat64(tp.Quantity),
				Revenue:     toFloat64(tp.Revenue),
			})
		}
		customers = append(customers, CustomerProfileResponse{
			ClientID:    p.ClientID.String(),
			ClientName:  p.ClientName,
			RecencyDays: p.RecencyDays,
			Frequency:   p.Frequency,
			Monetary:    toFloat64(p.Monetary),
			AvgTicket:   toFloat64(p.AvgTicket),
			Segment:     string(p.Segment),
			Trend:       string(p.Trend),
			TopProducts: products,
		})
	}

	segments := make(map[string]int, 6)
	for segment, count := range analytics.SegmentSummary(profiles) {
		segments[string(segment)] = count
	}

	return CustomerRFMResponse{Customers: customers, Segments: segments}
}

func toSeriesResponse(points []analytics.SeriesPoint) []SeriesPointResponse {
	out := make([]SeriesPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, SeriesPointResponse{
			Label:   p.Label,
			Revenue: toFloat64(p.Revenue),
			Cost:    toFloat64(p.Cost),
			Profit:  toFloat64(p.Profit),
		})
	}
	return out
}

func toRankingResponse(entries []analytics.RankedEntry) []RankedEntryResponse {
	out := make([]RankedEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, RankedEntryResponse{
			ID:       e.ID.String(),
			Name:     e.Name,
			FullName: e.FullName,
			Quantity: toFloat64(e.Quantity),
			Revenue:  toFloat64(e.Revenue),
			Count:    e.Count,
		})
	}
	return out
}

func toGoalProgressResponse(g analytics.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		PeriodStart:     g.Period.Start,
		PeriodEnd:       g.Period.End,
		GoalAmount:      toFloat64(g.GoalAmount),
		CurrentSales:    toFloat64(g.CurrentSales),
		ProgressPercent: toFloat64(g.ProgressPercent),
		ProjectedTotal:  toFloat64(g.ProjectedTotal),
		RequiredDaily:   toFloat64(g.RequiredDaily),
		DaysElapsed:     g.DaysElapsed,
		DaysRemaining:   g.DaysRemaining,
		OnTrack:         g.OnTrack,
	}
}
