package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pyme/backend/internal/domain/analytics"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/pyme/backend/internal/infrastructure/cache"
)

// DashboardService orchestrates the analytics core over snapshot loads.
// Each operation loads a consistent snapshot, runs the pure computation and
// converts the result to a response DTO. Period-keyed reports go through the
// report cache: the loader only runs on a miss.
type DashboardService struct {
	snapshots ledger.SnapshotRepository
	reports   cache.ReportCache
	cfg       analytics.Config
	logger    *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	snapshots ledger.SnapshotRepository,
	reports cache.ReportCache,
	cfg analytics.Config,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		snapshots: snapshots,
		reports:   reports,
		cfg:       cfg,
		logger:    logger,
	}
}

// reportKey builds a cache key for a period-keyed report. The reference
// time collapses to its calendar day so every request within the same day
// and period shares one entry.
func reportKey(report string, kind analytics.PeriodKind, ref time.Time) string {
	return fmt.Sprintf("%s:%s:%s", report, kind, ref.Format("2006-01-02"))
}

func (s *DashboardService) load(ctx context.Context) (*ledger.Snapshot, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// GetIncomeStatement computes the accrual income statement for the period
// containing ref.
func (s *DashboardService) GetIncomeStatement(ctx context.Context, kind analytics.PeriodKind, ref time.Time) (*IncomeStatementResponse, error) {
	var resp IncomeStatementResponse
	err := s.reports.FetchJSON(ctx, reportKey("income", kind, ref), &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		stmt := analytics.ComputeIncomeStatement(
			analytics.FilterByRange(snap.Sales, period),
			analytics.FilterByRange(snap.Expenses, period),
			period, s.cfg,
		)
		return toIncomeStatementResponse(stmt), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCashFlowSummary computes realized cash movements for the period
// containing ref.
func (s *DashboardService) GetCashFlowSummary(ctx context.Context, kind analytics.PeriodKind, ref time.Time) (*CashFlowResponse, error) {
	var resp CashFlowResponse
	err := s.reports.FetchJSON(ctx, reportKey("cashflow", kind, ref), &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		flow := analytics.ComputeCashFlow(
			analytics.FilterByRange(snap.Sales, period),
			analytics.FilterByRange(snap.Purchases, period),
			analytics.FilterByRange(snap.Expenses, period),
			period,
		)
		return toCashFlowResponse(flow), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLiquidityKPIs computes DSO, DPO, working capital and the cash
// conversion cycle over the period containing ref. Days of inventory feeds
// the cycle from the same window.
func (s *DashboardService) GetLiquidityKPIs(ctx context.Context, kind analytics.PeriodKind, ref time.Time) (*LiquidityResponse, error) {
	var resp LiquidityResponse
	err := s.reports.FetchJSON(ctx, reportKey("liquidity", kind, ref), &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		windowSales := analytics.FilterByRange(snap.Sales, period)
		inventory := analytics.ComputeInventoryKPIs(snap.ActiveProducts(), windowSales, period.Days(), s.cfg)
		kpis := analytics.ComputeLiquidityKPIs(
			windowSales,
			analytics.FilterByRange(snap.Purchases, period),
			period.Days(),
			inventory.DaysOfInventory,
			s.cfg,
		)
		return toLiquidityResponse(kpis), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetInventoryKPIs computes stock value, turnover and coverage from the
// active catalog and the sales of the period containing ref.
func (s *DashboardService) GetInventoryKPIs(ctx context.Context, kind analytics.PeriodKind, ref time.Time) (*InventoryResponse, error) {
	var resp InventoryResponse
	err := s.reports.FetchJSON(ctx, reportKey("inventory", kind, ref), &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		kpis := analytics.ComputeInventoryKPIs(
			snap.ActiveProducts(),
			analytics.FilterByRange(snap.Sales, period),
			period.Days(),
			s.cfg,
		)
		return toInventoryResponse(kpis), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCashFlowProjection builds the forward daily ledger of expected inflows
// and outflows starting at today.
func (s *DashboardService) GetCashFlowProjection(ctx context.Context, today time.Time) (*ProjectionResponse, error) {
	var resp ProjectionResponse
	key := fmt.Sprintf("projection:%s", today.Format("2006-01-02"))
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		projection := analytics.ProjectCashFlow(snap.Sales, snap.Purchases, today, s.cfg.ProjectionHorizonDays)
		return toProjectionResponse(projection), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReceivablesAging buckets open customer invoices by days overdue.
func (s *DashboardService) GetReceivablesAging(ctx context.Context, today time.Time) (*AgingResponse, error) {
	var resp AgingResponse
	key := fmt.Sprintf("aging:receivables:%s", today.Format("2006-01-02"))
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return toAgingResponse(analytics.AgeReceivables(snap.Sales, today)), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPayablesAging buckets open supplier documents by days overdue.
func (s *DashboardService) GetPayablesAging(ctx context.Context, today time.Time) (*AgingResponse, error) {
	var resp AgingResponse
	key := fmt.Sprintf("aging:payables:%s", today.Format("2006-01-02"))
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return toAgingResponse(analytics.AgePayables(snap.Purchases, today)), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCustomerRFM profiles every client by recency, frequency and monetary
// value against the full sales history.
func (s *DashboardService) GetCustomerRFM(ctx context.Context, today time.Time) (*CustomerRFMResponse, error) {
	var resp CustomerRFMResponse
	key := fmt.Sprintf("rfm:%s", today.Format("2006-01-02"))
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		profiles := analytics.ComputeCustomerRFM(snap.Clients, snap.Sales, today, s.cfg)
		return toCustomerRFMResponse(profiles), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMonthlyTrend returns the trailing months-month revenue/cost/profit
// series ending at the month containing ref.
func (s *DashboardService) GetMonthlyTrend(ctx context.Context, months int, ref time.Time) ([]SeriesPointResponse, error) {
	var resp []SeriesPointResponse
	key := fmt.Sprintf("trend:monthly:%d:%s", months, ref.Format("2006-01"))
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return toSeriesResponse(analytics.MonthlySeries(snap.Sales, months, ref, s.cfg)), nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetDailyTrend returns the day-by-day revenue/cost/profit series for the
// period containing ref.
func (s *DashboardService) GetDailyTrend(ctx context.Context, kind analytics.PeriodKind, ref time.Time) ([]SeriesPointResponse, error) {
	var resp []SeriesPointResponse
	err := s.reports.FetchJSON(ctx, reportKey("trend:daily", kind, ref), &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		return toSeriesResponse(analytics.DailySeries(snap.Sales, period, s.cfg)), nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTopProducts ranks products by tax-exclusive revenue within the period
// containing ref. n <= 0 falls back to the configured default.
func (s *DashboardService) GetTopProducts(ctx context.Context, kind analytics.PeriodKind, ref time.Time, n int) ([]RankedEntryResponse, error) {
	var resp []RankedEntryResponse
	key := fmt.Sprintf("%s:%d", reportKey("top:products", kind, ref), n)
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		return toRankingResponse(analytics.TopProducts(snap.Sales, period, n, s.cfg)), nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTopClients ranks customers by tax-inclusive spend within the period
// containing ref. n <= 0 falls back to the configured default.
func (s *DashboardService) GetTopClients(ctx context.Context, kind analytics.PeriodKind, ref time.Time, n int) ([]RankedEntryResponse, error) {
	var resp []RankedEntryResponse
	key := fmt.Sprintf("%s:%d", reportKey("top:clients", kind, ref), n)
	err := s.reports.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		period := analytics.ResolvePeriod(kind, ref)
		return toRankingResponse(analytics.TopClients(snap.Sales, period, n, s.cfg)), nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetGoalProgress measures sales against a goal for the current instance of
// the period kind. The goal amount is caller input, so this report bypasses
// the cache.
func (s *DashboardService) GetGoalProgress(ctx context.Context, goal decimal.Decimal, kind analytics.PeriodKind, today time.Time) (*GoalProgressResponse, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	progress := analytics.ComputeGoalProgress(snap.Sales, goal, kind, today)
	resp := toGoalProgressResponse(progress)
	return &resp, nil
}

// InvalidateReports drops every cached report. Call after the underlying
// ledger changes.
func (s *DashboardService) InvalidateReports(ctx context.Context) error {
	if err := s.reports.Invalidate(ctx, "*"); err != nil {
		return fmt.Errorf("invalidating reports: %w", err)
	}
	s.logger.Info("report cache invalidated")
	return nil
}
