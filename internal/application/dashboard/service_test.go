package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pyme/backend/internal/domain/analytics"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/pyme/backend/internal/infrastructure/cache"
)

type stubSnapshotRepository struct {
	snapshot *ledger.Snapshot
	err      error
	loads    int
}

func (r *stubSnapshotRepository) Load(ctx context.Context) (*ledger.Snapshot, error) {
	r.loads++
	if r.err != nil {
		return nil, r.err
	}
	return r.snapshot, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// fixtureSnapshot holds one paid sale, one pending sale, one paid purchase,
// one expense, two products and one client, all dated January 2025.
func fixtureSnapshot() (*ledger.Snapshot, uuid.UUID) {
	clientID := uuid.New()
	productID := uuid.New()
	due := date(2025, time.February, 10)
	return &ledger.Snapshot{
		Sales: []ledger.Sale{
			{
				ID:         uuid.New(),
				Date:       date(2025, time.January, 10),
				ClientID:   clientID,
				ClientName: "Ana",
				Status:     ledger.SaleStatusPaid,
				Items: []ledger.SaleItem{
					{ProductID: productID, ProductName: "Mochila", Quantity: d("2"), UnitPrice: d("50"), UnitCost: d("30"), Subtotal: d("100")},
				},
				Subtotal: d("100"),
				IGV:      d("18"),
				Total:    d("118"),
			},
			{
				ID:         uuid.New(),
				Date:       date(2025, time.January, 20),
				DueDate:    &due,
				ClientID:   clientID,
				ClientName: "Ana",
				Status:     ledger.SaleStatusPending,
				Items: []ledger.SaleItem{
					{ProductID: productID, ProductName: "Mochila", Quantity: d("1"), UnitPrice: d("50"), UnitCost: d("30"), Subtotal: d("50")},
				},
				Subtotal: d("50"),
				IGV:      d("9"),
				Total:    d("59"),
			},
		},
		Purchases: []ledger.Purchase{
			{
				ID:           uuid.New(),
				Date:         date(2025, time.January, 5),
				SupplierID:   uuid.New(),
				SupplierName: "Proveedor SAC",
				Status:       ledger.PurchaseStatusPaid,
				Items: []ledger.PurchaseItem{
					{ProductID: productID, ProductName: "Mochila", Quantity: d("3"), UnitCost: d("30")},
				},
				Subtotal: d("90"),
				IGV:      d("16.2"),
				Total:    d("106.2"),
			},
		},
		Expenses: []ledger.Expense{
			{ID: uuid.New(), Date: date(2025, time.January, 15), Amount: d("20"), Category: "alquiler"},
		},
		Products: []ledger.Product{
			{ID: productID, Name: "Mochila", Stock: d("10"), Cost: d("30"), Price: d("50"), Status: ledger.ProductStatusActive},
			{ID: uuid.New(), Name: "Descontinuado", Stock: d("4"), Cost: d("10"), Price: d("15"), Status: ledger.ProductStatusInactive},
		},
		Clients: []ledger.Client{
			{ID: clientID, Name: "Ana"},
		},
	}, clientID
}

func newTestService(snap *ledger.Snapshot) (*DashboardService, *stubSnapshotRepository) {
	repo := &stubSnapshotRepository{snapshot: snap}
	svc := NewDashboardService(repo, cache.NewNoopReportCache(), analytics.DefaultConfig(), zap.NewNop())
	return svc, repo
}

func TestDashboardService_GetIncomeStatement(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, repo := newTestService(snap)

	resp, err := svc.GetIncomeStatement(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)
	require.Equal(t, 1, repo.loads)

	// Paid 100 + pending 50 accrue; COGS 60 + 30; opex 20.
	assert.InDelta(t, 150.0, resp.GrossRevenue, 1e-9)
	assert.InDelta(t, 90.0, resp.CostOfGoodsSold, 1e-9)
	assert.InDelta(t, 60.0, resp.GrossProfit, 1e-9)
	assert.InDelta(t, 40.0, resp.EBITDA, 1e-9)
	assert.InDelta(t, 0.6, resp.IncomeTax, 1e-9)
	assert.InDelta(t, 39.4, resp.NetIncome, 1e-9)
	assert.Equal(t, 2, resp.TransactionCount)
	assert.Equal(t, date(2025, time.January, 1), resp.PeriodStart)
}

func TestDashboardService_GetIncomeStatement_LoadError(t *testing.T) {
	repo := &stubSnapshotRepository{err: errors.New("connection refused")}
	svc := NewDashboardService(repo, cache.NewNoopReportCache(), analytics.DefaultConfig(), zap.NewNop())

	resp, err := svc.GetIncomeStatement(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "loading snapshot")
}

func TestDashboardService_GetCashFlowSummary(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetCashFlowSummary(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)

	// Only the paid sale moves cash in; the pending one does not.
	assert.InDelta(t, 118.0, resp.Inflows, 1e-9)
	assert.Equal(t, 1, resp.InflowsCount)
	assert.InDelta(t, 106.2, resp.OutflowsPurchases, 1e-9)
	assert.InDelta(t, 20.0, resp.OutflowsExpenses, 1e-9)
	assert.InDelta(t, 126.2, resp.TotalOutflows, 1e-9)
	assert.InDelta(t, 118.0-126.2, resp.NetCashFlow, 1e-9)
}

func TestDashboardService_GetLiquidityKPIs(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetLiquidityKPIs(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)

	assert.InDelta(t, 59.0, resp.AccountsReceivable, 1e-9)
	assert.InDelta(t, 0.0, resp.AccountsPayable, 1e-9)
	assert.InDelta(t, 59.0, resp.WorkingCapital, 1e-9)
	// DSO = 59 / (177/31); DIO = 31 / (90/300); DPO = 0.
	assert.InDelta(t, 59.0/(177.0/31.0), resp.DSO, 1e-6)
	assert.InDelta(t, 59.0/(177.0/31.0)+31.0/(90.0/300.0), resp.CashConversionCycle, 1e-6)
}

func TestDashboardService_GetInventoryKPIs(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetInventoryKPIs(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)

	// Inactive product is not counted.
	assert.InDelta(t, 300.0, resp.InventoryValue, 1e-9)
	assert.Equal(t, 1, resp.TotalSKUs)
	assert.Equal(t, 0, resp.LowStockCount)
	assert.Equal(t, 0, resp.OutOfStockCount)
	assert.InDelta(t, 90.0/300.0, resp.InventoryTurnover, 1e-9)
	assert.Equal(t, 45, resp.TargetCoverageDays)
}

func TestDashboardService_GetCashFlowProjection(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetCashFlowProjection(context.Background(), date(2025, time.February, 1))
	require.NoError(t, err)

	require.Len(t, resp.Days, 30)
	assert.Equal(t, "2025-02-01", resp.Days[0].Date)
	// The pending sale is due Feb 10, inside the horizon.
	assert.InDelta(t, 59.0, resp.TotalInflows, 1e-9)
	assert.InDelta(t, 0.0, resp.TotalOutflows, 1e-9)
	assert.InDelta(t, 59.0, resp.NetFlow, 1e-9)
	assert.Empty(t, resp.CriticalDays)
}

func TestDashboardService_GetReceivablesAging(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetReceivablesAging(context.Background(), date(2025, time.February, 20))
	require.NoError(t, err)

	// Due Feb 10, ten days overdue on Feb 20.
	assert.Equal(t, "2025-02-20", resp.AsOf)
	assert.InDelta(t, 59.0, resp.Buckets.Days1to30, 1e-9)
	assert.InDelta(t, 59.0, resp.TotalOutstanding, 1e-9)
	require.Len(t, resp.Counterparties, 1)
	assert.Equal(t, "Ana", resp.Counterparties[0].Name)
	assert.Equal(t, 10, resp.Counterparties[0].MaxDaysOverdue)
}

func TestDashboardService_GetPayablesAging(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetPayablesAging(context.Background(), date(2025, time.February, 20))
	require.NoError(t, err)

	// The only purchase is paid, so nothing is outstanding.
	assert.InDelta(t, 0.0, resp.TotalOutstanding, 1e-9)
	assert.Empty(t, resp.Counterparties)
}

func TestDashboardService_GetCustomerRFM(t *testing.T) {
	snap, clientID := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetCustomerRFM(context.Background(), date(2025, time.February, 1))
	require.NoError(t, err)

	require.Len(t, resp.Customers, 1)
	profile := resp.Customers[0]
	assert.Equal(t, clientID.String(), profile.ClientID)
	assert.Equal(t, 12, profile.RecencyDays)
	assert.Equal(t, 2, profile.Frequency)
	assert.InDelta(t, 177.0, profile.Monetary, 1e-9)
	assert.Len(t, resp.Segments, 6)
}

func TestDashboardService_GetMonthlyTrend(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetMonthlyTrend(context.Background(), 3, date(2025, time.January, 31))
	require.NoError(t, err)

	require.Len(t, resp, 3)
	assert.Equal(t, "2024-11", resp[0].Label)
	assert.Equal(t, "2025-01", resp[2].Label)
	assert.InDelta(t, 150.0, resp[2].Revenue, 1e-9)
	assert.InDelta(t, 60.0, resp[2].Profit, 1e-9)
}

func TestDashboardService_GetDailyTrend(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetDailyTrend(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)

	require.Len(t, resp, 31)
	assert.Equal(t, "2025-01-10", resp[9].Label)
	assert.InDelta(t, 100.0, resp[9].Revenue, 1e-9)
	assert.InDelta(t, 0.0, resp[0].Revenue, 1e-9)
}

func TestDashboardService_GetTopProducts(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetTopProducts(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15), 5)
	require.NoError(t, err)

	require.Len(t, resp, 1)
	assert.Equal(t, "Mochila", resp[0].Name)
	assert.InDelta(t, 150.0, resp[0].Revenue, 1e-9)
	assert.InDelta(t, 3.0, resp[0].Quantity, 1e-9)
	assert.Equal(t, 2, resp[0].Count)
}

func TestDashboardService_GetTopClients(t *testing.T) {
	snap, clientID := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetTopClients(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15), 5)
	require.NoError(t, err)

	require.Len(t, resp, 1)
	assert.Equal(t, clientID.String(), resp[0].ID)
	assert.InDelta(t, 177.0, resp[0].Revenue, 1e-9)
	assert.Equal(t, 2, resp[0].Count)
}

func TestDashboardService_GetGoalProgress(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	resp, err := svc.GetGoalProgress(context.Background(), d("1000"), analytics.PeriodMonth, date(2025, time.January, 11))
	require.NoError(t, err)

	// Both non-voided sales fall inside January.
	assert.InDelta(t, 1000.0, resp.GoalAmount, 1e-9)
	assert.InDelta(t, 177.0, resp.CurrentSales, 1e-9)
	assert.InDelta(t, 17.7, resp.ProgressPercent, 1e-9)
	assert.Equal(t, 10, resp.DaysElapsed)
	assert.Equal(t, 20, resp.DaysRemaining)
	assert.False(t, resp.OnTrack)
}

func TestDashboardService_EmptySnapshot(t *testing.T) {
	svc, _ := newTestService(&ledger.Snapshot{})

	income, err := svc.GetIncomeStatement(context.Background(), analytics.PeriodMonth, date(2025, time.January, 15))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, income.GrossRevenue, 1e-9)
	assert.InDelta(t, 0.0, income.GrossMargin, 1e-9)

	rfm, err := svc.GetCustomerRFM(context.Background(), date(2025, time.January, 15))
	require.NoError(t, err)
	assert.Empty(t, rfm.Customers)
	assert.Len(t, rfm.Segments, 6)
}

func TestDashboardService_InvalidateReports(t *testing.T) {
	snap, _ := fixtureSnapshot()
	svc, _ := newTestService(snap)

	require.NoError(t, svc.InvalidateReports(context.Background()))
}
