package analytics

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySeries_ZeroFilled(t *testing.T) {
	cfg := DefaultConfig()
	ref := day("2025-06-15")

	sales := []ledger.Sale{
		saleOn("2025-06-10", ledger.SaleStatusPaid, 300),
		saleOn("2025-02-20", ledger.SaleStatusPaid, 100),
		saleOn("2024-11-01", ledger.SaleStatusPaid, 999), // before the window
	}

	got := MonthlySeries(sales, 6, ref, cfg)

	require.Len(t, got, 6)
	assert.Equal(t, "2025-01", got[0].Label)
	assert.Equal(t, "2025-06", got[5].Label)

	assert.True(t, got[0].Revenue.IsZero()) // January had no activity
	assert.True(t, decimalEq(got[1].Revenue, 100))
	assert.True(t, decimalEq(got[5].Revenue, 300))
}

func TestMonthlySeries_ProfitUsesItemCosts(t *testing.T) {
	cfg := DefaultConfig()

	s := saleOn("2025-06-10", ledger.SaleStatusPaid, 100)
	s.Items = []ledger.SaleItem{saleItem(uuid.New(), "Cuaderno", 10, 10, 6)}

	got := MonthlySeries([]ledger.Sale{s}, 1, day("2025-06-15"), cfg)

	require.Len(t, got, 1)
	assert.True(t, decimalEq(got[0].Revenue, 100))
	assert.True(t, decimalEq(got[0].Cost, 60))
	assert.True(t, decimalEq(got[0].Profit, 40))
}

func TestMonthlySeries_VoidedExcluded(t *testing.T) {
	cfg := DefaultConfig()
	sales := []ledger.Sale{saleOn("2025-06-10", ledger.SaleStatusVoided, 500)}

	got := MonthlySeries(sales, 3, day("2025-06-15"), cfg)
	for _, p := range got {
		assert.True(t, p.Revenue.IsZero(), p.Label)
	}
}

func TestDailySeries(t *testing.T) {
	cfg := DefaultConfig()
	r := ResolvePeriod(PeriodMonth, day("2025-02-15"))

	sales := []ledger.Sale{
		saleOn("2025-02-01", ledger.SaleStatusPaid, 50),
		saleOn("2025-02-28", ledger.SaleStatusPaid, 70),
		saleOn("2025-03-01", ledger.SaleStatusPaid, 999), // outside
	}

	got := DailySeries(sales, r, cfg)

	require.Len(t, got, 28)
	assert.Equal(t, "2025-02-01", got[0].Label)
	assert.Equal(t, "2025-02-28", got[27].Label)
	assert.True(t, decimalEq(got[0].Revenue, 50))
	assert.True(t, decimalEq(got[27].Revenue, 70))
	assert.True(t, got[10].Revenue.IsZero())
}

func TestTopProducts(t *testing.T) {
	cfg := DefaultConfig()
	r := ResolvePeriod(PeriodMonth, day("2025-06-15"))
	cuaderno := uuid.New()
	mochila := uuid.New()

	s1 := saleOn("2025-06-01", ledger.SaleStatusPaid, 0)
	s1.Items = []ledger.SaleItem{
		saleItem(cuaderno, "Cuaderno", 10, 10, 5), // 100
		saleItem(mochila, "Mochila", 1, 80, 50),   // 80
	}
	s2 := saleOn("2025-06-10", ledger.SaleStatusPaid, 0)
	s2.Items = []ledger.SaleItem{
		saleItem(mochila, "Mochila", 2, 80, 50), // +160, mochila leads
	}

	got := TopProducts([]ledger.Sale{s1, s2}, r, 5, cfg)

	require.Len(t, got, 2)
	assert.Equal(t, mochila, got[0].ID)
	assert.True(t, decimalEq(got[0].Revenue, 240))
	assert.True(t, decimalEq(got[0].Quantity, 3))
	assert.Equal(t, 2, got[0].Count)

	assert.Equal(t, cuaderno, got[1].ID)
	assert.True(t, decimalEq(got[1].Revenue, 100))
}

func TestTopProducts_NameTruncation(t *testing.T) {
	cfg := DefaultConfig()
	r := ResolvePeriod(PeriodMonth, day("2025-06-15"))
	longName := "Cuaderno espiral A4 cuadriculado 100 hojas"

	s := saleOn("2025-06-01", ledger.SaleStatusPaid, 0)
	s.Items = []ledger.SaleItem{saleItem(uuid.New(), longName, 1, 10, 5)}

	got := TopProducts([]ledger.Sale{s}, r, 5, cfg)

	require.Len(t, got, 1)
	assert.Equal(t, longName, got[0].FullName)
	assert.True(t, strings.HasSuffix(got[0].Name, "…"))
	assert.LessOrEqual(t, len([]rune(got[0].Name)), displayNameLimit)
}

func TestTopClients(t *testing.T) {
	cfg := DefaultConfig()
	r := ResolvePeriod(PeriodMonth, day("2025-06-15"))
	ana := clientNamed("Ana")
	beto := clientNamed("Beto")

	sales := []ledger.Sale{
		saleWithClient("2025-06-01", ledger.SaleStatusPaid, 100, ana.ID, ana.Name),
		saleWithClient("2025-06-05", ledger.SaleStatusPaid, 300, beto.ID, beto.Name),
		saleWithClient("2025-06-10", ledger.SaleStatusPaid, 50, ana.ID, ana.Name),
		saleOn("2025-06-12", ledger.SaleStatusPaid, 999), // anonymous, skipped
	}

	got := TopClients(sales, r, 5, cfg)

	require.Len(t, got, 2)
	assert.Equal(t, beto.ID, got[0].ID)
	assert.True(t, decimalEq(got[0].Revenue, 354)) // tax-inclusive
	assert.Equal(t, ana.ID, got[1].ID)
	assert.Equal(t, 2, got[1].Count)
}

func TestRankings_DefaultTopN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopNDefault = 3
	r := ResolvePeriod(PeriodMonth, day("2025-06-15"))

	s := saleOn("2025-06-01", ledger.SaleStatusPaid, 0)
	for i := 0; i < 5; i++ {
		s.Items = append(s.Items, saleItem(uuid.New(), "Prod", float64(i+1), 10, 5))
	}

	got := TopProducts([]ledger.Sale{s}, r, 0, cfg)
	assert.Len(t, got, 3)
}
