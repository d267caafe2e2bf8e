package analytics

import (
	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// DaysOfInventoryUndefined is returned when turnover is zero (nothing sold
// in the window): coverage is unbounded, and -1 keeps the field finite
// instead of leaking Inf into a dashboard.
var DaysOfInventoryUndefined = decimal.NewFromInt(-1)

// InventoryKPIs summarises the stock position of the active catalog.
//
// Window COGS values sold quantities at the product's current
// weighted-average cost, and turnover divides by the current inventory value
// in lieu of a historical average. Both are documented simplifications: the
// store keeps no inventory snapshots at this granularity.
type InventoryKPIs struct {
	InventoryValue     decimal.Decimal // sum of stock * weighted-average cost, active products
	InventoryTurnover  decimal.Decimal // window COGS / inventory value, 0 when value is 0
	DaysOfInventory    decimal.Decimal // windowDays / turnover, DaysOfInventoryUndefined on zero turnover
	TotalSKUs          int             // active products
	LowStockCount      int             // 0 < stock < threshold
	OutOfStockCount    int             // stock <= 0
	TargetCoverageDays int             // configured coverage target, echoed for gauges
}

// ComputeInventoryKPIs derives stock KPIs from the active catalog and the
// sales of a trailing window of windowDays days. Voided sales do not count
// as movement. Sold items whose product no longer exists in the catalog are
// valued at their own cost snapshot.
func ComputeInventoryKPIs(products []ledger.Product, sales []ledger.Sale, windowDays int, cfg Config) InventoryKPIs {
	value := decimal.Zero
	skus := 0
	lowStock := 0
	outOfStock := 0
	costByProduct := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		skus++
		value = value.Add(p.StockValue())
		costByProduct[p.ID] = p.Cost
		switch {
		case !p.Stock.IsPositive():
			outOfStock++
		case p.Stock.LessThan(cfg.LowStockThreshold):
			lowStock++
		}
	}

	windowCOGS := decimal.Zero
	for _, s := range sales {
		if !s.CountsTowardRevenue() {
			continue
		}
		for _, item := range s.Items {
			if cost, ok := costByProduct[item.ProductID]; ok {
				windowCOGS = windowCOGS.Add(cost.Mul(item.Quantity))
			} else {
				windowCOGS = windowCOGS.Add(item.LineCOGS())
			}
		}
	}

	turnover := safeDiv(windowCOGS, value)
	daysOfInventory := DaysOfInventoryUndefined
	if turnover.IsPositive() {
		daysOfInventory = decimal.NewFromInt(int64(windowDays)).Div(turnover)
	}

	return InventoryKPIs{
		InventoryValue:     value,
		InventoryTurnover:  turnover,
		DaysOfInventory:    daysOfInventory,
		TotalSKUs:          skus,
		LowStockCount:      lowStock,
		OutOfStockCount:    outOfStock,
		TargetCoverageDays: cfg.TargetCoverageDays,
	}
}
