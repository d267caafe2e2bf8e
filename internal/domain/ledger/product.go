package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents whether a product is sellable
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product is a catalog item with its current stock position. Stock may
// legitimately go negative under oversell; Cost is the current
// weighted-average unit cost.
type Product struct {
	ID       uuid.UUID
	Name     string
	Category string
	Stock    decimal.Decimal
	Cost     decimal.Decimal // weighted-average unit cost, tax-exclusive
	Price    decimal.Decimal // current base unit price, tax-exclusive
	Status   ProductStatus
}

// IsActive reports whether the product participates in inventory KPIs.
func (p Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// StockValue returns Stock * Cost. Negative stock contributes negative value
// so oversell is visible in the valuation instead of silently clamped.
func (p Product) StockValue() decimal.Decimal {
	return p.Stock.Mul(p.Cost)
}
