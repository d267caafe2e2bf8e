// Package ledger holds the transactional input records the analytics engine
// consumes: sales, purchases, expenses, products and clients. Records are
// immutable snapshots owned by the storage layer; this package only reads
// them and centralizes the fallback rules for optional fields so each
// default is defined (and tested) exactly once.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the payment status of a sale
type SaleStatus string

const (
	SaleStatusPaid    SaleStatus = "PAID"
	SaleStatusPending SaleStatus = "PENDING"
	SaleStatusVoided  SaleStatus = "VOIDED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPaid, SaleStatusPending, SaleStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// SaleItem is a line item on a sale. UnitCost is the cost snapshot taken at
// sale time; legacy records created before cost tracking carry zero.
type SaleItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // per unit, tax-exclusive
	UnitCost    decimal.Decimal // per unit, tax-exclusive, snapshot at sale time
	Subtotal    decimal.Decimal // Quantity * UnitPrice
}

// EffectiveCost returns the stored cost snapshot, falling back to zero for
// legacy items recorded before cost tracking existed.
func (i SaleItem) EffectiveCost() decimal.Decimal {
	if i.UnitCost.IsNegative() {
		return decimal.Zero
	}
	return i.UnitCost
}

// LineCOGS returns the cost of goods sold contributed by this line item.
func (i SaleItem) LineCOGS() decimal.Decimal {
	return i.EffectiveCost().Mul(i.Quantity)
}

// Sale is a sales document. Date is a calendar day; DueDate is optional and
// defaults to the issue date for credit-term math.
type Sale struct {
	ID         uuid.UUID
	Date       time.Time
	DueDate    *time.Time
	ClientID   uuid.UUID // uuid.Nil when the record predates client tracking
	ClientName string
	Status     SaleStatus
	Items      []SaleItem
	Subtotal   decimal.Decimal // tax-exclusive
	IGV        decimal.Decimal // Subtotal * tax rate
	Total      decimal.Decimal // Subtotal + IGV
}

// DocDate returns the document date for period filtering.
func (s Sale) DocDate() time.Time {
	return s.Date
}

// EffectiveDueDate returns the due date, falling back to the issue date.
func (s Sale) EffectiveDueDate() time.Time {
	if s.DueDate != nil && !s.DueDate.IsZero() {
		return *s.DueDate
	}
	return s.Date
}

// EffectiveSubtotal returns the tax-exclusive subtotal. Legacy records that
// only stored a tax-inclusive total derive it as Total / (1 + taxRate).
func (s Sale) EffectiveSubtotal(taxRate decimal.Decimal) decimal.Decimal {
	if !s.Subtotal.IsZero() {
		return s.Subtotal
	}
	if s.Total.IsZero() {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(taxRate)
	if divisor.IsZero() {
		return s.Total
	}
	return s.Total.Div(divisor)
}

// EffectiveIGV returns the stored tax amount, deriving it from the effective
// subtotal when the record predates the igv field.
func (s Sale) EffectiveIGV(taxRate decimal.Decimal) decimal.Decimal {
	if !s.IGV.IsZero() {
		return s.IGV
	}
	return s.EffectiveSubtotal(taxRate).Mul(taxRate)
}

// CountsTowardRevenue reports whether the sale participates in revenue and
// customer analytics. Voided sales never do.
func (s Sale) CountsTowardRevenue() bool {
	return s.Status != SaleStatusVoided
}

// IsPaid reports whether the sale is realized cash.
func (s Sale) IsPaid() bool {
	return s.Status == SaleStatusPaid
}

// IsPending reports whether the sale is an open receivable.
func (s Sale) IsPending() bool {
	return s.Status == SaleStatusPending
}

// COGS returns the cost of goods sold of the whole document, using the
// per-item cost snapshots.
func (s Sale) COGS() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineCOGS())
	}
	return total
}

// CheckTaxIdentity verifies |Total - Subtotal*(1+taxRate)| < tolerance.
// Well-formed records always satisfy it; violations indicate a corrupted or
// hand-edited document and are reported, never rejected.
func (s Sale) CheckTaxIdentity(taxRate, tolerance decimal.Decimal) bool {
	if s.Subtotal.IsZero() && s.Total.IsZero() {
		return true
	}
	expected := s.Subtotal.Mul(decimal.NewFromInt(1).Add(taxRate))
	return s.Total.Sub(expected).Abs().LessThan(tolerance)
}
