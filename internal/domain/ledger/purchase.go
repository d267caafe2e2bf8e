package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the payment status of a purchase
type PurchaseStatus string

const (
	PurchaseStatusPaid    PurchaseStatus = "PAID"
	PurchaseStatusPending PurchaseStatus = "PENDING"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPaid, PurchaseStatusPending:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// PurchaseItem is a line item on a purchase document.
type PurchaseItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal // per unit, tax-exclusive
}

// LineCost returns Quantity * UnitCost for the item.
func (i PurchaseItem) LineCost() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// Purchase is a supplier purchase document. DueDate and PaymentDate are both
// optional; payable math falls back DueDate -> PaymentDate -> Date.
type Purchase struct {
	ID           uuid.UUID
	Date         time.Time
	DueDate      *time.Time
	PaymentDate  *time.Time
	SupplierID   uuid.UUID // uuid.Nil when the record predates supplier tracking
	SupplierName string
	Status       PurchaseStatus
	Items        []PurchaseItem
	Subtotal     decimal.Decimal
	IGV          decimal.Decimal
	Total        decimal.Decimal
}

// DocDate returns the document date for period filtering.
func (p Purchase) DocDate() time.Time {
	return p.Date
}

// EffectiveDueDate returns the date the payment falls due: the explicit due
// date, else the agreed payment date, else the issue date.
func (p Purchase) EffectiveDueDate() time.Time {
	if p.DueDate != nil && !p.DueDate.IsZero() {
		return *p.DueDate
	}
	if p.PaymentDate != nil && !p.PaymentDate.IsZero() {
		return *p.PaymentDate
	}
	return p.Date
}

// IsPaid reports whether the purchase is settled.
func (p Purchase) IsPaid() bool {
	return p.Status == PurchaseStatusPaid
}

// IsPending reports whether the purchase is an open payable.
func (p Purchase) IsPending() bool {
	return p.Status == PurchaseStatusPending
}
