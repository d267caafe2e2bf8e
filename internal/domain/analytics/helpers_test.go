package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Test fixtures. All dates are UTC calendar days.

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// saleOn builds a sale with consistent subtotal/igv/total at 18% tax.
func saleOn(date string, status ledger.SaleStatus, subtotal float64) ledger.Sale {
	sub := dec(subtotal)
	igv := sub.Mul(dec(0.18))
	return ledger.Sale{
		ID:       uuid.New(),
		Date:     day(date),
		Status:   status,
		Subtotal: sub,
		IGV:      igv,
		Total:    sub.Add(igv),
	}
}

func saleWithClient(date string, status ledger.SaleStatus, subtotal float64, clientID uuid.UUID, clientName string) ledger.Sale {
	s := saleOn(date, status, subtotal)
	s.ClientID = clientID
	s.ClientName = clientName
	return s
}

func saleItem(productID uuid.UUID, name string, qty, price, cost float64) ledger.SaleItem {
	q := dec(qty)
	p := dec(price)
	return ledger.SaleItem{
		ProductID:   productID,
		ProductName: name,
		Quantity:    q,
		UnitPrice:   p,
		UnitCost:    dec(cost),
		Subtotal:    q.Mul(p),
	}
}

func purchaseOn(date string, status ledger.PurchaseStatus, subtotal float64) ledger.Purchase {
	sub := dec(subtotal)
	igv := sub.Mul(dec(0.18))
	return ledger.Purchase{
		ID:       uuid.New(),
		Date:     day(date),
		Status:   status,
		Subtotal: sub,
		IGV:      igv,
		Total:    sub.Add(igv),
	}
}

func expenseOn(date string, amount float64, category string) ledger.Expense {
	return ledger.Expense{
		ID:       uuid.New(),
		Date:     day(date),
		Amount:   dec(amount),
		Category: category,
	}
}

func productWith(name string, stock, cost float64, status ledger.ProductStatus) ledger.Product {
	return ledger.Product{
		ID:     uuid.New(),
		Name:   name,
		Stock:  dec(stock),
		Cost:   dec(cost),
		Price:  dec(cost * 1.5),
		Status: status,
	}
}

func clientNamed(name string) ledger.Client {
	return ledger.Client{ID: uuid.New(), Name: name}
}

// assertDecimalEq is spelled as a helper because decimal.Decimal equality is
// by value, not by representation (1.5 != 1.50 under ==).
func decimalEq(a decimal.Decimal, f float64) bool {
	return a.Sub(dec(f)).Abs().LessThan(dec(0.0001))
}
