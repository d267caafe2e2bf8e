package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an operating expense. Expenses are assumed cash-paid on the day
// they are recorded, so they carry no status or due date.
type Expense struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Description string
}

// DocDate returns the document date for period filtering.
func (e Expense) DocDate() time.Time {
	return e.Date
}
