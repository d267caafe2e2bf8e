package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AgingBuckets splits outstanding amounts by days overdue. The five buckets
// partition the open documents exactly: every pending amount lands in one
// bucket and only one.
type AgingBuckets struct {
	Current    decimal.Decimal // not yet due (daysOverdue <= 0)
	Days1to30  decimal.Decimal
	Days31to60 decimal.Decimal
	Days61to90 decimal.Decimal
	Days90Plus decimal.Decimal
}

// Total returns the sum over all five buckets.
func (b AgingBuckets) Total() decimal.Decimal {
	return b.Current.Add(b.Days1to30).Add(b.Days31to60).Add(b.Days61to90).Add(b.Days90Plus)
}

// CounterpartyDebt is the per-client (or per-supplier) rollup of open
// documents. Records without a counterparty ID are excluded from rollups
// but still counted in the bucket totals.
type CounterpartyDebt struct {
	ID             uuid.UUID
	Name           string
	Total          decimal.Decimal
	OpenDocuments  int
	OldestDueDate  time.Time
	MaxDaysOverdue int
}

// AgingReport is the full aging view: bucket totals plus the counterparty
// rollup. Receivable rollups are sorted most-overdue first (collection
// urgency); payable rollups by total debt descending (payment priority).
type AgingReport struct {
	AsOf             time.Time
	Buckets          AgingBuckets
	TotalOutstanding decimal.Decimal
	Counterparties   []CounterpartyDebt
}

// openDocument is the shape both receivables and payables reduce to before
// bucketing.
type openDocument struct {
	counterpartyID   uuid.UUID
	counterpartyName string
	due              time.Time
	amount           decimal.Decimal
}

// AgeReceivables buckets pending sales by days overdue relative to today.
func AgeReceivables(sales []ledger.Sale, today time.Time) AgingReport {
	docs := make([]openDocument, 0, len(sales))
	for _, s := range sales {
		if !s.IsPending() {
			continue
		}
		docs = append(docs, openDocument{
			counterpartyID:   s.ClientID,
			counterpartyName: s.ClientName,
			due:              s.EffectiveDueDate(),
			amount:           s.Total,
		})
	}
	report := ageDocuments(docs, today)
	sort.SliceStable(report.Counterparties, func(i, j int) bool {
		return report.Counterparties[i].MaxDaysOverdue > report.Counterparties[j].MaxDaysOverdue
	})
	return report
}

// AgePayables buckets pending purchases by days overdue relative to today.
func AgePayables(purchases []ledger.Purchase, today time.Time) AgingReport {
	docs := make([]openDocument, 0, len(purchases))
	for _, p := range purchases {
		if !p.IsPending() {
			continue
		}
		docs = append(docs, openDocument{
			counterpartyID:   p.SupplierID,
			counterpartyName: p.SupplierName,
			due:              p.EffectiveDueDate(),
			amount:           p.Total,
		})
	}
	report := ageDocuments(docs, today)
	sort.SliceStable(report.Counterparties, func(i, j int) bool {
		return report.Counterparties[i].Total.GreaterThan(report.Counterparties[j].Total)
	})
	return report
}

func ageDocuments(docs []openDocument, today time.Time) AgingReport {
	buckets := AgingBuckets{
		Current:    decimal.Zero,
		Days1to30:  decimal.Zero,
		Days31to60: decimal.Zero,
		Days61to90: decimal.Zero,
		Days90Plus: decimal.Zero,
	}
	rollup := make(map[uuid.UUID]*CounterpartyDebt)
	order := make([]uuid.UUID, 0)

	for _, doc := range docs {
		overdue := wholeDaysBetween(doc.due, today)
		switch {
		case overdue <= 0:
			buckets.Current = buckets.Current.Add(doc.amount)
		case overdue <= 30:
			buckets.Days1to30 = buckets.Days1to30.Add(doc.amount)
		case overdue <= 60:
			buckets.Days31to60 = buckets.Days31to60.Add(doc.amount)
		case overdue <= 90:
			buckets.Days61to90 = buckets.Days61to90.Add(doc.amount)
		default:
			buckets.Days90Plus = buckets.Days90Plus.Add(doc.amount)
		}

		// No counterparty, no rollup entry; the amount stays in the buckets.
		if doc.counterpartyID == uuid.Nil {
			continue
		}
		entry, ok := rollup[doc.counterpartyID]
		if !ok {
			entry = &CounterpartyDebt{
				ID:             doc.counterpartyID,
				Name:           doc.counterpartyName,
				Total:          decimal.Zero,
				OldestDueDate:  doc.due,
				MaxDaysOverdue: overdue,
			}
			rollup[doc.counterpartyID] = entry
			order = append(order, doc.counterpartyID)
		}
		entry.Total = entry.Total.Add(doc.amount)
		entry.OpenDocuments++
		if doc.due.Before(entry.OldestDueDate) {
			entry.OldestDueDate = doc.due
		}
		if overdue > entry.MaxDaysOverdue {
			entry.MaxDaysOverdue = overdue
		}
	}

	counterparties := make([]CounterpartyDebt, 0, len(order))
	for _, id := range order {
		counterparties = append(counterparties, *rollup[id])
	}

	return AgingReport{
		AsOf:             Day(today),
		Buckets:          buckets,
		TotalOutstanding: buckets.Total(),
		Counterparties:   counterparties,
	}
}
