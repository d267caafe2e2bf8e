package ledger

import "context"

// Snapshot is a consistent point-in-time view of the five input collections.
// Every analytics call receives one explicitly; there is no ambient store.
// A partially populated or empty snapshot (new tenant, no history) is valid.
type Snapshot struct {
	Sales     []Sale
	Purchases []Purchase
	Expenses  []Expense
	Products  []Product
	Clients   []Client
}

// ActiveProducts returns the products participating in inventory KPIs.
func (s *Snapshot) ActiveProducts() []Product {
	active := make([]Product, 0, len(s.Products))
	for _, p := range s.Products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// SnapshotRepository loads record snapshots from the backing store.
type SnapshotRepository interface {
	// Load materializes all five collections in one consistent read.
	Load(ctx context.Context) (*Snapshot, error)
}
