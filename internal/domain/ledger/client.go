package ledger

import "github.com/google/uuid"

// Client is a customer master record. It deliberately carries no balance
// field: outstanding debt is always derived from pending sales on demand,
// never stored, so it cannot drift.
type Client struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}
