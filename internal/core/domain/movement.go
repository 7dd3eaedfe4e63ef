package domain

import "time"

// MovementKind tells whether stock left or entered the catalog.
type MovementKind string

const (
	MovementPurchase MovementKind = "purchase"
	MovementRestock  MovementKind = "restock"
)

// StockMovement records a single successful quantity change on a sweet.
type StockMovement struct {
	SweetID           string
	Kind              MovementKind
	Quantity          int
	ResultingQuantity int
	PrincipalID       string
	At                time.Time
}
