package ports

import (
	"context"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// SweetFilter carries the optional, independently combinable list filters.
type SweetFilter struct {
	Name     string          // optional: case-insensitive substring of name
	Category domain.Category // optional: exact category
	MinPrice *float64        // optional: price >= MinPrice
	MaxPrice *float64        // optional: price <= MaxPrice
}

// SweetPatch holds the catalog fields an update may change. Nil means
// "leave as is". Quantity is deliberately absent.
type SweetPatch struct {
	Name        *string
	Category    *domain.Category
	Price       *float64
	Image       *string
	Description *string
}

// StockStore is the capability set the stock engine needs from the catalog.
type StockStore interface {
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	// List returns the sweets matching filter, most recently created first.
	List(ctx context.Context, filter SweetFilter) ([]*domain.Sweet, error)
	// AdjustQuantity adds delta to the sweet's quantity as one indivisible
	// step. A negative delta is applied only when quantity+delta >= 0;
	// otherwise the sweet is untouched and *domain.InsufficientStockError is
	// returned. A positive delta that would take quantity past
	// domain.MaxQuantity is refused with domain.ErrQuantityLimit. Returns
	// domain.ErrSweetNotFound for unknown ids.
	AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error)
}

// SweetRepository defines persistence operations for the catalog.
type SweetRepository interface {
	StockStore
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	Update(ctx context.Context, id string, patch SweetPatch) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
}
