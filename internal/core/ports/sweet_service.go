package ports

import (
	"context"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// CreateSweetInput carries the fields for a new catalog item.
type CreateSweetInput struct {
	Name        string
	Category    domain.Category
	Price       float64
	Quantity    int
	Image       string
	Description string
}

// PurchaseInput carries a purchase request by an authenticated principal.
type PurchaseInput struct {
	SweetID  string
	Quantity int
	Buyer    *domain.User
}

// RestockInput carries a restock request. Actor must already have been
// authorized for domain.Restockers.
type RestockInput struct {
	SweetID  string
	Quantity int
	Actor    *domain.User
}

// SweetService covers plain catalog CRUD.
type SweetService interface {
	Get(ctx context.Context, id string) (*domain.Sweet, error)
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	Update(ctx context.Context, id string, patch SweetPatch) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
}

// StockEngine owns every quantity change and the non-negative stock rule.
type StockEngine interface {
	Purchase(ctx context.Context, input PurchaseInput) (*domain.Sweet, error)
	Restock(ctx context.Context, input RestockInput) (*domain.Sweet, error)
	List(ctx context.Context, filter SweetFilter) ([]*domain.Sweet, error)
}
