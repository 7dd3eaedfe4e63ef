package ports

import (
	"context"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// MovementRepository persists the stock movement audit trail.
type MovementRepository interface {
	Insert(ctx context.Context, m *domain.StockMovement) error
}
