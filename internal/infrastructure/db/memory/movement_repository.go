package memory

import (
	"context"
	"sync"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// MovementRepository keeps the stock movement ledger in memory.
type MovementRepository struct {
	mu        sync.Mutex
	movements []domain.StockMovement
}

func NewMovementRepository() *MovementRepository {
	return &MovementRepository{}
}

func (r *MovementRepository) Insert(_ context.Context, m *domain.StockMovement) error {
	r.mu.Lock()
	r.movements = append(r.movements, *m)
	r.mu.Unlock()
	return nil
}

// BySweet returns the recorded movements of one sweet in insertion order.
func (r *MovementRepository) BySweet(sweetID string) []domain.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.StockMovement
	for _, m := range r.movements {
		if m.SweetID == sweetID {
			out = append(out, m)
		}
	}
	return out
}
