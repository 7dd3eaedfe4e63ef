// Package memory holds in-process implementations of the repositories. Each
// sweet is guarded by its own mutex so quantity changes on one sweet never
// wait on another.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

type sweetEntry struct {
	mu    sync.Mutex
	sweet domain.Sweet
}

// SweetRepository implements ports.SweetRepository in memory.
type SweetRepository struct {
	mu      sync.RWMutex
	entries map[string]*sweetEntry
}

func NewSweetRepository() *SweetRepository {
	return &SweetRepository{entries: make(map[string]*sweetEntry)}
}

func (r *SweetRepository) Create(_ context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	clone := *s
	if clone.ID == "" {
		clone.ID = newID()
	}

	r.mu.Lock()
	r.entries[clone.ID] = &sweetEntry{sweet: clone}
	r.mu.Unlock()

	out := clone
	return &out, nil
}

func (r *SweetRepository) FindByID(_ context.Context, id string) (*domain.Sweet, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	return e.snapshot(), nil
}

// List applies the same filters the Mongo repository does and orders by
// creation time, newest first, breaking ties by id.
func (r *SweetRepository) List(_ context.Context, f ports.SweetFilter) ([]*domain.Sweet, error) {
	r.mu.RLock()
	entries := make([]*sweetEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	name := strings.ToLower(f.Name)
	out := make([]*domain.Sweet, 0, len(entries))
	for _, e := range entries {
		s := e.snapshot()
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SweetRepository) Update(_ context.Context, id string, p ports.SweetPatch) (*domain.Sweet, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domain.ErrSweetNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if p.Name != nil {
		e.sweet.Name = *p.Name
	}
	if p.Category != nil {
		e.sweet.Category = *p.Category
	}
	if p.Price != nil {
		e.sweet.Price = *p.Price
	}
	if p.Image != nil {
		e.sweet.Image = *p.Image
	}
	if p.Description != nil {
		e.sweet.Description = *p.Description
	}
	e.sweet.UpdatedAt = time.Now().UTC()

	out := e.sweet
	return &out, nil
}

func (r *SweetRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return domain.ErrSweetNotFound
	}
	delete(r.entries, id)
	return nil
}

// AdjustQuantity holds the sweet's own lock across the check and the write.
func (r *SweetRepository) AdjustQuantity(_ context.Context, id string, delta int) (*domain.Sweet, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domain.ErrSweetNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if delta < 0 && e.sweet.Quantity < -delta {
		return nil, &domain.InsufficientStockError{Available: e.sweet.Quantity, Requested: -delta}
	}
	if delta > 0 && e.sweet.Quantity > domain.MaxQuantity-delta {
		return nil, domain.ErrQuantityLimit
	}
	e.sweet.Quantity += delta
	e.sweet.UpdatedAt = time.Now().UTC()

	out := e.sweet
	return &out, nil
}

func (r *SweetRepository) entry(id string) (*sweetEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (e *sweetEntry) snapshot() *domain.Sweet {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.sweet
	return &out
}
