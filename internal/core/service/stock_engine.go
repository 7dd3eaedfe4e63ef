package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
	"github.com/sweetmart/sweetshop/internal/pkg/metrics"
)

// MovementRecorder receives every successful stock change. Record must not
// block.
type MovementRecorder interface {
	Record(m domain.StockMovement)
}

// StockEngine is the only component that changes a sweet's quantity. The
// sufficiency check and the decrement happen inside the store's
// AdjustQuantity, never as a read followed by a write here.
type StockEngine struct {
	store    ports.StockStore
	recorder MovementRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewStockEngine(store ports.StockStore, recorder MovementRecorder, log zerolog.Logger) *StockEngine {
	return &StockEngine{store: store, recorder: recorder, log: log, now: time.Now}
}

// Purchase removes input.Quantity units. On insufficient stock the sweet is
// unchanged and a *domain.InsufficientStockError is returned.
func (e *StockEngine) Purchase(ctx context.Context, in ports.PurchaseInput) (*domain.Sweet, error) {
	if in.Quantity < 1 || in.Quantity > domain.MaxQuantity {
		return nil, domain.NewValidationError("quantity", "Quantity must be a positive integer")
	}
	if in.Buyer == nil {
		return nil, domain.ErrUnauthenticated
	}

	sweet, err := e.store.AdjustQuantity(ctx, in.SweetID, -in.Quantity)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			metrics.PurchasesTotal.WithLabelValues("insufficient_stock").Inc()
			e.log.Warn().
				Str("sweet_id", in.SweetID).
				Int("available", insufficient.Available).
				Int("requested", insufficient.Requested).
				Msg("purchase rejected")
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.PurchasesTotal.WithLabelValues("insufficient_stock").Inc()
			e.log.Warn().Err(err).Str("sweet_id", in.SweetID).Int("requested", in.Quantity).Msg("purchase rejected under contention")
		case errors.Is(err, domain.ErrSweetNotFound):
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		default:
			metrics.PurchasesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("purchase: %w", err)
		}
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	metrics.UnitsMovedTotal.WithLabelValues(string(domain.MovementPurchase)).Add(float64(in.Quantity))
	e.record(domain.MovementPurchase, sweet, in.Quantity, in.Buyer.ID)

	e.log.Info().
		Str("sweet_id", sweet.ID).
		Int("quantity", in.Quantity).
		Int("remaining", sweet.Quantity).
		Str("principal_id", in.Buyer.ID).
		Msg("purchase completed")
	if !sweet.InStock() {
		e.log.Info().Str("sweet_id", sweet.ID).Msg("sweet sold out")
	}

	return sweet, nil
}

// Restock adds input.Quantity units. The actor's role is checked against
// domain.Restockers as already decided by the gate.
func (e *StockEngine) Restock(ctx context.Context, in ports.RestockInput) (*domain.Sweet, error) {
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "Restock quantity must be a positive integer")
	}
	if in.Quantity > domain.MaxQuantity {
		return nil, quantityLimitError()
	}
	if in.Actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.Restockers.Contains(in.Actor.Role) {
		metrics.RestocksTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	sweet, err := e.store.AdjustQuantity(ctx, in.SweetID, in.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSweetNotFound):
			metrics.RestocksTotal.WithLabelValues("not_found").Inc()
			return nil, err
		case errors.Is(err, domain.ErrQuantityLimit):
			metrics.RestocksTotal.WithLabelValues("limit").Inc()
			return nil, quantityLimitError()
		}
		metrics.RestocksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("restock: %w", err)
	}

	metrics.RestocksTotal.WithLabelValues("success").Inc()
	metrics.UnitsMovedTotal.WithLabelValues(string(domain.MovementRestock)).Add(float64(in.Quantity))
	e.record(domain.MovementRestock, sweet, in.Quantity, in.Actor.ID)

	e.log.Info().
		Str("sweet_id", sweet.ID).
		Int("quantity", in.Quantity).
		Int("on_hand", sweet.Quantity).
		Str("principal_id", in.Actor.ID).
		Msg("restock completed")

	return sweet, nil
}

// List is read-only. Price bounds are inclusive and either may be omitted.
// A filter nothing can match, such as an unknown category or an inverted
// price range, yields an empty list.
func (e *StockEngine) List(ctx context.Context, filter ports.SweetFilter) ([]*domain.Sweet, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return []*domain.Sweet{}, nil
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return []*domain.Sweet{}, nil
	}

	sweets, err := e.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return sweets, nil
}

func quantityLimitError() error {
	return domain.NewValidationError("quantity",
		"Restock would exceed the limit of "+strconv.Itoa(domain.MaxQuantity)+" units")
}

func (e *StockEngine) record(kind domain.MovementKind, sweet *domain.Sweet, qty int, principalID string) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(domain.StockMovement{
		SweetID:           sweet.ID,
		Kind:              kind,
		Quantity:          qty,
		ResultingQuantity: sweet.Quantity,
		PrincipalID:       principalID,
		At:                e.now().UTC(),
	})
}
