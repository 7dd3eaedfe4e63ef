package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/memory"
)

func movement(sweetID string, resulting int) domain.StockMovement {
	return domain.StockMovement{
		SweetID:           sweetID,
		Kind:              domain.MovementPurchase,
		Quantity:          1,
		ResultingQuantity: resulting,
		PrincipalID:       "u1",
		At:                time.Now().UTC(),
	}
}

func TestDispatcher_PersistsInOrderPerSweet(t *testing.T) {
	repo := memory.NewMovementRepository()
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	sweets := []string{"s1", "s2", "s3", "s4"}
	// 4 x 50 stays under one worker's buffer even if every sweet shares a shard.
	for i := 50; i > 0; i-- {
		for _, id := range sweets {
			d.Record(movement(id, i))
		}
	}

	cancel()
	d.Wait()

	for _, id := range sweets {
		got := repo.BySweet(id)
		require.Len(t, got, 50, "sweet %s", id)
		for i, m := range got {
			assert.Equal(t, 50-i, m.ResultingQuantity, "sweet %s position %d", id, i)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, memory.NewMovementRepository(), zerolog.Nop())
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("sweet-%d", i)
		idx := d.shardIndex(id)
		assert.Equal(t, idx, d.shardIndex(id))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
	}
}

func TestDispatcher_DefaultsWorkerCount(t *testing.T) {
	d := NewDispatcher(0, memory.NewMovementRepository(), zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

type blockingRepo struct {
	release chan struct{}
	mu      sync.Mutex
	count   int
}

func (r *blockingRepo) Insert(ctx context.Context, _ *domain.StockMovement) error {
	select {
	case <-r.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
	return nil
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*3; i++ {
			d.Record(movement("s1", i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Record blocked on a saturated worker")
	}

	close(repo.release)
	cancel()
	d.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.LessOrEqual(t, repo.count, channelBuffer+1)
	assert.Greater(t, repo.count, 0)
}

type failingRepo struct{}

func (failingRepo) Insert(context.Context, *domain.StockMovement) error {
	return errors.New("write concern error")
}

func TestDispatcher_PersistFailureDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(1, failingRepo{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(movement("s1", 1))
	d.Record(movement("s1", 2))

	cancel()
	d.Wait()
}
