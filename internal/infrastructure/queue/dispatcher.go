package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
	"github.com/sweetmart/sweetshop/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes stock movements to a fixed set of workers using
// consistent hashing on the sweet id, guaranteeing per-sweet write ordering
// in the ledger.
type Dispatcher struct {
	workers []chan domain.StockMovement
	repo    ports.MovementRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.MovementRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.StockMovement, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StockMovement, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record hands a movement to the worker responsible for its sweet. It never
// blocks: a saturated worker drops the movement.
func (d *Dispatcher) Record(m domain.StockMovement) {
	idx := d.shardIndex(m.SweetID)
	select {
	case d.workers[idx] <- m:
		metrics.MovementsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.MovementsDroppedTotal.Inc()
		d.log.Warn().
			Str("sweet_id", m.SweetID).
			Str("kind", string(m.Kind)).
			Int("worker_id", idx).
			Msg("movement dropped, dispatcher saturated")
	}
}

// shardIndex maps a sweet id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sweetID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sweetID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StockMovement) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case m := <-ch:
			metrics.MovementsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(ctx, id, m)
		}
	}
}

// drain flushes the movements queued before shutdown with a fresh, bounded
// context.
func (d *Dispatcher) drain(id int, ch <-chan domain.StockMovement) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case m := <-ch:
			d.persist(ctx, id, m)
		default:
			return
		}
	}
}

func (d *Dispatcher) persist(ctx context.Context, id int, m domain.StockMovement) {
	start := time.Now()
	if err := d.repo.Insert(ctx, &m); err != nil {
		metrics.MovementPersistDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		d.log.Error().Err(err).
			Str("sweet_id", m.SweetID).
			Int("worker_id", id).
			Msg("movement persistence failed")
		return
	}
	metrics.MovementPersistDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
}
