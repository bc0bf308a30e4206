// Package worker recomputes member counters and points from event data.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/clubboard/internal/adapters/mq/queue"
	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/scoring"
	"github.com/okian/clubboard/pkg/logger"
	"github.com/okian/clubboard/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Store is the part of the repository the workers need.
type Store interface {
	ListEvents(ctx context.Context, f repository.EventFilter) ([]model.Event, error)
	ApplyTally(ctx context.Context, memberID string, t model.Tally) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
}

// TallyMembers recomputes and stores the tally of every id in memberIDs
// against the current event list. Members that no longer exist are skipped.
// It returns the number of members written.
func TallyMembers(ctx context.Context, store Store, memberIDs []string) (int, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	events, err := store.ListEvents(ctx, repository.EventFilter{})
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}

	written := 0
	var errs []error
	for _, id := range memberIDs {
		entries, _ := scoring.AggregateParticipation(events, id)
		err := store.ApplyTally(ctx, id, scoring.Tally(entries))
		switch {
		case err == nil:
			written++
		case errors.Is(err, repository.ErrNotFound):
		default:
			errs = append(errs, err)
		}
	}
	return written, errors.Join(errs...)
}

// TallyWorker drains tally jobs from a queue.
type TallyWorker struct {
	queue Queue
	store Store
	name  string

	processed *atomic.Int64
	failed    *atomic.Int64
	// tallyMu is shared by the workers of a pool. A job reads the event list
	// and writes totals under it, so an older read never overwrites a newer
	// result.
	tallyMu *sync.Mutex

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewTallyWorker creates a new worker with configuration options.
func NewTallyWorker(q Queue, store Store, opts ...Option) *TallyWorker {
	w := &TallyWorker{
		queue:     q,
		store:     store,
		name:      "worker",
		processed: &atomic.Int64{},
		failed:    &atomic.Int64{},
		tallyMu:   &sync.Mutex{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until the queue closes, ctx is cancelled or Shutdown is
// called.
func (w *TallyWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "tally job failed", logger.String("reason", job.Reason), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker without draining the queue.
func (w *TallyWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *TallyWorker) Done() <-chan struct{} { return w.done }

func (w *TallyWorker) process(ctx context.Context, job queue.Job) error {
	w.tallyMu.Lock()
	start := time.Now()
	n, err := TallyMembers(ctx, w.store, job.MemberIDs)
	w.tallyMu.Unlock()
	metrics.RecordTallyJob(n, float64(time.Since(start).Microseconds())/1000, err)

	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("tally %d members: %w", len(job.MemberIDs), err)
	}
	w.processed.Add(1)
	w.logger.Debug(ctx, "tally job done",
		logger.String("reason", job.Reason),
		logger.Int("members", n),
		logger.Float64("queued_ms", float64(start.Sub(job.EnqueuedAt).Microseconds())/1000),
	)
	return nil
}

// Pool manages multiple tally workers sharing one queue.
type Pool struct {
	workers []*TallyWorker
	queue   Queue
	store   Store
	tallyMu sync.Mutex

	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 uses one
// worker per CPU.
func NewPool(workerCount int, q Queue, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*TallyWorker, workerCount),
		queue:   q,
		store:   store,
		logger:  logger.Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewTallyWorker(q, store, WithName("worker-"+strconv.Itoa(i)))
		w.processed = &p.processed
		w.failed = &p.failed
		w.tallyMu = &p.tallyMu
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "tally workers started", logger.Int("workers", len(p.workers)))
}

// Tally recomputes memberIDs synchronously, ordered with the queued jobs.
func (p *Pool) Tally(ctx context.Context, memberIDs []string) (int, error) {
	p.tallyMu.Lock()
	defer p.tallyMu.Unlock()
	return TallyMembers(ctx, p.store, memberIDs)
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs completed without error.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns the number of jobs that returned an error.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
