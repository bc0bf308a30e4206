// Package service wires the store, the tally pipeline and the scoring core
// into the operations served by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/clubboard/internal/adapters/mq/queue"
	"github.com/okian/clubboard/internal/adapters/mq/worker"
	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/access"
	"github.com/okian/clubboard/internal/domain/dedupe"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/pkg/logger"
	"github.com/okian/clubboard/pkg/metrics"
)

const (
	defaultQueueSize = 1000
	defaultDedupe    = 10_000
	defaultMaxLimit  = 500
	stopTimeout      = 30 * time.Second
)

// Service implements the API dependencies for the club portal.
type Service struct {
	mu sync.RWMutex
	// writeMu orders event writes so each re-tally set is computed from the
	// record it replaced.
	writeMu sync.Mutex

	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	maxLimit     int
	tallyOnStart bool

	started bool
	stopped bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupe,
		maxLimit:    defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the tally pipeline and, when configured, recomputes every
// member's totals before returning.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)

	if s.tallyOnStart {
		n, err := s.tallyAll(ctx)
		if err != nil {
			return fmt.Errorf("initial tally: %w", err)
		}
		s.logger.Info(ctx, "initial tally done", logger.Int("members", n))
	}

	s.pool.Start(context.WithoutCancel(ctx))
	s.started = true
	s.refreshCounts(ctx)

	s.logger.Info(ctx, "club service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxLeaderboardLimit", s.maxLimit),
	)
	return nil
}

// Stop drains the tally queue and closes the store. A stopped service cannot
// be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping club service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "tally workers did not drain", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing store", logger.Error(err))
	}
	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "club service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return ErrStopped
	}
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// TallyAll recomputes the totals of every member synchronously.
func (s *Service) TallyAll(ctx context.Context) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	return s.tallyAll(ctx)
}

func (s *Service) tallyAll(ctx context.Context) (int, error) {
	start := time.Now()
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list members: %w", err)
	}
	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	n, err := s.pool.Tally(ctx, ids)
	metrics.RecordTallyJob(n, float64(time.Since(start).Microseconds())/1000, err)
	return n, err
}

// enqueueTally schedules a recompute for ids. Failures are logged and counted
// but never returned: the write that triggered it has already succeeded.
func (s *Service) enqueueTally(ctx context.Context, ids model.RoleSet, reason string) {
	if ids.Len() == 0 {
		return
	}
	job := queue.Job{MemberIDs: ids.IDs(), Reason: reason}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Warn(ctx, "tally job dropped",
			logger.String("reason", reason),
			logger.Int("members", len(job.MemberIDs)),
			logger.Error(err),
		)
	}
}

func (s *Service) refreshCounts(ctx context.Context) (int, int) {
	members, events, err := s.store.Counts(ctx)
	if err != nil {
		s.logger.Warn(ctx, "counting records", logger.Error(err))
		return 0, 0
	}
	metrics.UpdateStoreCounts(members, events)
	return members, events
}

// SeenAndRecord atomically checks if an idempotency key was seen and records
// it if not.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordDuplicateCreate()
	}
	return seen
}

// Unrecord forgets an idempotency key so a failed create can be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":             s.started,
		"workerCount":         s.workerCount,
		"queueCapacity":       s.queueSize,
		"dedupeSize":          s.dedupeSize,
		"maxLeaderboardLimit": s.maxLimit,
	}
	if s.started {
		members, events := s.refreshCounts(ctx)
		stats["queueLength"] = s.queue.Len()
		stats["tallyJobsProcessed"] = s.pool.Processed()
		stats["tallyJobsFailed"] = s.pool.Failed()
		stats["idempotencyKeys"] = s.deduper.Size()
		stats["members"] = members
		stats["events"] = events
	}
	return stats
}

// RequestTally queues a recompute of every member. Unlike the writes, a full
// queue is reported to the caller.
func (s *Service) RequestTally(ctx context.Context, actor model.Actor) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	if err := access.RequestTally(actor); err != nil {
		return 0, err
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("request tally: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}
	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	if err := s.queue.Enqueue(ctx, queue.Job{MemberIDs: ids, Reason: "requested"}); err != nil {
		return 0, fmt.Errorf("request tally: %w", err)
	}
	s.logger.Info(ctx, "full tally requested", logger.Int("members", len(ids)), logger.String("by", actor.DisplayName()))
	return len(ids), nil
}
