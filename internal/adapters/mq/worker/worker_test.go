package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/clubboard/internal/adapters/mq/queue"
	worker "github.com/okian/clubboard/internal/adapters/mq/worker"
	"github.com/okian/clubboard/internal/adapters/repository"
	model "github.com/okian/clubboard/internal/domain/model"
	logging "github.com/okian/clubboard/pkg/logger"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue() <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockStore struct {
	mu        sync.Mutex
	events    []model.Event
	known     map[string]bool
	tallies   map[string]model.Tally
	listErr   error
	applyErrs map[string]error
}

func newMockStore(events []model.Event, members ...string) *mockStore {
	known := make(map[string]bool, len(members))
	for _, id := range members {
		known[id] = true
	}
	return &mockStore{
		events:    events,
		known:     known,
		tallies:   make(map[string]model.Tally),
		applyErrs: make(map[string]error),
	}
}

func (s *mockStore) ListEvents(context.Context, repository.EventFilter) ([]model.Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.events, nil
}

func (s *mockStore) ApplyTally(_ context.Context, id string, t model.Tally) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyErrs[id]; err != nil {
		return err
	}
	if !s.known[id] {
		return repository.ErrNotFound
	}
	s.tallies[id] = t
	return nil
}

func (s *mockStore) tally(id string) (model.Tally, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tallies[id]
	return t, ok
}

func sampleEvents() []model.Event {
	return []model.Event{
		{
			ID:                "e1",
			Coordinators:      model.NewRoleSet("m1"),
			Attendees:         model.NewRoleSet("m2"),
			CoordinatorPoints: model.PointsOf(5),
			AttendeePoints:    model.PointsOf(1),
		},
		{
			ID:              "e2",
			Volunteers:      model.NewRoleSet("m1", "m2"),
			VolunteerPoints: model.PointsOf(2),
		},
	}
}

func TestTallyMembers(t *testing.T) {
	convey.Convey("Given a store with two events", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		store := newMockStore(sampleEvents(), "m1", "m2", "m3")

		convey.Convey("When tallying known and unknown members", func() {
			n, err := worker.TallyMembers(ctx, store, []string{"m1", "m2", "m3", "gone"})

			convey.Convey("Then counters and points follow participation", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 3)

				m1, _ := store.tally("m1")
				convey.So(m1, convey.ShouldResemble, model.Tally{EventsCoordinated: 1, EventsVolunteered: 1, Points: 7})
				m2, _ := store.tally("m2")
				convey.So(m2, convey.ShouldResemble, model.Tally{EventsVolunteered: 1, EventsAttended: 1, Points: 3})
				m3, ok := store.tally("m3")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(m3, convey.ShouldResemble, model.Tally{})
			})
		})

		convey.Convey("When events cannot be loaded", func() {
			store.listErr = errors.New("db down")
			_, err := worker.TallyMembers(ctx, store, []string{"m1"})

			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When one write fails", func() {
			store.applyErrs["m1"] = errors.New("write failed")
			n, err := worker.TallyMembers(ctx, store, []string{"m1", "m2"})

			convey.Convey("Then the others are still written", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(n, convey.ShouldEqual, 1)
				_, ok := store.tally("m2")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When there is nothing to tally", func() {
			n, err := worker.TallyMembers(ctx, store, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(n, convey.ShouldEqual, 0)
		})
	})
}

func TestTallyWorker(t *testing.T) {
	convey.Convey("Given a running TallyWorker", t, func() {
		_ = logging.Init()
		q := newMockQueue()
		store := newMockStore(sampleEvents(), "m1", "m2")
		w := worker.NewTallyWorker(q, store, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job arrives", func() {
			q.jobs <- queue.Job{MemberIDs: []string{"m1"}, Reason: "event_created", EnqueuedAt: time.Now()}

			convey.Convey("Then the member tally is written", func() {
				convey.So(eventually(func() bool { _, ok := store.tally("m1"); return ok }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the queue is closed", func() {
			_ = q.Close()

			convey.Convey("Then Run returns", func() {
				select {
				case <-w.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of three workers", t, func() {
		_ = logging.Init()
		q := newMockQueue()
		store := newMockStore(sampleEvents(), "m1", "m2")
		pool := worker.NewPool(3, q, store)
		pool.Start(context.Background())

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When jobs are queued and the pool shuts down", func() {
			q.jobs <- queue.Job{MemberIDs: []string{"m1"}}
			q.jobs <- queue.Job{MemberIDs: []string{"m2"}}

			err := pool.Shutdown(context.Background())

			convey.Convey("Then queued jobs are drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Processed(), convey.ShouldEqual, 2)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
				_, ok := store.tally("m2")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given an idle pool", t, func() {
		_ = logging.Init()
		store := newMockStore(sampleEvents(), "m1")
		pool := worker.NewPool(1, newMockQueue(), store)

		convey.Convey("When tallying synchronously", func() {
			n, err := pool.Tally(context.Background(), []string{"m1"})

			convey.Convey("Then the result is written before returning", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)
				got, _ := store.tally("m1")
				convey.So(got.Points, convey.ShouldEqual, 7)
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), newMockStore(nil))
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
