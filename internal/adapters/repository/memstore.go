package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/pkg/metrics"
)

// MemStore is an in-memory Store. Records are copied in and out so callers
// never share maps with the store.
type MemStore struct {
	mu          sync.RWMutex
	members     map[string]model.Member
	memberOrder []string
	events      map[string]model.Event
	eventOrder  []string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		members: make(map[string]model.Member),
		events:  make(map[string]model.Event),
	}
}

func observe(op string, start time.Time) {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Microseconds())/1000)
}

func cloneEvent(e model.Event) model.Event {
	e.Coordinators = model.NewRoleSet(e.Coordinators.IDs()...)
	e.Volunteers = model.NewRoleSet(e.Volunteers.IDs()...)
	e.Attendees = model.NewRoleSet(e.Attendees.IDs()...)
	return e
}

func (s *MemStore) ListMembers(_ context.Context) ([]model.Member, error) {
	defer observe("list_members", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		out = append(out, s.members[id])
	}
	return out, nil
}

func (s *MemStore) GetMember(_ context.Context, id string) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return model.Member{}, fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return m, nil
}

func (s *MemStore) CreateMember(_ context.Context, m model.Member) (model.Member, error) {
	defer observe("create_member", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := s.members[m.ID]; ok {
		return model.Member{}, fmt.Errorf("member %s: %w", m.ID, ErrConflict)
	}
	s.members[m.ID] = m
	s.memberOrder = append(s.memberOrder, m.ID)
	return m, nil
}

func (s *MemStore) UpdateMember(_ context.Context, m model.Member) (model.Member, error) {
	defer observe("update_member", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.members[m.ID]
	if !ok {
		return model.Member{}, fmt.Errorf("member %s: %w", m.ID, ErrNotFound)
	}
	m.EventsCoordinated = cur.EventsCoordinated
	m.EventsVolunteered = cur.EventsVolunteered
	m.EventsAttended = cur.EventsAttended
	m.Points = cur.Points
	s.members[m.ID] = m
	return m, nil
}

func (s *MemStore) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	delete(s.members, id)
	s.memberOrder = slices.DeleteFunc(s.memberOrder, func(v string) bool { return v == id })
	return nil
}

func (s *MemStore) ApplyTally(_ context.Context, id string, t model.Tally) error {
	defer observe("apply_tally", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	m.EventsCoordinated = t.EventsCoordinated
	m.EventsVolunteered = t.EventsVolunteered
	m.EventsAttended = t.EventsAttended
	m.Points = model.PointsOf(t.Points)
	s.members[id] = m
	return nil
}

func (s *MemStore) ListEvents(_ context.Context, f EventFilter) ([]model.Event, error) {
	defer observe("list_events", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		e := s.events[id]
		if f.CreatedBy != "" && e.CreatedBy != f.CreatedBy {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (s *MemStore) GetEvent(_ context.Context, id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return cloneEvent(e), nil
}

func (s *MemStore) CreateEvent(_ context.Context, e model.Event) (model.Event, error) {
	defer observe("create_event", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, ok := s.events[e.ID]; ok {
		return model.Event{}, fmt.Errorf("event %s: %w", e.ID, ErrConflict)
	}
	e = cloneEvent(e)
	s.events[e.ID] = e
	s.eventOrder = append(s.eventOrder, e.ID)
	return cloneEvent(e), nil
}

func (s *MemStore) UpdateEvent(_ context.Context, e model.Event) (model.Event, error) {
	defer observe("update_event", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[e.ID]; !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", e.ID, ErrNotFound)
	}
	e = cloneEvent(e)
	s.events[e.ID] = e
	return cloneEvent(e), nil
}

func (s *MemStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(s.events, id)
	s.eventOrder = slices.DeleteFunc(s.eventOrder, func(v string) bool { return v == id })
	return nil
}

func (s *MemStore) Counts(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members), len(s.events), nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
