package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/access"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/pkg/logger"
)

// ListEvents returns the events visible to actor: all of them for admins,
// their own for coordinators. A non-empty query matches name, type or venue.
func (s *Service) ListEvents(ctx context.Context, actor model.Actor, query string) ([]model.Event, error) {
	if err := s.running(); err != nil {
		return nil, err
	}

	var f repository.EventFilter
	switch {
	case access.CanListAllEvents(actor):
	case actor.IsCoordinator():
		f.CreatedBy = actor.DisplayName()
	default:
		return nil, fmt.Errorf("list events: %w", ErrForbidden)
	}

	events, err := s.store.ListEvents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := events[:0]
	for i := range events {
		if !access.VisibleEvent(actor, &events[i]) || !matchesEvent(&events[i], query) {
			continue
		}
		out = append(out, events[i])
	}
	return out, nil
}

func matchesEvent(ev *model.Event, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{ev.Name, ev.Type, ev.Venue} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// GetEvent returns one event if actor may see it.
func (s *Service) GetEvent(ctx context.Context, actor model.Actor, id string) (model.Event, error) {
	if err := s.running(); err != nil {
		return model.Event{}, err
	}
	ev, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if err := access.ViewEvent(actor, &ev); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// CreateEvent stores ev stamped with the actor as creator and schedules a
// tally of everyone it lists.
func (s *Service) CreateEvent(ctx context.Context, actor model.Actor, ev model.Event) (model.Event, error) {
	if err := s.running(); err != nil {
		return model.Event{}, err
	}
	if err := access.CreateEvent(actor); err != nil {
		return model.Event{}, err
	}
	ev.ID = ""
	ev.CreatedBy = actor.DisplayName()
	ev.UpdatedBy = ev.CreatedBy

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	created, err := s.store.CreateEvent(ctx, ev)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.enqueueTally(ctx, created.Participants(), "event_created")
	s.logger.Info(ctx, "event created", logger.String("event_id", created.ID), logger.String("by", ev.CreatedBy))
	return created, nil
}

// UpdateEvent replaces an event. The creator is preserved; members dropped
// from the role sets are re-tallied along with the new ones.
func (s *Service) UpdateEvent(ctx context.Context, actor model.Actor, ev model.Event) (model.Event, error) {
	if err := s.running(); err != nil {
		return model.Event{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur, err := s.store.GetEvent(ctx, ev.ID)
	if err != nil {
		return model.Event{}, err
	}
	if err := access.UpdateEvent(actor, &cur); err != nil {
		return model.Event{}, err
	}
	ev.CreatedBy = cur.CreatedBy
	ev.UpdatedBy = actor.DisplayName()

	updated, err := s.store.UpdateEvent(ctx, ev)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}

	affected := cur.Participants()
	for id := range updated.Participants() {
		affected.Add(id)
	}
	s.enqueueTally(ctx, affected, "event_updated")
	return updated, nil
}

// DeleteEvent removes an event and re-tallies everyone it listed.
func (s *Service) DeleteEvent(ctx context.Context, actor model.Actor, id string) error {
	if err := s.running(); err != nil {
		return err
	}
	if err := access.DeleteEvent(actor); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.enqueueTally(ctx, cur.Participants(), "event_deleted")
	s.logger.Info(ctx, "event deleted", logger.String("event_id", id), logger.String("by", actor.DisplayName()))
	return nil
}
