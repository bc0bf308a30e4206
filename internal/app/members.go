package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/clubboard/internal/domain/access"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/types"
	"github.com/okian/clubboard/pkg/logger"
)

// ListMembers returns the member directory in store order. A non-empty
// query matches name, department or position (case-insensitive).
func (s *Service) ListMembers(ctx context.Context, actor model.Actor, query string) ([]model.Member, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if err := access.ListMembers(actor); err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return filterMembers(members, query), nil
}

func filterMembers(members []model.Member, query string) []model.Member {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return members
	}
	out := members[:0]
	for _, m := range members {
		for _, field := range []string{m.Name, m.Department, m.Position} {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// MemberSummary counts members, active members, points and departments over
// the members matching query.
func (s *Service) MemberSummary(ctx context.Context, actor model.Actor, query string) (types.MemberSummary, error) {
	if err := s.running(); err != nil {
		return types.MemberSummary{}, err
	}
	if err := access.ManageMembers(actor); err != nil {
		return types.MemberSummary{}, err
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return types.MemberSummary{}, fmt.Errorf("member summary: %w", err)
	}
	members = filterMembers(members, query)

	sum := types.MemberSummary{Members: len(members)}
	departments := make(map[string]struct{})
	for _, m := range members {
		if m.Active {
			sum.Active++
		}
		sum.TotalPoints += m.Points.Int()
		if d := strings.ToLower(strings.TrimSpace(m.Department)); d != "" {
			departments[d] = struct{}{}
		}
	}
	sum.Departments = len(departments)
	return sum, nil
}

// CreateMember stores a new member and schedules a tally, so a member whose
// id already appears in events starts with the right totals.
func (s *Service) CreateMember(ctx context.Context, actor model.Actor, m model.Member) (model.Member, error) {
	if err := s.running(); err != nil {
		return model.Member{}, err
	}
	if err := access.ManageMembers(actor); err != nil {
		return model.Member{}, err
	}
	// Role sets trim ids, so a padded id would never be credited.
	m.ID = strings.TrimSpace(m.ID)
	m.EventsCoordinated, m.EventsVolunteered, m.EventsAttended = 0, 0, 0

	created, err := s.store.CreateMember(ctx, m)
	if err != nil {
		return model.Member{}, fmt.Errorf("create member: %w", err)
	}
	s.enqueueTally(ctx, model.NewRoleSet(created.ID), "member_created")
	s.logger.Info(ctx, "member created", logger.String("member_id", created.ID), logger.String("by", actor.DisplayName()))
	return created, nil
}

// UpdateMember replaces a member's profile fields. Counters and points are
// owned by the tally pipeline and left unchanged.
func (s *Service) UpdateMember(ctx context.Context, actor model.Actor, m model.Member) (model.Member, error) {
	if err := s.running(); err != nil {
		return model.Member{}, err
	}
	if err := access.ManageMembers(actor); err != nil {
		return model.Member{}, err
	}
	updated, err := s.store.UpdateMember(ctx, m)
	if err != nil {
		return model.Member{}, fmt.Errorf("update member: %w", err)
	}
	return updated, nil
}

// DeleteMember removes a member. Event role sets that still mention the id
// are left as they are.
func (s *Service) DeleteMember(ctx context.Context, actor model.Actor, id string) error {
	if err := s.running(); err != nil {
		return err
	}
	if err := access.ManageMembers(actor); err != nil {
		return err
	}
	if err := s.store.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	s.logger.Info(ctx, "member deleted", logger.String("member_id", id), logger.String("by", actor.DisplayName()))
	s.refreshCounts(ctx)
	return nil
}
