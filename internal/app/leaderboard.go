package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/scoring"
	"github.com/okian/clubboard/internal/domain/types"
	"github.com/okian/clubboard/pkg/metrics"
)

// Leaderboard ranks every member by stored points. A non-empty query keeps
// the rows whose name contains it (case-insensitive); ranks are assigned
// before filtering. limit 0 means no limit.
func (s *Service) Leaderboard(ctx context.Context, limit int, query string) ([]types.LeaderboardEntry, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if limit < 0 || limit > s.maxLimit {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidLimit, limit, s.maxLimit)
	}

	start := time.Now()
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	rows := scoring.RankMembers(members)

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]types.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		if query != "" && !strings.Contains(strings.ToLower(r.Member.Name), query) {
			continue
		}
		out = append(out, types.FromRow(r))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	metrics.RecordLeaderboardComputation(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// Participation returns the events memberID took part in, newest first, and
// the points earned across them.
func (s *Service) Participation(ctx context.Context, memberID string) (types.Participation, error) {
	if err := s.running(); err != nil {
		return types.Participation{}, err
	}
	m, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return types.Participation{}, err
	}
	events, err := s.store.ListEvents(ctx, repository.EventFilter{})
	if err != nil {
		return types.Participation{}, fmt.Errorf("participation: %w", err)
	}

	sortNewestFirst(events)
	entries, total := scoring.AggregateParticipation(events, m.ID)
	metrics.RecordParticipationComputation()

	return types.Participation{
		MemberID: m.ID,
		Name:     m.Name,
		Total:    total,
		Entries:  entries,
	}, nil
}

// LookupMember finds a member by exact name, ignoring case and surrounding
// blanks. The first match in store order wins.
func (s *Service) LookupMember(ctx context.Context, name string) (types.MemberProfile, error) {
	if err := s.running(); err != nil {
		return types.MemberProfile{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.MemberProfile{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return types.MemberProfile{}, fmt.Errorf("lookup: %w", err)
	}
	for _, m := range members {
		if strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return types.MemberProfile{ID: m.ID, Name: m.Name, Department: m.Department, Batch: m.Batch}, nil
		}
	}
	return types.MemberProfile{}, fmt.Errorf("member named %q: %w", name, ErrNotFound)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseEventDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortNewestFirst orders events by date descending. Events whose date does not
// parse keep their relative order after all dated ones.
func sortNewestFirst(events []model.Event) {
	type keyed struct {
		at time.Time
		ok bool
	}
	keys := make(map[string]keyed, len(events))
	for i := range events {
		t, ok := parseEventDate(events[i].Date)
		keys[events[i].ID] = keyed{t, ok}
	}
	slices.SortStableFunc(events, func(a, b model.Event) int {
		ka, kb := keys[a.ID], keys[b.ID]
		switch {
		case ka.ok && !kb.ok:
			return -1
		case !ka.ok && kb.ok:
			return 1
		case !ka.ok && !kb.ok:
			return 0
		default:
			return kb.at.Compare(ka.at)
		}
	})
}
