package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/clubboard/internal/adapters/mq/worker"
	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/scoring"
	"github.com/okian/clubboard/pkg/logger"
)

// Stats summarizes a seed run.
type Stats struct {
	MembersCreated int
	EventsCreated  int
	MembersTallied int
	Duration       time.Duration
}

// Result is what Run produced.
type Result struct {
	Stats Stats
	Top   []model.LeaderboardRow
}

// Run writes generated members and events through store, tallies every member
// and returns the top cfg.TopN leaderboard rows.
func Run(ctx context.Context, store repository.Store, cfg Config) (Result, error) {
	var res Result
	if err := cfg.validate(); err != nil {
		return res, err
	}
	start := time.Now()
	log := logger.Named("seed")
	gen := NewGenerator(cfg.Seed)

	ids := make([]string, 0, cfg.Members)
	for _, m := range gen.Members(cfg.Members) {
		created, err := store.CreateMember(ctx, m)
		if err != nil {
			return res, fmt.Errorf("create member %q: %w", m.Name, err)
		}
		ids = append(ids, created.ID)
	}
	res.Stats.MembersCreated = len(ids)

	for _, ev := range gen.Events(ids, cfg.Events) {
		if _, err := store.CreateEvent(ctx, ev); err != nil {
			return res, fmt.Errorf("create event %q: %w", ev.Name, err)
		}
		res.Stats.EventsCreated++
	}
	log.Info(ctx, "seed data written",
		logger.Int("members", res.Stats.MembersCreated),
		logger.Int("events", res.Stats.EventsCreated))

	// Tally everyone in the store, not only the members created here.
	members, err := store.ListMembers(ctx)
	if err != nil {
		return res, fmt.Errorf("list members: %w", err)
	}
	all := make([]string, 0, len(members))
	for _, m := range members {
		all = append(all, m.ID)
	}
	tallied, err := worker.TallyMembers(ctx, store, all)
	res.Stats.MembersTallied = tallied
	if err != nil {
		return res, fmt.Errorf("tally: %w", err)
	}

	members, err = store.ListMembers(ctx)
	if err != nil {
		return res, fmt.Errorf("list members: %w", err)
	}
	rows := scoring.RankMembers(members)
	if cfg.TopN < len(rows) {
		rows = rows[:cfg.TopN]
	}
	res.Top = rows
	res.Stats.Duration = time.Since(start)

	log.Info(ctx, "seed completed",
		logger.Int("tallied", tallied),
		logger.String("duration", res.Stats.Duration.String()))
	return res, nil
}
