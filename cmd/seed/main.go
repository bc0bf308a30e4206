// Command seed fills the configured store with demo members and events,
// tallies them and prints the top of the leaderboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/clubboard/internal/adapters/http/auth"
	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/config"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/seed"
	"github.com/okian/clubboard/pkg/logger"
)

func main() {
	var (
		members = flag.Int("members", seed.DefaultMembers, "Number of members to create")
		events  = flag.Int("events", seed.DefaultEvents, "Number of events to create")
		topN    = flag.Int("top", seed.DefaultTopN, "Number of leaderboard rows to print")
		rndSeed = flag.Uint64("seed", 0, "Random seed (0 picks one)")
		token   = flag.Bool("token", false, "Also print an admin bearer token for the configured jwt_secret")
	)
	flag.Parse()

	if err := run(seed.Config{Members: *members, Events: *events, TopN: *topN, Seed: *rndSeed}, *token); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(sc seed.Config, printToken bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		return err
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	if cfg.StoreDriver == config.DriverMemory {
		logger.Get().Warn(ctx, "store_driver is memory; seeded data is discarded on exit")
	}

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	res, err := seed.Run(ctx, store, sc)
	if err != nil {
		return err
	}
	if err := seed.WriteReport(os.Stdout, res); err != nil {
		return err
	}

	if printToken {
		tok, err := auth.New(cfg.JWTSecret).Issue(model.Actor{
			Subject: "seed-admin",
			Name:    "Seed Admin",
			Role:    model.AccessAdmin,
		}, auth.DefaultTTL)
		if err != nil {
			return errors.Join(errors.New("issue token"), err)
		}
		fmt.Printf("\nadmin token:\n%s\n", tok)
	}
	return nil
}
