// Package seed fills a store with demo members and events and tallies them,
// so a fresh portal has a populated leaderboard.
package seed

import "errors"

// Defaults used by cmd/seed.
const (
	DefaultMembers = 40
	DefaultEvents  = 25
	DefaultTopN    = 10
)

// ErrInvalidConfig is returned by Run for negative sizes.
var ErrInvalidConfig = errors.New("invalid seed config")

// Config controls how much demo data is generated.
type Config struct {
	Members int
	Events  int
	TopN    int
	// Seed makes generation reproducible; zero picks a random seed.
	Seed uint64
}

func (c Config) validate() error {
	if c.Members < 0 || c.Events < 0 || c.TopN < 0 {
		return ErrInvalidConfig
	}
	if c.Events > 0 && c.Members == 0 {
		return errors.Join(ErrInvalidConfig, errors.New("events need at least one member"))
	}
	return nil
}
