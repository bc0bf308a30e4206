// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load(ctx) layers .env, an optional YAML file and CLUBBOARD_* env vars on top.
// - Validation failures wrap ErrInvalidConfig; loader failures wrap ErrLoadConfig.
package config

import "runtime"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the member/event store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the database file (sqlite) or connection string (postgres).
	StoreDSN string `koanf:"store_dsn"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// TallyQueueSize bounds the in-memory tally queue.
	TallyQueueSize int `koanf:"tally_queue_size"`

	// TallyWorkerCount sets the number of tally workers.
	TallyWorkerCount int `koanf:"tally_worker_count"`

	// TallyOnStart recomputes every member's totals at startup.
	TallyOnStart bool `koanf:"tally_on_start"`

	// IdempotencySize bounds the number of remembered Idempotency-Key values.
	IdempotencySize int `koanf:"idempotency_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		StoreDriver:         DriverMemory,
		StoreDSN:            "",
		JWTSecret:           "",
		MaxLeaderboardLimit: 500,
		TallyQueueSize:      1_000,
		TallyWorkerCount:    runtime.NumCPU(),
		TallyOnStart:        false,
		IdempotencySize:     10_000,
	}
}
