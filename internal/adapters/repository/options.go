package repository

import (
	"github.com/okian/clubboard/pkg/logger"
)

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithLogger sets the logger used for migration and connection messages.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithoutMigration skips AutoMigrate on open. Use when the schema is managed
// elsewhere.
func WithoutMigration() Option {
	return func(s *SQLStore) {
		s.migrate = false
	}
}
