package worker

import (
	"github.com/okian/clubboard/pkg/logger"
)

// Option applies a configuration option to the TallyWorker.
type Option func(*TallyWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *TallyWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *TallyWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
