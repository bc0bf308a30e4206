package service

import (
	"errors"
	"fmt"

	"github.com/okian/clubboard/internal/adapters/repository"
	"github.com/okian/clubboard/internal/domain/access"
)

// Sentinel kinds returned by the service. Store and policy errors are passed
// through wrapped, so errors.Is works with either name.
var (
	ErrNotFound        = repository.ErrNotFound
	ErrForbidden       = access.ErrForbidden
	ErrInvalidLimit    = errors.New("invalid leaderboard limit")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotStarted      = errors.New("service not started")
	// ErrStopped is returned once Stop has closed the store. It matches
	// ErrNotStarted.
	ErrStopped = fmt.Errorf("%w: stopped", ErrNotStarted)
)
