// Package repository persists members and events.
package repository

import (
	"context"

	"github.com/okian/clubboard/internal/domain/model"
)

// EventFilter narrows ListEvents. Zero value lists everything.
type EventFilter struct {
	// CreatedBy keeps only events created by this display name.
	CreatedBy string
}

// Store provides read/write access to members and events.
// List methods return records in insertion order.
type Store interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	// GetMember returns ErrNotFound if the member is unknown.
	GetMember(ctx context.Context, id string) (model.Member, error)
	// CreateMember assigns an id when m.ID is empty and returns the stored record.
	CreateMember(ctx context.Context, m model.Member) (model.Member, error)
	// UpdateMember replaces the editable profile fields. Tally counters are kept.
	UpdateMember(ctx context.Context, m model.Member) (model.Member, error)
	DeleteMember(ctx context.Context, id string) error
	// ApplyTally overwrites a member's counters and points total.
	ApplyTally(ctx context.Context, id string, t model.Tally) error

	ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, e model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Counts returns the number of members and events.
	Counts(ctx context.Context) (members int, events int, err error)

	Close() error
}
