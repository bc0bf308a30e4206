// Package access decides what an actor may do with members and events.
// Callers pass the actor explicitly; nothing here reads request state.
package access

import (
	"errors"
	"fmt"

	"github.com/okian/clubboard/internal/domain/model"
)

// ErrForbidden is returned when the actor lacks the rights for an operation.
var ErrForbidden = errors.New("permission denied")

func deny(action string) error {
	return fmt.Errorf("%s: %w", action, ErrForbidden)
}

// CanListAllEvents reports whether the actor sees every event rather than
// only the ones they created.
func CanListAllEvents(a model.Actor) bool { return a.IsAdmin() }

// VisibleEvent reports whether ev appears in the actor's event list.
func VisibleEvent(a model.Actor, ev *model.Event) bool {
	if CanListAllEvents(a) {
		return true
	}
	return a.IsCoordinator() && ev.CreatedBy == a.DisplayName()
}

// CreateEvent checks that the actor may create events.
func CreateEvent(a model.Actor) error {
	if a.IsAdmin() || a.IsCoordinator() {
		return nil
	}
	return deny("create event")
}

// UpdateEvent checks that the actor may edit ev. Coordinators may only edit
// events they created.
func UpdateEvent(a model.Actor, ev *model.Event) error {
	if a.IsAdmin() {
		return nil
	}
	if a.IsCoordinator() && ev.CreatedBy == a.DisplayName() {
		return nil
	}
	return deny("update event")
}

// ViewEvent checks that the actor may read ev in the management views.
func ViewEvent(a model.Actor, ev *model.Event) error {
	if VisibleEvent(a, ev) {
		return nil
	}
	return deny("view event")
}

// DeleteEvent checks that the actor may delete events.
func DeleteEvent(a model.Actor) error {
	if a.IsAdmin() {
		return nil
	}
	return deny("delete event")
}

// ListMembers checks that the actor may read the full member directory.
func ListMembers(a model.Actor) error {
	if a.IsAdmin() || a.IsCoordinator() {
		return nil
	}
	return deny("list members")
}

// ManageMembers checks that the actor may create, edit or delete members.
func ManageMembers(a model.Actor) error {
	if a.IsAdmin() {
		return nil
	}
	return deny("manage members")
}

// RequestTally checks that the actor may queue a full recompute of totals.
func RequestTally(a model.Actor) error {
	if a.IsAdmin() {
		return nil
	}
	return deny("request tally")
}
