// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// Role is the part a member played in a single event.
type Role string

// Participation roles. RoleNone means the member is in none of the event's sets.
const (
	RoleNone        Role = ""
	RoleCoordinator Role = "Coordinator"
	RoleVolunteer   Role = "Volunteer"
	RoleAttendee    Role = "Attendee"
)

// String returns the display name of the role.
func (r Role) String() string {
	if r == RoleNone {
		return "None"
	}
	return string(r)
}

// RoleSet is an unordered set of member identifiers.
// The zero value is an empty set; a nil RoleSet is safe to query.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from ids, skipping blanks and duplicates.
func NewRoleSet(ids ...string) RoleSet {
	s := make(RoleSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set. Blank ids are ignored.
func (s RoleSet) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" || s == nil {
		return
	}
	s[id] = struct{}{}
}

// Has reports whether id is a member of the set.
func (s RoleSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s RoleSet) Len() int { return len(s) }

// IDs returns the members of the set in ascending order.
func (s RoleSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of ids. null decodes to an empty set.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewRoleSet(ids...)
	return nil
}
