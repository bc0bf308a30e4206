package model

import "strings"

// AccessRole is the portal permission level of an authenticated caller.
type AccessRole string

// Access roles.
const (
	AccessAdmin       AccessRole = "admin"
	AccessCoordinator AccessRole = "coordinator"
	AccessMember      AccessRole = "member"
)

// ParseAccessRole maps a token claim to an AccessRole. "captain" is accepted
// as an alias for coordinator; unknown values map to AccessMember.
func ParseAccessRole(s string) AccessRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return AccessAdmin
	case "coordinator", "captain":
		return AccessCoordinator
	default:
		return AccessMember
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	Subject string
	Name    string
	Role    AccessRole
}

// DisplayName is the name stamped on records the actor creates or edits.
func (a Actor) DisplayName() string {
	if n := strings.TrimSpace(a.Name); n != "" {
		return n
	}
	return a.Subject
}

// IsAdmin reports whether the actor has admin rights.
func (a Actor) IsAdmin() bool { return a.Role == AccessAdmin }

// IsCoordinator reports whether the actor is a coordinator.
func (a Actor) IsCoordinator() bool { return a.Role == AccessCoordinator }
