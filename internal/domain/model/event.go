package model

// Event is a club event with its three role-membership sets and optional
// per-role point values.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Mode        string `json:"mode,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`

	Coordinators RoleSet `json:"coordinators"`
	Volunteers   RoleSet `json:"volunteers"`
	Attendees    RoleSet `json:"attendees"`

	CoordinatorPoints Points `json:"points_coordinator"`
	VolunteerPoints   Points `json:"points_volunteer"`
	AttendeePoints    Points `json:"points_attendee"`
}

// Participants returns every member id that appears in any of the role sets.
func (e *Event) Participants() RoleSet {
	all := make(RoleSet, e.Coordinators.Len()+e.Volunteers.Len()+e.Attendees.Len())
	for _, set := range []RoleSet{e.Coordinators, e.Volunteers, e.Attendees} {
		for id := range set {
			all[id] = struct{}{}
		}
	}
	return all
}

// ParticipationEntry is one event a member took part in, with the role they
// were credited for and the points awarded.
type ParticipationEntry struct {
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	ImageURL string `json:"image_url,omitempty"`
	Role     Role   `json:"role"`
	Points   int    `json:"points"`
}

// LeaderboardRow is a ranked member.
type LeaderboardRow struct {
	Rank   int
	Member Member
	Points int
}
