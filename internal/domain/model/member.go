package model

// Member is a club member. The counters and Points are maintained by the
// tally pipeline; readers treat them as already in sync.
type Member struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone_number,omitempty"`
	YearJoined string `json:"year_joined,omitempty"`
	UniqueID   string `json:"unique_id,omitempty"`
	Conflict   string `json:"check_conflict,omitempty"`
	Active     bool   `json:"active"`

	EventsCoordinated int    `json:"events_coordinated"`
	EventsVolunteered int    `json:"events_volunteered"`
	EventsAttended    int    `json:"events_attended"`
	Points            Points `json:"points"`
}

// Tally is the set of counters derived from a member's event participation.
type Tally struct {
	EventsCoordinated int
	EventsVolunteered int
	EventsAttended    int
	Points            int
}
