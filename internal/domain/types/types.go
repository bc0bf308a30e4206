// Package types contains the read shapes returned by the API.
package types

import "github.com/okian/clubboard/internal/domain/model"

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank              int    `json:"rank"`
	MemberID          string `json:"member_id"`
	Name              string `json:"name"`
	Department        string `json:"department"`
	Batch             string `json:"batch"`
	Active            bool   `json:"active"`
	EventsCoordinated int    `json:"events_coordinated"`
	EventsVolunteered int    `json:"events_volunteered"`
	EventsAttended    int    `json:"events_attended"`
	Points            int    `json:"points"`
}

// FromRow flattens a ranked row for the API.
func FromRow(r model.LeaderboardRow) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:              r.Rank,
		MemberID:          r.Member.ID,
		Name:              r.Member.Name,
		Department:        r.Member.Department,
		Batch:             r.Member.Batch,
		Active:            r.Member.Active,
		EventsCoordinated: r.Member.EventsCoordinated,
		EventsVolunteered: r.Member.EventsVolunteered,
		EventsAttended:    r.Member.EventsAttended,
		Points:            r.Points,
	}
}

// Participation is a member's event history with the total earned.
type Participation struct {
	MemberID string                     `json:"member_id"`
	Name     string                     `json:"name"`
	Total    int                        `json:"total"`
	Entries  []model.ParticipationEntry `json:"entries"`
}

// MemberProfile is the public view of a member found by name.
type MemberProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
}

// MemberSummary backs the admin dashboard tiles.
type MemberSummary struct {
	Members     int `json:"members"`
	Active      int `json:"active"`
	TotalPoints int `json:"total_points"`
	Departments int `json:"departments"`
}
