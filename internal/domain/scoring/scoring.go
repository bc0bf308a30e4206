// Package scoring computes event participation points and the member
// leaderboard. Everything here is pure: no I/O, no shared state, and no
// error returns. Missing data degrades to zero or empty results.
package scoring

import (
	"sort"

	"github.com/okian/clubboard/internal/domain/model"
)

// ClassifyRole returns the role memberID held in ev.
// Sets are tested coordinator, volunteer, attendee; the first hit wins, so a
// member listed twice is only credited for the higher role.
func ClassifyRole(ev *model.Event, memberID string) model.Role {
	switch {
	case ev == nil || memberID == "":
		return model.RoleNone
	case ev.Coordinators.Has(memberID):
		return model.RoleCoordinator
	case ev.Volunteers.Has(memberID):
		return model.RoleVolunteer
	case ev.Attendees.Has(memberID):
		return model.RoleAttendee
	default:
		return model.RoleNone
	}
}

// ResolvePoints returns the points ev awards for role. Unset, non-numeric and
// negative values resolve to 0.
func ResolvePoints(ev *model.Event, role model.Role) int {
	if ev == nil {
		return 0
	}
	switch role {
	case model.RoleCoordinator:
		return ev.CoordinatorPoints.Int()
	case model.RoleVolunteer:
		return ev.VolunteerPoints.Int()
	case model.RoleAttendee:
		return ev.AttendeePoints.Int()
	default:
		return 0
	}
}

// AggregateParticipation collects the events memberID took part in, in the
// order of events, and the sum of their points. Events where the member holds
// no role contribute nothing.
func AggregateParticipation(events []model.Event, memberID string) ([]model.ParticipationEntry, int) {
	entries := make([]model.ParticipationEntry, 0)
	total := 0
	for i := range events {
		ev := &events[i]
		role := ClassifyRole(ev, memberID)
		if role == model.RoleNone {
			continue
		}
		pts := ResolvePoints(ev, role)
		entries = append(entries, model.ParticipationEntry{
			EventID:  ev.ID,
			Name:     ev.Name,
			Date:     ev.Date,
			Venue:    ev.Venue,
			ImageURL: ev.ImageURL,
			Role:     role,
			Points:   pts,
		})
		total += pts
	}
	return entries, total
}

// Tally derives a member's counters from their participation entries.
func Tally(entries []model.ParticipationEntry) model.Tally {
	var t model.Tally
	for _, e := range entries {
		switch e.Role {
		case model.RoleCoordinator:
			t.EventsCoordinated++
		case model.RoleVolunteer:
			t.EventsVolunteered++
		case model.RoleAttendee:
			t.EventsAttended++
		}
		t.Points += e.Points
	}
	return t
}

// RankMembers orders members by their stored points total, highest first,
// and numbers them by position. Equal totals keep their input order and still
// receive distinct consecutive ranks.
//
// The stored total is trusted as-is; it is not recomputed from events.
func RankMembers(members []model.Member) []model.LeaderboardRow {
	rows := make([]model.LeaderboardRow, len(members))
	for i := range members {
		rows[i] = model.LeaderboardRow{Member: members[i], Points: members[i].Points.Int()}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
