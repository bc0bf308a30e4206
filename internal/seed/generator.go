package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/clubboard/internal/domain/model"
)

var (
	firstNames  = []string{"Aarav", "Meera", "Ravi", "Ananya", "Kabir", "Isha", "Vikram", "Sara", "Arjun", "Diya", "Rohan", "Nila"}
	lastNames   = []string{"Sharma", "Iyer", "Nair", "Gupta", "Khan", "Menon", "Rao", "Das", "Pillai", "Bose"}
	departments = []string{"CSE", "ECE", "MECH", "CIVIL", "EEE", "IT"}
	positions   = []string{"", "", "", "Secretary", "Treasurer", "Lead"}
	venues      = []string{"Main Auditorium", "Seminar Hall", "Open Air Theatre", "Lab Block", "Online"}
	eventTypes  = []string{"Workshop", "Talk", "Hackathon", "Cleanup Drive", "Cultural"}
	eventNouns  = []string{"Kickoff", "Meetup", "Sprint", "Showcase", "Bootcamp", "Marathon"}
)

// firstEventDay anchors generated event dates.
var firstEventDay = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

// Generator produces random demo records.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator; seed 0 draws a random seed.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (g *Generator) pick(from []string) string { return from[g.rnd.IntN(len(from))] }

// Members returns n members without ids and with zeroed tallies.
func (g *Generator) Members(n int) []model.Member {
	out := make([]model.Member, 0, n)
	for i := range n {
		year := 2019 + g.rnd.IntN(6)
		out = append(out, model.Member{
			Name:       fmt.Sprintf("%s %s %d", g.pick(firstNames), g.pick(lastNames), i+1),
			Department: g.pick(departments),
			Batch:      fmt.Sprintf("%d-%d", year, year+4),
			Position:   g.pick(positions),
			YearJoined: fmt.Sprint(year),
			UniqueID:   fmt.Sprintf("CLB%04d", i+1),
			Active:     g.rnd.IntN(10) > 0,
		})
	}
	return out
}

// Events returns n events whose role sets draw from memberIDs. Roughly one in
// ten per-role point values is left unset.
func (g *Generator) Events(memberIDs []string, n int) []model.Event {
	out := make([]model.Event, 0, n)
	for i := range n {
		day := firstEventDay.AddDate(0, 0, 7*i+g.rnd.IntN(5))
		ev := model.Event{
			Name:         fmt.Sprintf("%s %s", g.pick(eventTypes), g.pick(eventNouns)),
			Date:         day.Format("2006-01-02"),
			Venue:        g.pick(venues),
			Mode:         "Offline",
			Type:         g.pick(eventTypes),
			CreatedBy:    "seed",
			UpdatedBy:    "seed",
			Coordinators: g.sample(memberIDs, 1+g.rnd.IntN(2)),
			Volunteers:   g.sample(memberIDs, g.rnd.IntN(5)),
			Attendees:    g.sample(memberIDs, 3+g.rnd.IntN(12)),

			CoordinatorPoints: g.points(3, 6),
			VolunteerPoints:   g.points(2, 3),
			AttendeePoints:    g.points(1, 2),
		}
		if ev.Venue == "Online" {
			ev.Mode = "Online"
		}
		out = append(out, ev)
	}
	return out
}

// sample picks up to k distinct ids.
func (g *Generator) sample(ids []string, k int) model.RoleSet {
	set := model.NewRoleSet()
	if len(ids) == 0 {
		return set
	}
	for _, idx := range g.rnd.Perm(len(ids))[:min(k, len(ids))] {
		set.Add(ids[idx])
	}
	return set
}

// points returns a value in [lo, hi] or, one time in ten, an unset value.
func (g *Generator) points(lo, hi int) model.Points {
	if g.rnd.IntN(10) == 0 {
		return model.Points{}
	}
	return model.PointsOf(lo + g.rnd.IntN(hi-lo+1))
}
