package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/clubboard/internal/app"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/pkg/logger"
)

func init() {
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var (
	admin  = model.Actor{Subject: "uid-admin", Name: "Admin", Role: model.AccessAdmin}
	ravi   = model.Actor{Subject: "uid-ravi", Name: "Ravi", Role: model.AccessCoordinator}
	meera  = model.Actor{Subject: "uid-meera", Name: "Meera", Role: model.AccessCoordinator}
	member = model.Actor{Subject: "uid-m", Name: "Someone", Role: model.AccessMember}
)

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{
		service.WithWorkerCount(2),
		service.WithMaxLeaderboardLimit(10),
	}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func pointsOf(svc *service.Service, id string) int {
	rows, err := svc.Leaderboard(context.Background(), 0, "")
	if err != nil {
		return -1
	}
	for _, r := range rows {
		if r.MemberID == id {
			return r.Points
		}
	}
	return -1
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then operations report it", func() {
			_, err := svc.Leaderboard(context.Background(), 0, "")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats(context.Background())["started"], ShouldEqual, false)
		})

		Convey("Then Stop is a no-op", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})

	Convey("Given a started service", t, func() {
		svc := startService()
		defer svc.Stop()

		Convey("Then Start is idempotent and stats are populated", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			stats := svc.GetStats(context.Background())
			So(stats["started"], ShouldEqual, true)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["members"], ShouldEqual, 0)
		})

		Convey("Then idempotency keys are remembered until released", func() {
			ctx := context.Background()
			So(svc.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "k1"), ShouldBeTrue)
			svc.Unrecord(ctx, "k1")
			So(svc.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
		})

		Convey("Then a full tally can be queued by admins only", func() {
			ctx := context.Background()
			n, err := svc.RequestTally(ctx, admin)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)

			_, err = svc.CreateMember(ctx, admin, model.Member{Name: "Queued"})
			So(err, ShouldBeNil)
			n, err = svc.RequestTally(ctx, admin)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			_, err = svc.RequestTally(ctx, ravi)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})
	})

	Convey("Given a service that was stopped", t, func() {
		ctx := context.Background()
		svc := startService()
		svc.Stop()

		Convey("Then it cannot be started again", func() {
			err := svc.Start(ctx)
			So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats(ctx)["started"], ShouldEqual, false)
		})

		Convey("Then operations report it", func() {
			_, err := svc.CreateMember(ctx, admin, model.Member{Name: "Late"})
			So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})
}

func TestService_Scoring(t *testing.T) {
	Convey("Given members and events", t, func() {
		ctx := context.Background()
		svc := startService()
		defer svc.Stop()

		asha, err := svc.CreateMember(ctx, admin, model.Member{Name: "Asha", Department: "CSE", Active: true})
		So(err, ShouldBeNil)
		bilal, err := svc.CreateMember(ctx, admin, model.Member{Name: "Bilal", Department: "cse "})
		So(err, ShouldBeNil)
		chen, err := svc.CreateMember(ctx, admin, model.Member{Name: "Chen", Department: "ME", Active: true})
		So(err, ShouldBeNil)

		_, err = svc.CreateEvent(ctx, admin, model.Event{
			Name: "Older", Date: "2024-01-10", Venue: "Hall A",
			Coordinators:      model.NewRoleSet(asha.ID),
			Attendees:         model.NewRoleSet(bilal.ID),
			CoordinatorPoints: model.PointsOf(2),
			AttendeePoints:    model.PointsOf(1),
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateEvent(ctx, admin, model.Event{
			Name: "Newer", Date: "2024-05-01", Venue: "Hall B",
			Volunteers:      model.NewRoleSet(asha.ID, bilal.ID),
			VolunteerPoints: model.PointsOf(1),
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateEvent(ctx, admin, model.Event{
			Name: "Undated", Date: "sometime", Attendees: model.NewRoleSet(asha.ID),
		})
		So(err, ShouldBeNil)

		So(eventually(func() bool { return pointsOf(svc, asha.ID) == 3 && pointsOf(svc, bilal.ID) == 2 }), ShouldBeTrue)

		Convey("When reading the leaderboard", func() {
			rows, err := svc.Leaderboard(ctx, 0, "")
			So(err, ShouldBeNil)

			Convey("Then members are ranked by points with sequential ranks", func() {
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Name, ShouldEqual, "Asha")
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[0].EventsCoordinated, ShouldEqual, 1)
				So(rows[0].EventsVolunteered, ShouldEqual, 1)
				So(rows[0].EventsAttended, ShouldEqual, 1)
				So(rows[1].Name, ShouldEqual, "Bilal")
				So(rows[2].Name, ShouldEqual, "Chen")
				So(rows[2].Rank, ShouldEqual, 3)
				So(rows[2].Points, ShouldEqual, 0)
			})
		})

		Convey("When filtering the leaderboard by name", func() {
			rows, err := svc.Leaderboard(ctx, 0, "BIL")
			So(err, ShouldBeNil)

			Convey("Then the global rank is kept", func() {
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Rank, ShouldEqual, 2)
			})
		})

		Convey("When limiting the leaderboard", func() {
			rows, err := svc.Leaderboard(ctx, 1, "")
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)

			_, err = svc.Leaderboard(ctx, 11, "")
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
			_, err = svc.Leaderboard(ctx, -1, "")
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When reading a member's participation", func() {
			p, err := svc.Participation(ctx, asha.ID)
			So(err, ShouldBeNil)

			Convey("Then events are newest first and undated last", func() {
				So(p.Total, ShouldEqual, 3)
				So(len(p.Entries), ShouldEqual, 3)
				So(p.Entries[0].Name, ShouldEqual, "Newer")
				So(p.Entries[0].Role, ShouldEqual, model.RoleVolunteer)
				So(p.Entries[1].Name, ShouldEqual, "Older")
				So(p.Entries[1].Role, ShouldEqual, model.RoleCoordinator)
				So(p.Entries[2].Name, ShouldEqual, "Undated")
				So(p.Entries[2].Points, ShouldEqual, 0)
			})

			Convey("Then a member with no events has an empty history", func() {
				p, err := svc.Participation(ctx, chen.ID)
				So(err, ShouldBeNil)
				So(p.Entries, ShouldNotBeNil)
				So(len(p.Entries), ShouldEqual, 0)
				So(p.Total, ShouldEqual, 0)
			})

			Convey("Then an unknown member is not found", func() {
				_, err := svc.Participation(ctx, "nope")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When looking members up by name", func() {
			p, err := svc.LookupMember(ctx, "  asha ")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, asha.ID)

			_, err = svc.LookupMember(ctx, "Ash")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			_, err = svc.LookupMember(ctx, " ")
			So(errors.Is(err, service.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("When the admin reads the member summary", func() {
			sum, err := svc.MemberSummary(ctx, admin, "")
			So(err, ShouldBeNil)
			So(sum.Members, ShouldEqual, 3)
			So(sum.Active, ShouldEqual, 2)
			So(sum.TotalPoints, ShouldEqual, 5)
			So(sum.Departments, ShouldEqual, 2)

			_, err = svc.MemberSummary(ctx, ravi, "")
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("When the member directory is searched", func() {
			_, err := svc.CreateMember(ctx, admin, model.Member{Name: "Dev", Department: "EEE", Position: "Treasurer"})
			So(err, ShouldBeNil)

			Convey("Then name, department and position match without case", func() {
				list, err := svc.ListMembers(ctx, admin, "CHEN")
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].ID, ShouldEqual, chen.ID)

				list, _ = svc.ListMembers(ctx, admin, " cse")
				So(len(list), ShouldEqual, 2)

				list, _ = svc.ListMembers(ctx, ravi, "treas")
				So(len(list), ShouldEqual, 1)
				So(list[0].Name, ShouldEqual, "Dev")
			})

			Convey("Then the summary only counts the matches", func() {
				sum, err := svc.MemberSummary(ctx, admin, "cse")
				So(err, ShouldBeNil)
				So(sum.Members, ShouldEqual, 2)
				So(sum.Active, ShouldEqual, 1)
				So(sum.TotalPoints, ShouldEqual, 5)
				So(sum.Departments, ShouldEqual, 1)
			})
		})
	})
}

func TestService_EventAccess(t *testing.T) {
	Convey("Given events created by two coordinators", t, func() {
		ctx := context.Background()
		svc := startService()
		defer svc.Stop()

		m, err := svc.CreateMember(ctx, admin, model.Member{Name: "Asha"})
		So(err, ShouldBeNil)

		r, err := svc.CreateEvent(ctx, ravi, model.Event{
			ID: "client-chosen", Name: "Tree planting", Type: "Outreach", Venue: "Park",
			Volunteers: model.NewRoleSet(m.ID), VolunteerPoints: model.PointsOf(4),
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateEvent(ctx, meera, model.Event{Name: "Quiz", Type: "Fest", Venue: "Auditorium"})
		So(err, ShouldBeNil)

		Convey("Then the creator is stamped and the id is assigned by the store", func() {
			So(r.ID, ShouldNotEqual, "client-chosen")
			So(r.CreatedBy, ShouldEqual, "Ravi")
			So(r.UpdatedBy, ShouldEqual, "Ravi")
		})

		Convey("Then coordinators see only their own events", func() {
			mine, err := svc.ListEvents(ctx, ravi, "")
			So(err, ShouldBeNil)
			So(len(mine), ShouldEqual, 1)
			So(mine[0].Name, ShouldEqual, "Tree planting")

			all, err := svc.ListEvents(ctx, admin, "")
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 2)

			_, err = svc.ListEvents(ctx, member, "")
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)

			_, err = svc.GetEvent(ctx, meera, r.ID)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("Then search matches name, type and venue", func() {
			for _, q := range []string{"quiz", "FEST", "audit"} {
				found, err := svc.ListEvents(ctx, admin, q)
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 1)
				So(found[0].Name, ShouldEqual, "Quiz")
			}
		})

		Convey("When another coordinator edits the event", func() {
			_, err := svc.UpdateEvent(ctx, meera, model.Event{ID: r.ID, Name: "Hijacked"})

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
			})
		})

		Convey("When the creator drops the member from the event", func() {
			So(eventually(func() bool { return pointsOf(svc, m.ID) == 4 }), ShouldBeTrue)

			upd, err := svc.UpdateEvent(ctx, ravi, model.Event{ID: r.ID, Name: "Tree planting", CreatedBy: "Meera"})
			So(err, ShouldBeNil)

			Convey("Then the creator is kept and the member is re-tallied", func() {
				So(upd.CreatedBy, ShouldEqual, "Ravi")
				So(upd.UpdatedBy, ShouldEqual, "Ravi")
				So(eventually(func() bool { return pointsOf(svc, m.ID) == 0 }), ShouldBeTrue)
			})
		})

		Convey("When deleting events", func() {
			So(errors.Is(svc.DeleteEvent(ctx, ravi, r.ID), service.ErrForbidden), ShouldBeTrue)
			So(svc.DeleteEvent(ctx, admin, r.ID), ShouldBeNil)
			So(errors.Is(svc.DeleteEvent(ctx, admin, r.ID), service.ErrNotFound), ShouldBeTrue)

			Convey("Then participants lose the points", func() {
				So(eventually(func() bool { return pointsOf(svc, m.ID) == 0 }), ShouldBeTrue)
			})
		})

		Convey("When a coordinator manages members", func() {
			_, err := svc.CreateMember(ctx, ravi, model.Member{Name: "X"})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)

			list, err := svc.ListMembers(ctx, ravi, "")
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)

			_, err = svc.ListMembers(ctx, member, "")
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})
	})
}
