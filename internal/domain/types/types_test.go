package types_test

import (
	"testing"

	"github.com/okian/clubboard/internal/domain/model"
	types "github.com/okian/clubboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromRow(t *testing.T) {
	Convey("Given a ranked row", t, func() {
		row := model.LeaderboardRow{
			Rank:   2,
			Points: 14,
			Member: model.Member{
				ID: "m1", Name: "Shamil", Department: "CSE", Batch: "2022",
				Active: true, EventsCoordinated: 1, EventsAttended: 4,
				Points: model.PointsOf(14),
			},
		}

		Convey("When flattening it", func() {
			e := types.FromRow(row)

			Convey("Then the member fields are copied", func() {
				So(e.Rank, ShouldEqual, 2)
				So(e.MemberID, ShouldEqual, "m1")
				So(e.Name, ShouldEqual, "Shamil")
				So(e.Department, ShouldEqual, "CSE")
				So(e.Active, ShouldBeTrue)
				So(e.EventsCoordinated, ShouldEqual, 1)
				So(e.EventsAttended, ShouldEqual, 4)
				So(e.Points, ShouldEqual, 14)
			})
		})
	})
}
