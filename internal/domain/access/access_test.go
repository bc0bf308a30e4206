package access_test

import (
	"errors"
	"testing"

	"github.com/okian/clubboard/internal/domain/access"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventPolicy(t *testing.T) {
	convey.Convey("Given an admin, two coordinators and a member", t, func() {
		admin := model.Actor{Subject: "a", Name: "Admin", Role: model.AccessAdmin}
		alice := model.Actor{Subject: "c1", Name: "Alice", Role: model.AccessCoordinator}
		bob := model.Actor{Subject: "c2", Name: "Bob", Role: model.AccessCoordinator}
		plain := model.Actor{Subject: "m", Name: "Mo", Role: model.AccessMember}
		ev := &model.Event{ID: "e1", CreatedBy: "Alice"}

		convey.Convey("Then admins may do everything", func() {
			convey.So(access.CreateEvent(admin), convey.ShouldBeNil)
			convey.So(access.UpdateEvent(admin, ev), convey.ShouldBeNil)
			convey.So(access.DeleteEvent(admin), convey.ShouldBeNil)
			convey.So(access.VisibleEvent(admin, ev), convey.ShouldBeTrue)
		})

		convey.Convey("Then coordinators may only edit their own events", func() {
			convey.So(access.CreateEvent(alice), convey.ShouldBeNil)
			convey.So(access.UpdateEvent(alice, ev), convey.ShouldBeNil)
			convey.So(errors.Is(access.UpdateEvent(bob, ev), access.ErrForbidden), convey.ShouldBeTrue)
			convey.So(access.VisibleEvent(bob, ev), convey.ShouldBeFalse)
			convey.So(access.ViewEvent(alice, ev), convey.ShouldBeNil)
		})

		convey.Convey("Then coordinators may not delete", func() {
			convey.So(errors.Is(access.DeleteEvent(alice), access.ErrForbidden), convey.ShouldBeTrue)
		})

		convey.Convey("Then members have no management rights", func() {
			convey.So(access.CreateEvent(plain), convey.ShouldNotBeNil)
			convey.So(access.ListMembers(plain), convey.ShouldNotBeNil)
			convey.So(access.VisibleEvent(plain, &model.Event{CreatedBy: "Mo"}), convey.ShouldBeFalse)
		})
	})
}

func TestMemberPolicy(t *testing.T) {
	convey.Convey("Given member management", t, func() {
		admin := model.Actor{Role: model.AccessAdmin}
		coord := model.Actor{Role: model.AccessCoordinator}

		convey.So(access.ListMembers(coord), convey.ShouldBeNil)
		convey.So(access.ManageMembers(admin), convey.ShouldBeNil)
		convey.So(errors.Is(access.ManageMembers(coord), access.ErrForbidden), convey.ShouldBeTrue)
		convey.So(access.RequestTally(admin), convey.ShouldBeNil)
		convey.So(errors.Is(access.RequestTally(coord), access.ErrForbidden), convey.ShouldBeTrue)
	})
}
