package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubboard/internal/domain/model"
)

func TestAuthenticator(t *testing.T) {
	Convey("Given an authenticator with a secret", t, func() {
		a := New("s3cret")
		actor := model.Actor{Subject: "uid-1", Name: "Ravi", Role: model.AccessCoordinator}

		Convey("When a token is issued and verified", func() {
			tok, err := a.Issue(actor, time.Hour)
			So(err, ShouldBeNil)
			got, err := a.Verify(tok)

			Convey("Then the actor round trips", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, actor)
			})
		})

		Convey("When the captain alias is used", func() {
			tok, err := a.Issue(model.Actor{Subject: "uid-2", Role: "captain"}, 0)
			So(err, ShouldBeNil)
			got, err := a.Verify(tok)
			So(err, ShouldBeNil)
			So(got.Role, ShouldEqual, model.AccessCoordinator)
		})

		Convey("When the token has expired", func() {
			issued := time.Now().Add(-2 * time.Hour)
			a.now = func() time.Time { return issued }
			tok, err := a.Issue(actor, time.Hour)
			So(err, ShouldBeNil)
			a.now = time.Now

			_, err = a.Verify(tok)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("When the token was signed with another secret", func() {
			tok, err := New("other").Issue(actor, time.Hour)
			So(err, ShouldBeNil)

			_, err = a.Verify(tok)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("When the token uses an unexpected algorithm", func() {
			tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1"},
			}).SignedString([]byte("s3cret"))
			So(err, ShouldBeNil)

			_, err = a.Verify(tok)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("When the subject is missing", func() {
			_, err := a.Issue(model.Actor{Name: "anon"}, time.Hour)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("When the token is garbage", func() {
			_, err := a.Verify("not.a.token")
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})
	})

	Convey("Given an authenticator without a secret", t, func() {
		a := New("")

		So(a.Enabled(), ShouldBeFalse)
		_, err := a.Issue(model.Actor{Subject: "x"}, 0)
		So(errors.Is(err, ErrNoSecret), ShouldBeTrue)
		_, err = a.Verify("anything")
		So(errors.Is(err, ErrNoSecret), ShouldBeTrue)
	})
}

func TestFromHeader(t *testing.T) {
	Convey("Given Authorization header values", t, func() {
		tok, err := FromHeader("Bearer abc")
		So(err, ShouldBeNil)
		So(tok, ShouldEqual, "abc")

		tok, err = FromHeader("bearer   xyz ")
		So(err, ShouldBeNil)
		So(tok, ShouldEqual, "xyz")

		for _, h := range []string{"", "Basic abc", "Bearer ", "Bearer"} {
			_, err := FromHeader(h)
			So(errors.Is(err, ErrMissingToken), ShouldBeTrue)
		}
	})
}
