package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/catprofile/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

type staticWelcome struct{}

func (staticWelcome) Welcome(context.Context) profile.Welcome { return profile.DefaultWelcome() }

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered root handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux, staticWelcome{})

		Convey("When GET / is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then the welcome payload is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body profile.Welcome
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldResemble, profile.DefaultWelcome())
			})
		})

		Convey("When it is requested twice", func() {
			first := httptest.NewRecorder()
			second := httptest.NewRecorder()
			mux.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
			mux.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

			So(second.Body.String(), ShouldEqual, first.Body.String())
		})

		Convey("When an unknown path is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/some-asset", nil))

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a non-GET method is used", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilArguments(t *testing.T) {
	Convey("Given missing dependencies", t, func() {
		ctx := context.Background()

		Convey("Then a nil mux panics", func() {
			So(func() { Register(ctx, nil, staticWelcome{}) }, ShouldPanic)
		})

		Convey("Then a nil provider panics", func() {
			So(func() { Register(ctx, http.NewServeMux(), nil) }, ShouldPanic)
		})
	})
}
