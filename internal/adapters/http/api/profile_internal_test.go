package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/catprofile/internal/domain/profile"
	"github.com/okian/catprofile/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedDeps struct{ hide bool }

func (fixedDeps) Profile(context.Context) profile.Response {
	return profile.Response{Status: profile.StatusSuccess, Fact: "X"}
}
func (fixedDeps) Health(context.Context) profile.Health { return profile.Health{} }
func (d fixedDeps) HideErrorDetail() bool               { return d.hide }

func TestHandleProfile_EncodeFailure(t *testing.T) {
	Convey("Given a profile handler whose encoder fails", t, func() {
		failing := func(any) ([]byte, error) { return nil, errors.New("bad value") }

		Convey("When detail is allowed", func() {
			h := NewProfileHandler(fixedDeps{}, logger.Nop())
			h.encode = failing
			rec := httptest.NewRecorder()
			h.HandleProfile(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

			Convey("Then a 500 carries the wrapped error", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				var body profile.ErrorResponse
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Status, ShouldEqual, profile.StatusError)
				So(body.Message, ShouldEqual, profile.GenericErrorMessage)
				So(body.Error, ShouldContainSubstring, ErrEncode.Error())
				So(body.Error, ShouldContainSubstring, "bad value")
			})
		})

		Convey("When running in production", func() {
			h := NewProfileHandler(fixedDeps{hide: true}, logger.Nop())
			h.encode = failing
			rec := httptest.NewRecorder()
			h.HandleProfile(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

			Convey("Then the detail is omitted", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldNotContainSubstring, "bad value")
				So(rec.Body.String(), ShouldNotContainSubstring, `"error"`)
			})
		})
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Status codes map to error types and severities", t, func() {
		So(getErrorType(500), ShouldEqual, "server_error")
		So(getErrorType(404), ShouldEqual, "not_found")
		So(getErrorType(400), ShouldEqual, "client_error")
		So(getErrorType(200), ShouldEqual, "unknown")
		So(getErrorSeverity(503), ShouldEqual, "high")
		So(getErrorSeverity(404), ShouldEqual, "medium")
		So(getErrorSeverity(200), ShouldEqual, "low")
	})
}
