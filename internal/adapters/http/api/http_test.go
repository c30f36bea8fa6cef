package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadre-hq/cadre/internal/adapters/http/api"
	"github.com/cadre-hq/cadre/internal/adapters/repository"
	"github.com/cadre-hq/cadre/internal/app"
	"github.com/cadre-hq/cadre/internal/forms"
)

func newTestMux() *http.ServeMux {
	registry := forms.NewRegistry(forms.Definition{
		ID: "f1",
		Weights: map[string]map[string]float64{
			"bootcamp": {"technical": 0.5, "motivation": 0.5},
		},
		Reviewers: []string{"rev-1", "rev-2"},
	})
	svc := app.New(repository.NewMemStore(), registry)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestApplicationEndpoints(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newTestMux()

		Convey("Submitting an application returns 201", func() {
			rec := do(mux, http.MethodPost, "/applications",
				`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"bootcamp"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)

			Convey("And resubmission returns 409", func() {
				rec := do(mux, http.MethodPost, "/applications",
					`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"bootcamp"}`)
				So(rec.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("An unknown role returns 400", func() {
			rec := do(mux, http.MethodPost, "/applications",
				`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"wizard"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON returns 400", func() {
			rec := do(mux, http.MethodPost, "/applications", `{`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAssignmentEndpoints(t *testing.T) {
	Convey("Given a submitted application", t, func() {
		mux := newTestMux()
		rec := do(mux, http.MethodPost, "/applications",
			`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"bootcamp"}`)
		So(rec.Code, ShouldEqual, http.StatusCreated)

		Convey("Assigning a reviewer returns 201", func() {
			rec := do(mux, http.MethodPost, "/assignments",
				`{"response_id":"r1","assignee_id":"rev-1","role":"bootcamp","kind":"review"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)

			var created struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &created), ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)

			Convey("And the duplicate triple returns 409", func() {
				rec := do(mux, http.MethodPost, "/assignments",
					`{"response_id":"r1","assignee_id":"rev-1","role":"bootcamp","kind":"review"}`)
				So(rec.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("And the assignment can be deleted", func() {
				rec := do(mux, http.MethodDelete, "/assignments/"+created.ID, "")
				So(rec.Code, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("Planning proposes reviewer slots", func() {
			rec := do(mux, http.MethodPost, "/autoassign/plan", `{"form_id":"f1"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Items []app.PlanItem `json:"items"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Items, ShouldHaveLength, 1)
			So(resp.Items[0].Reviewers, ShouldHaveLength, 2)
		})
	})
}

func TestDecisionEndpoints(t *testing.T) {
	Convey("Given an accepted application", t, func() {
		mux := newTestMux()
		So(do(mux, http.MethodPost, "/applications",
			`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"bootcamp"}`).Code,
			ShouldEqual, http.StatusCreated)
		So(do(mux, http.MethodPost, "/statuses/decide",
			`{"response_id":"r1","role":"bootcamp","decision":"Accepted"}`).Code,
			ShouldEqual, http.StatusOK)

		Convey("The public view collapses before release", func() {
			rec := do(mux, http.MethodGet, "/decisions?response_id=r1&role=bootcamp", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"decided"`)
			So(rec.Body.String(), ShouldContainSubstring, `"released":false`)
		})

		Convey("After release the true status is shown", func() {
			So(do(mux, http.MethodPost, "/forms/release", `{"form_id":"f1","released":true}`).Code,
				ShouldEqual, http.StatusNoContent)

			rec := do(mux, http.MethodGet, "/decisions?response_id=r1&role=bootcamp", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"Accepted"`)
			So(rec.Body.String(), ShouldContainSubstring, `"released":true`)
		})

		Convey("The first confirmation returns 201, the second 409", func() {
			body := `{"response_id":"r1","user_id":"u1","role":"bootcamp","decision":"accepted"}`
			So(do(mux, http.MethodPost, "/confirmations", body).Code, ShouldEqual, http.StatusCreated)
			So(do(mux, http.MethodPost, "/confirmations", body).Code, ShouldEqual, http.StatusConflict)
		})

		Convey("Stats count the decided record", func() {
			rec := do(mux, http.MethodGet, "/stats?form_id=f1", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var stats struct {
				Total    int            `json:"total"`
				Decided  int            `json:"decided"`
				ByStatus map[string]int `json:"by_status"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats.Total, ShouldEqual, 1)
			So(stats.Decided, ShouldEqual, 1)
			So(stats.ByStatus["Accepted"], ShouldEqual, 1)
		})

		Convey("Deciding again returns 409", func() {
			rec := do(mux, http.MethodPost, "/statuses/decide",
				`{"response_id":"r1","role":"bootcamp","decision":"Denied"}`)
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})
	})
}

func TestConfirmPrecondition(t *testing.T) {
	Convey("Given an application still under review", t, func() {
		mux := newTestMux()
		So(do(mux, http.MethodPost, "/applications",
			`{"response_id":"r1","applicant_id":"u1","form_id":"f1","role":"bootcamp"}`).Code,
			ShouldEqual, http.StatusCreated)

		Convey("Confirming returns 412", func() {
			rec := do(mux, http.MethodPost, "/confirmations",
				`{"response_id":"r1","user_id":"u1","role":"bootcamp","decision":"accepted"}`)
			So(rec.Code, ShouldEqual, http.StatusPreconditionFailed)
		})
	})
}

func TestHealth(t *testing.T) {
	Convey("The health endpoint reports ok", t, func() {
		mux := newTestMux()
		rec := do(mux, http.MethodGet, "/healthz", "")
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, "ok")
	})
}
