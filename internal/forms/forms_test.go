package forms_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/rubric"
	"github.com/cadre-hq/cadre/internal/forms"
)

const testYAML = `forms:
  - id: f-2026
    decisions_released: false
    reviewers: [rev-1, rev-2]
    interviewers: [int-1]
    weights:
      bootcamp:
        technical: 0.5
        motivation: 0.5
`

func TestLoadFile(t *testing.T) {
	Convey("Given a form definitions file", t, func() {
		path := filepath.Join(t.TempDir(), "forms.yaml")
		So(os.WriteFile(path, []byte(testYAML), 0o600), ShouldBeNil)

		registry, err := forms.LoadFile(path)
		So(err, ShouldBeNil)

		Convey("Then weights resolve per role", func() {
			w, err := registry.WeightsFor("f-2026", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(w, ShouldResemble, rubric.Weights{"technical": 0.5, "motivation": 0.5})
		})

		Convey("And a role without a table returns nil without error", func() {
			w, err := registry.WeightsFor("f-2026", model.RoleFellowship)
			So(err, ShouldBeNil)
			So(w, ShouldBeNil)
		})

		Convey("And assignee pools resolve per kind", func() {
			reviewers, err := registry.Assignees("f-2026", model.KindReview)
			So(err, ShouldBeNil)
			So(reviewers, ShouldResemble, []string{"rev-1", "rev-2"})

			interviewers, err := registry.Assignees("f-2026", model.KindInterview)
			So(err, ShouldBeNil)
			So(interviewers, ShouldResemble, []string{"int-1"})
		})

		Convey("And the release flag can be flipped", func() {
			released, err := registry.DecisionsReleased("f-2026")
			So(err, ShouldBeNil)
			So(released, ShouldBeFalse)

			So(registry.SetReleased("f-2026", true), ShouldBeNil)

			released, err = registry.DecisionsReleased("f-2026")
			So(err, ShouldBeNil)
			So(released, ShouldBeTrue)
		})

		Convey("And unknown forms are not found", func() {
			_, err := registry.WeightsFor("missing", model.RoleBootcamp)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := forms.LoadFile("does-not-exist.yaml")
		So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
	})

	Convey("Given malformed YAML", t, func() {
		path := filepath.Join(t.TempDir(), "forms.yaml")
		So(os.WriteFile(path, []byte("forms: ["), 0o600), ShouldBeNil)

		_, err := forms.LoadFile(path)
		So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
	})
}
