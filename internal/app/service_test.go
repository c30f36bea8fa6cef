package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadre-hq/cadre/internal/adapters/repository"
	"github.com/cadre-hq/cadre/internal/app"
	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/internal/forms"
)

const testFormID = "f-2026"

func newTestService(reviewerCount int) *app.Service {
	reviewers := make([]string, reviewerCount)
	for i := range reviewers {
		reviewers[i] = fmt.Sprintf("rev-%02d", i)
	}
	registry := forms.NewRegistry(forms.Definition{
		ID: testFormID,
		Weights: map[string]map[string]float64{
			"bootcamp": {"technical": 0.5, "motivation": 0.5},
		},
		Reviewers:    reviewers,
		Interviewers: []string{"int-00"},
	})
	return app.New(repository.NewMemStore(), registry)
}

func submitN(ctx context.Context, svc *app.Service, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("resp-%02d", i)
		if _, err := svc.SubmitApplication(ctx, ids[i], fmt.Sprintf("appl-%02d", i), testFormID, model.RoleBootcamp); err != nil {
			panic(err)
		}
	}
	return ids
}

func TestSubmitApplication(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh service", t, func() {
		svc := newTestService(2)

		Convey("When an application is submitted", func() {
			_, err := svc.SubmitApplication(ctx, "resp-1", "appl-1", testFormID, model.RoleBootcamp)
			So(err, ShouldBeNil)

			Convey("Then its status starts at NotReviewed", func() {
				rec, err := svc.Status(ctx, "resp-1", model.RoleBootcamp)
				So(err, ShouldBeNil)
				So(rec.Status, ShouldEqual, status.NotReviewed)
				So(rec.Qualified, ShouldBeFalse)
			})

			Convey("And resubmitting the same response conflicts", func() {
				_, err := svc.SubmitApplication(ctx, "resp-1", "appl-1", testFormID, model.RoleBootcamp)
				So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)
			})
		})
	})
}

func TestAssignUnassign(t *testing.T) {
	ctx := context.Background()

	Convey("Given a submitted application", t, func() {
		svc := newTestService(3)
		submitN(ctx, svc, 1)

		Convey("When a reviewer is assigned", func() {
			a, err := svc.Assign(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
			So(err, ShouldBeNil)

			Convey("Then the status moves to UnderReview", func() {
				rec, err := svc.Status(ctx, "resp-00", model.RoleBootcamp)
				So(err, ShouldBeNil)
				So(rec.Status, ShouldEqual, status.UnderReview)
			})

			Convey("And assigning the same triple again conflicts", func() {
				_, err := svc.Assign(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
				So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)
			})

			Convey("And the assignment can be removed before scores are submitted", func() {
				So(svc.Unassign(ctx, a.ID), ShouldBeNil)
			})

			Convey("And the assignment cannot be removed after scores are submitted", func() {
				_, err := svc.StartScoring(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
				So(err, ShouldBeNil)
				_, err = svc.SaveScores(ctx, "resp-00", "rev-00", model.RoleBootcamp, map[string]float64{"technical": 8, "motivation": 6})
				So(err, ShouldBeNil)
				_, err = svc.SubmitScores(ctx, "resp-00", "rev-00", model.RoleBootcamp)
				So(err, ShouldBeNil)

				err = svc.Unassign(ctx, a.ID)
				So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
			})
		})

		Convey("When the response does not exist", func() {
			_, err := svc.Assign(ctx, "resp-99", "rev-00", model.RoleBootcamp, model.KindReview)
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestScoreLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assigned reviewer", t, func() {
		svc := newTestService(2)
		submitN(ctx, svc, 1)
		_, err := svc.Assign(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
		So(err, ShouldBeNil)

		Convey("Starting scores requires an assignment", func() {
			_, err := svc.StartScoring(ctx, "resp-00", "rev-01", model.RoleBootcamp, model.KindReview)
			So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
		})

		Convey("When the reviewer scores and submits", func() {
			_, err := svc.StartScoring(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
			So(err, ShouldBeNil)

			Convey("Out-of-bound values are refused", func() {
				_, err := svc.SaveScores(ctx, "resp-00", "rev-00", model.RoleBootcamp, map[string]float64{"technical": 11})
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
			})

			_, err = svc.SaveScores(ctx, "resp-00", "rev-00", model.RoleBootcamp, map[string]float64{"technical": 4, "motivation": 2})
			So(err, ShouldBeNil)
			_, err = svc.SubmitScores(ctx, "resp-00", "rev-00", model.RoleBootcamp)
			So(err, ShouldBeNil)

			Convey("Then the weighted aggregate is served", func() {
				score, err := svc.ScoreFor(ctx, "resp-00", "rev-00", model.RoleBootcamp)
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 3.00)
			})

			Convey("And the submitted set is immutable", func() {
				_, err := svc.SaveScores(ctx, "resp-00", "rev-00", model.RoleBootcamp, map[string]float64{"technical": 9, "motivation": 9})
				So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)

				_, err = svc.SubmitScores(ctx, "resp-00", "rev-00", model.RoleBootcamp)
				So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)
			})
		})
	})
}

func TestAutoAssignment(t *testing.T) {
	ctx := context.Background()

	Convey("Given 10 applicants and 5 reviewers", t, func() {
		svc := newTestService(5)
		submitN(ctx, svc, 10)

		Convey("When a plan is generated and committed", func() {
			plan, err := svc.PlanAutoAssign(ctx, testFormID, nil)
			So(err, ShouldBeNil)
			So(plan, ShouldHaveLength, 10)

			results := svc.CommitPlan(ctx, plan)
			So(results, ShouldHaveLength, 10)

			Convey("Then every item commits cleanly", func() {
				for _, res := range results {
					So(res.Skipped, ShouldBeFalse)
					So(res.Failed, ShouldBeEmpty)
					So(res.Assigned, ShouldHaveLength, 2)
				}
			})

			Convey("And reviewer loads stay balanced", func() {
				counts := map[string]int{}
				for _, res := range results {
					for _, id := range res.Assigned {
						So(res.Assigned[0], ShouldNotEqual, res.Assigned[1])
						counts[id]++
					}
				}
				for _, n := range counts {
					So(n, ShouldBeBetweenOrEqual, 3, 5)
				}
			})

			Convey("And a second plan finds nothing left to assign", func() {
				again, err := svc.PlanAutoAssign(ctx, testFormID, nil)
				So(err, ShouldBeNil)
				So(again, ShouldBeEmpty)
			})
		})

		Convey("When the pool is exempted down to one reviewer", func() {
			plan, err := svc.PlanAutoAssign(ctx, testFormID, []string{"rev-01", "rev-02", "rev-03", "rev-04"})
			So(err, ShouldBeNil)

			Convey("Then every item is skipped with at most one slot", func() {
				for _, item := range plan {
					So(item.Skipped, ShouldBeTrue)
					So(len(item.Reviewers), ShouldBeLessThanOrEqualTo, 1)
				}
			})
		})

		Convey("When plans are generated twice from the same snapshot", func() {
			first, err := svc.PlanAutoAssign(ctx, testFormID, nil)
			So(err, ShouldBeNil)
			second, err := svc.PlanAutoAssign(ctx, testFormID, nil)
			So(err, ShouldBeNil)

			Convey("Then the proposals are identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	Convey("Given a submitted application", t, func() {
		svc := newTestService(2)
		submitN(ctx, svc, 1)

		Convey("Confirming before acceptance fails the precondition", func() {
			_, err := svc.Confirm(ctx, "resp-00", "appl-00", model.RoleBootcamp, model.DecisionAccepted)
			So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
		})

		Convey("Given the application is accepted", func() {
			_, err := svc.Decide(ctx, "resp-00", model.RoleBootcamp, status.Accepted)
			So(err, ShouldBeNil)

			Convey("Then the first confirm succeeds and the second conflicts", func() {
				c, err := svc.Confirm(ctx, "resp-00", "appl-00", model.RoleBootcamp, model.DecisionAccepted)
				So(err, ShouldBeNil)
				So(c.Decision, ShouldEqual, model.DecisionAccepted)

				_, err = svc.Confirm(ctx, "resp-00", "appl-00", model.RoleBootcamp, model.DecisionDenied)
				So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)
			})

			Convey("And concurrent confirms land at most one record", func() {
				const attempts = 16
				var wg sync.WaitGroup
				errs := make([]error, attempts)
				for i := 0; i < attempts; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						_, errs[i] = svc.Confirm(ctx, "resp-00", "appl-00", model.RoleBootcamp, model.DecisionAccepted)
					}(i)
				}
				wg.Wait()

				succeeded := 0
				for _, err := range errs {
					if err == nil {
						succeeded++
					} else {
						So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)
					}
				}
				So(succeeded, ShouldEqual, 1)
			})
		})
	})
}

func TestStatusFlow(t *testing.T) {
	ctx := context.Background()

	Convey("Given an application under review", t, func() {
		svc := newTestService(2)
		submitN(ctx, svc, 3)
		_, err := svc.Assign(ctx, "resp-00", "rev-00", model.RoleBootcamp, model.KindReview)
		So(err, ShouldBeNil)

		Convey("Advancing without qualification is refused", func() {
			_, err := svc.AdvanceToInterview(ctx, "resp-00", model.RoleBootcamp)
			So(errors.Is(err, fault.ErrPrecondition), ShouldBeTrue)
		})

		Convey("Qualified applicants advance to Interview", func() {
			_, err := svc.SetQualified(ctx, "resp-00", model.RoleBootcamp, true)
			So(err, ShouldBeNil)
			rec, err := svc.AdvanceToInterview(ctx, "resp-00", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(rec.Status, ShouldEqual, status.Interview)
		})

		Convey("A terminal decision locks the record", func() {
			_, err := svc.Decide(ctx, "resp-00", model.RoleBootcamp, status.Accepted)
			So(err, ShouldBeNil)

			_, err = svc.Decide(ctx, "resp-00", model.RoleBootcamp, status.Denied)
			So(errors.Is(err, fault.ErrConflict), ShouldBeTrue)

			Convey("Unless the administrative override is used", func() {
				rec, err := svc.OverrideStatus(ctx, "resp-00", model.RoleBootcamp, status.UnderReview, "staff-1")
				So(err, ShouldBeNil)
				So(rec.Status, ShouldEqual, status.UnderReview)
			})
		})

		Convey("Rejecting all undecided denies every non-terminal record", func() {
			_, err := svc.Decide(ctx, "resp-01", model.RoleBootcamp, status.Waitlisted)
			So(err, ShouldBeNil)

			denied, err := svc.RejectAllUndecided(ctx, testFormID)
			So(err, ShouldBeNil)
			So(denied, ShouldEqual, 2)

			rec, err := svc.Status(ctx, "resp-00", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(rec.Status, ShouldEqual, status.Denied)

			rec, err = svc.Status(ctx, "resp-01", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(rec.Status, ShouldEqual, status.Waitlisted)
		})
	})
}

func TestPublicStatus(t *testing.T) {
	ctx := context.Background()

	Convey("Given a waitlisted application", t, func() {
		svc := newTestService(2)
		submitN(ctx, svc, 1)
		_, err := svc.Decide(ctx, "resp-00", model.RoleBootcamp, status.Waitlisted)
		So(err, ShouldBeNil)

		Convey("Before release the view is the opaque placeholder", func() {
			v, err := svc.PublicStatus(ctx, "resp-00", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, "decided")
			So(v.Released, ShouldBeFalse)
		})

		Convey("After release the true status is shown", func() {
			So(svc.SetDecisionsReleased(ctx, testFormID, true), ShouldBeNil)

			v, err := svc.PublicStatus(ctx, "resp-00", model.RoleBootcamp)
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, "Waitlisted")
			So(v.Released, ShouldBeTrue)
		})
	})
}
