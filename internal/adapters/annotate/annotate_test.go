package annotate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bonyoongoo/campusfeed/internal/adapters/annotate"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestHeuristic(t *testing.T) {
	convey.Convey("Given the offline annotator", t, func() {
		ctx := context.Background()
		h := annotate.NewHeuristic()

		convey.Convey("When annotating a beginner workshop", func() {
			out, err := h.Annotate(ctx,
				"Intro to Machine Learning",
				"Learn the basics of machine learning. We build a tiny model together. Bring a laptop.")

			convey.Convey("Then it suggests matching tags in rank order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Tags, convey.ShouldResemble, []string{"ai"})
			})

			convey.Convey("Then the summary keeps the leading sentences", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Summary, convey.ShouldEqual,
					"Learn the basics of machine learning. We build a tiny model together.")
			})

			convey.Convey("Then beginner wording is detected", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Level, convey.ShouldEqual, model.LevelBeginner)
			})
		})

		convey.Convey("When advanced and beginner wording both appear", func() {
			out, err := h.Annotate(ctx, "Advanced Deep Dive", "An intro session too.")

			convey.Convey("Then the advanced hint wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Level, convey.ShouldEqual, model.LevelAdvanced)
			})
		})

		convey.Convey("When the text ties two tags", func() {
			out, err := h.Annotate(ctx, "Founder Mixer", "An evening to meet people.")

			convey.Convey("Then ties break by tag name", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Tags, convey.ShouldResemble, []string{"entrepreneurship", "networking"})
			})
		})

		convey.Convey("When the description is empty", func() {
			out, err := h.Annotate(ctx, "Mystery Event", "")

			convey.Convey("Then a placeholder summary is produced and the gap is named", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Summary, convey.ShouldEqual, "No description provided.")
				convey.So(out.Missing, convey.ShouldResemble, []string{"description"})
			})
		})
	})
}

func TestClient(t *testing.T) {
	convey.Convey("Given a collaborator returning messy output", t, func() {
		ctx := context.Background()
		var gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"summary": "A hands-on session.",
				"tags": ["Go", " AI ", "", "data", "cloud", "web", "infra", "ops", "extra", "more"],
				"level": "expert"
			}`))
		}))
		defer srv.Close()

		convey.Convey("When annotating", func() {
			out, err := annotate.NewClient(srv.URL).Annotate(ctx, "Session", "desc")

			convey.Convey("Then the request is a POST", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(gotMethod, convey.ShouldEqual, http.MethodPost)
			})

			convey.Convey("Then tags are lowercased and clamped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Tags, convey.ShouldResemble,
					[]string{"go", "ai", "data", "cloud", "web", "infra", "ops", "extra"})
			})

			convey.Convey("Then an unknown level falls back to beginner", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Level, convey.ShouldEqual, model.LevelBeginner)
				convey.So(out.Missing, convey.ShouldResemble, []string{})
			})
		})
	})

	convey.Convey("Given a collaborator answering with an error status", t, func() {
		ctx := context.Background()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		convey.Convey("When annotating", func() {
			_, err := annotate.NewClient(srv.URL).Annotate(ctx, "Session", "desc")

			convey.Convey("Then the failure is reported", func() {
				convey.So(errors.Is(err, annotate.ErrAnnotate), convey.ShouldBeTrue)
			})
		})
	})
}

type failingAnnotator struct{}

func (failingAnnotator) Annotate(ctx context.Context, title, description string) (annotate.Annotation, error) {
	return annotate.Annotation{}, annotate.ErrAnnotate
}

func TestFallback(t *testing.T) {
	convey.Convey("Given a failing primary chained with the heuristic", t, func() {
		ctx := context.Background()
		chain := annotate.NewFallback(failingAnnotator{}, annotate.NewHeuristic())

		convey.Convey("When annotating", func() {
			out, err := chain.Annotate(ctx, "Hackathon Kickoff", "A weekend hackathon for all levels.")

			convey.Convey("Then the backup answers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Tags, convey.ShouldContain, "hackathon")
				convey.So(out.Level, convey.ShouldEqual, model.LevelBeginner)
			})
		})
	})
}
