package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bonyoongoo/campusfeed/internal/adapters/http/api"
	"github.com/bonyoongoo/campusfeed/internal/app"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/bonyoongoo/campusfeed/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixedSource struct{ records []map[string]any }

func (s fixedSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	return s.records, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := app.New(app.WithSource(fixedSource{records: []map[string]any{
		{"id": "evt-ai", "title": "Intro to ML", "tags": []any{"ml"}, "faculty": "Science", "date": "2026-03-10T18:00:00Z"},
		{"id": "evt-fin", "title": "Finance Mixer", "tags": []any{"fintech"}, "faculty": "Sauder"},
	}}))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return api.NewServer(svc).Router()
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFeedEndpoint(t *testing.T) {
	convey.Convey("Given the API over a loaded service", t, func() {
		router := newTestRouter(t)

		convey.Convey("When requesting the default feed", func() {
			rec := do(router, http.MethodGet, "/feed", "")

			convey.Convey("Then the full view comes back", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var view app.FeedView
				convey.So(json.Unmarshal(rec.Body.Bytes(), &view), convey.ShouldBeNil)
				convey.So(string(view.Mode), convey.ShouldEqual, "all")
				convey.So(view.Events, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When requesting an unknown mode", func() {
			rec := do(router, http.MethodGet, "/feed?mode=bogus", "")

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When requesting an unknown sort", func() {
			rec := do(router, http.MethodGet, "/feed?sort=alphabetical", "")

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When requesting an unknown level", func() {
			rec := do(router, http.MethodGet, "/feed?level=ninja", "")

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When requesting level=all", func() {
			rec := do(router, http.MethodGet, "/feed?level=all", "")

			convey.Convey("Then the level filter stays inactive", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var view app.FeedView
				convey.So(json.Unmarshal(rec.Body.Bytes(), &view), convey.ShouldBeNil)
				convey.So(view.Events, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When filtering by tags", func() {
			rec := do(router, http.MethodGet, "/feed?tags=fintech", "")

			convey.Convey("Then only matching events remain", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var view app.FeedView
				convey.So(json.Unmarshal(rec.Body.Bytes(), &view), convey.ShouldBeNil)
				convey.So(view.Events, convey.ShouldHaveLength, 1)
				convey.So(view.Events[0].ID, convey.ShouldEqual, "evt-fin")
			})
		})
	})
}

func TestEventEndpoints(t *testing.T) {
	convey.Convey("Given the API over a loaded service", t, func() {
		router := newTestRouter(t)

		convey.Convey("When submitting a valid draft with a preview id", func() {
			rec := do(router, http.MethodPost, "/events", `{
				"id": "preview_9", "title": "Pitch Night", "faculty": "Sauder",
				"location": "Henry Angus 241", "start": "2026-03-20T18:00:00Z",
				"tags": ["Entrepreneurship"]
			}`)

			convey.Convey("Then the event is created with a minted id", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
				var event model.Event
				convey.So(json.Unmarshal(rec.Body.Bytes(), &event), convey.ShouldBeNil)
				convey.So(event.ID, convey.ShouldStartWith, "cust_")
				convey.So(event.IsCustom, convey.ShouldBeTrue)
				convey.So(event.Tags, convey.ShouldResemble, []string{"entrepreneurship"})
			})
		})

		convey.Convey("When submitting an incomplete draft", func() {
			rec := do(router, http.MethodPost, "/events", `{"description": "no essentials"}`)

			convey.Convey("Then validation fails with the missing field names", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusUnprocessableEntity)
				var resp struct {
					Code    string   `json:"code"`
					Missing []string `json:"missing"`
				}
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp.Code, convey.ShouldEqual, "missing_fields")
				convey.So(resp.Missing, convey.ShouldResemble, []string{"title", "faculty", "location", "start"})
			})
		})

		convey.Convey("When fetching one event", func() {
			convey.Convey("Then a known id comes back", func() {
				rec := do(router, http.MethodGet, "/events/evt-ai", "")
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var event model.Event
				convey.So(json.Unmarshal(rec.Body.Bytes(), &event), convey.ShouldBeNil)
				convey.So(event.Title, convey.ShouldEqual, "Intro to ML")
			})

			convey.Convey("Then an unknown id is a 404", func() {
				rec := do(router, http.MethodGet, "/events/nope", "")
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When toggling a save twice", func() {
			first := do(router, http.MethodPost, "/events/evt-ai/save", "")
			second := do(router, http.MethodPost, "/events/evt-ai/save", "")

			convey.Convey("Then the second toggle undoes the first", func() {
				convey.So(first.Code, convey.ShouldEqual, http.StatusOK)
				var on, off struct {
					ID    string `json:"id"`
					Saved bool   `json:"saved"`
					Count int    `json:"count"`
				}
				convey.So(json.Unmarshal(first.Body.Bytes(), &on), convey.ShouldBeNil)
				convey.So(json.Unmarshal(second.Body.Bytes(), &off), convey.ShouldBeNil)
				convey.So(on.Saved, convey.ShouldBeTrue)
				convey.So(on.Count, convey.ShouldEqual, 1)
				convey.So(off.Saved, convey.ShouldBeFalse)
				convey.So(off.Count, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When listing saved events with none saved", func() {
			rec := do(router, http.MethodGet, "/saved", "")

			convey.Convey("Then an empty array is returned, not null", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.TrimSpace(rec.Body.String()), convey.ShouldEqual, "[]")
			})
		})

		convey.Convey("When withdrawing a published event", func() {
			created := do(router, http.MethodPost, "/events", `{
				"id": "club-1", "title": "Info Session", "faculty": "Science",
				"location": "ICCS 110", "start": "2026-03-20T18:00:00Z"
			}`)
			convey.So(created.Code, convey.ShouldEqual, http.StatusCreated)

			rec := do(router, http.MethodDelete, "/events/club-1", "")

			convey.Convey("Then it is gone", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNoContent)
				lookup := do(router, http.MethodGet, "/events/club-1", "")
				convey.So(lookup.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestProfileEndpoints(t *testing.T) {
	convey.Convey("Given the API over a loaded service", t, func() {
		router := newTestRouter(t)

		convey.Convey("When no profile exists", func() {
			rec := do(router, http.MethodGet, "/profile", "")

			convey.Convey("Then a null body is returned with 200", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.TrimSpace(rec.Body.String()), convey.ShouldEqual, "null")
			})
		})

		convey.Convey("When saving a valid profile", func() {
			rec := do(router, http.MethodPut, "/profile", `{
				"name": "Alex", "faculty": "Science", "interests": ["ai", "swe"]
			}`)

			convey.Convey("Then it is echoed back and readable", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

				got := do(router, http.MethodGet, "/profile", "")
				convey.So(got.Code, convey.ShouldEqual, http.StatusOK)
				var p model.Profile
				convey.So(json.Unmarshal(got.Body.Bytes(), &p), convey.ShouldBeNil)
				convey.So(p.Name, convey.ShouldEqual, "Alex")
			})

			convey.Convey("And deleting it restores the null state", func() {
				del := do(router, http.MethodDelete, "/profile", "")
				convey.So(del.Code, convey.ShouldEqual, http.StatusNoContent)

				got := do(router, http.MethodGet, "/profile", "")
				convey.So(strings.TrimSpace(got.Body.String()), convey.ShouldEqual, "null")
			})
		})

		convey.Convey("When saving a profile with too few interests", func() {
			rec := do(router, http.MethodPut, "/profile", `{
				"name": "Alex", "faculty": "Science", "interests": ["ai"]
			}`)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestAnnotateEndpoint(t *testing.T) {
	convey.Convey("Given the API over a loaded service", t, func() {
		router := newTestRouter(t)

		convey.Convey("When annotating real submission text", func() {
			rec := do(router, http.MethodPost, "/annotate", `{
				"title": "Hackathon Kickoff",
				"description": "A weekend hackathon for all levels."
			}`)

			convey.Convey("Then the heuristic enrichment is returned", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var out struct {
					Summary string   `json:"summary"`
					Tags    []string `json:"tags"`
					Level   string   `json:"level"`
				}
				convey.So(json.Unmarshal(rec.Body.Bytes(), &out), convey.ShouldBeNil)
				convey.So(out.Tags, convey.ShouldContain, "hackathon")
				convey.So(out.Level, convey.ShouldEqual, "beginner")
			})
		})

		convey.Convey("When both fields are blank", func() {
			rec := do(router, http.MethodPost, "/annotate", `{"title": " ", "description": ""}`)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	convey.Convey("Given the API over a loaded service", t, func() {
		router := newTestRouter(t)

		convey.Convey("When probing health", func() {
			rec := do(router, http.MethodGet, "/healthz", "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When scraping metrics", func() {
			rec := do(router, http.MethodGet, "/metrics", "")

			convey.Convey("Then the registry is exposed", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, "campusfeed_feed_queries_total")
			})
		})

		convey.Convey("When reading stats", func() {
			rec := do(router, http.MethodGet, "/stats", "")

			convey.Convey("Then counts are reported", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var stats map[string]any
				convey.So(json.Unmarshal(rec.Body.Bytes(), &stats), convey.ShouldBeNil)
				convey.So(stats["catalogEvents"], convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When forcing a refresh", func() {
			rec := do(router, http.MethodPost, "/refresh", "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}
