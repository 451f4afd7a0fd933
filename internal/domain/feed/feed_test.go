package feed_test

import (
	"testing"
	"time"

	"github.com/bonyoongoo/campusfeed/internal/domain/feed"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestMerge(t *testing.T) {
	convey.Convey("Given custom and catalog events", t, func() {
		custom := []model.Event{{ID: "c1", IsCustom: true}, {ID: "c2", IsCustom: true}}
		catalog := []model.Event{{ID: "k1"}, {ID: "k2"}}

		convey.Convey("When merging", func() {
			merged := feed.Merge(custom, catalog)

			convey.Convey("Then custom events come first in source order", func() {
				convey.So(ids(merged), convey.ShouldResemble, []string{"c1", "c2", "k1", "k2"})
			})
		})

		convey.Convey("When both sources share an id", func() {
			merged := feed.Merge([]model.Event{{ID: "dup"}}, []model.Event{{ID: "dup"}})

			convey.Convey("Then both entries survive; collisions are the caller's problem", func() {
				convey.So(merged, convey.ShouldHaveLength, 2)
			})
		})
	})
}

func TestPersonalize(t *testing.T) {
	pool := []model.Event{
		{ID: "a", Faculty: "Science", Tags: []string{"ai"}},
		{ID: "b", Faculty: "Sauder", Tags: []string{"finance"}},
		{ID: "c", Faculty: model.FacultyAll, Tags: []string{"ai", "workshop"}},
		{ID: "d", Tags: []string{"networking"}},
		{ID: "e", Faculty: "Science", Tags: []string{"swe"}},
	}
	profile := &model.Profile{Name: "Alex", Faculty: "Science", Interests: []string{"ai", "networking"}}

	convey.Convey("Given a candidate pool and a profile", t, func() {
		convey.Convey("When mode is all", func() {
			out := feed.Personalize(pool, profile, feed.ModeAll)

			convey.Convey("Then the pool passes through unchanged", func() {
				convey.So(out, convey.ShouldResemble, pool)
			})
		})

		convey.Convey("When mode is personalized", func() {
			out := feed.Personalize(pool, profile, feed.ModePersonalized)

			convey.Convey("Then only faculty-compatible events with interest overlap remain", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"a", "c", "d"})
			})
		})

		convey.Convey("When mode is personalized but no profile exists", func() {
			out := feed.Personalize(pool, nil, feed.ModePersonalized)

			convey.Convey("Then it degrades to show everything", func() {
				convey.So(out, convey.ShouldResemble, pool)
			})
		})
	})
}

func TestTagCloud(t *testing.T) {
	convey.Convey("Given a pool with overlapping tags", t, func() {
		pool := []model.Event{
			{Tags: []string{"ai", "workshop"}},
			{Tags: []string{"ai", "finance"}},
			{Tags: []string{"workshop"}},
			{Tags: []string{"ai"}},
		}

		convey.Convey("When building the cloud", func() {
			cloud := feed.TagCloud(pool, 10)

			convey.Convey("Then tags rank by count, ties lexicographic", func() {
				convey.So(cloud, convey.ShouldResemble, []feed.TagCount{
					{Tag: "ai", Count: 3},
					{Tag: "workshop", Count: 2},
					{Tag: "finance", Count: 1},
				})
			})
		})

		convey.Convey("When counts tie", func() {
			cloud := feed.TagCloud([]model.Event{
				{Tags: []string{"zeta"}},
				{Tags: []string{"alpha"}},
			}, 10)

			convey.Convey("Then the order is lexicographic for reproducibility", func() {
				convey.So(cloud[0].Tag, convey.ShouldEqual, "alpha")
				convey.So(cloud[1].Tag, convey.ShouldEqual, "zeta")
			})
		})

		convey.Convey("When more tags exist than the cap", func() {
			cloud := feed.TagCloud(pool, 2)

			convey.Convey("Then only the top entries are kept", func() {
				convey.So(cloud, convey.ShouldHaveLength, 2)
			})
		})
	})
}

func TestTrending(t *testing.T) {
	convey.Convey("Given a pool and a save-count ledger", t, func() {
		pool := []model.Event{{ID: "A"}, {ID: "B"}, {ID: "C"}}

		convey.Convey("When the ledger has positive counts for pool members", func() {
			entries := feed.Trending(pool, map[string]int{"A": 5, "C": 2, "X": 9}, 3)

			convey.Convey("Then only pool members rank, by count descending", func() {
				convey.So(entries, convey.ShouldHaveLength, 2)
				convey.So(entries[0].Event.ID, convey.ShouldEqual, "A")
				convey.So(entries[0].Count, convey.ShouldEqual, 5)
				convey.So(entries[1].Event.ID, convey.ShouldEqual, "C")
			})
		})

		convey.Convey("When counts tie", func() {
			entries := feed.Trending(pool, map[string]int{"C": 2, "A": 2, "B": 2}, 3)

			convey.Convey("Then ids break the tie lexicographically", func() {
				convey.So(entries[0].Event.ID, convey.ShouldEqual, "A")
				convey.So(entries[1].Event.ID, convey.ShouldEqual, "B")
				convey.So(entries[2].Event.ID, convey.ShouldEqual, "C")
			})
		})

		convey.Convey("When the ledger is empty", func() {
			convey.So(feed.Trending(pool, nil, 3), convey.ShouldBeNil)
		})
	})
}

func TestApply(t *testing.T) {
	convey.Convey("Given the query pipeline", t, func() {
		pool := []model.Event{
			{ID: "ml", Tags: []string{"ai"}, Description: "Hands-on workshop"},
			{ID: "fin", Tags: []string{"finance"}, Description: "Workshop on markets"},
		}

		convey.Convey("When searching for 'ai workshop'", func() {
			out := feed.Apply(pool, feed.Query{Search: "ai workshop"}, nil)

			convey.Convey("Then every token must match somewhere", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"ml"})
			})
		})

		convey.Convey("When the search is blank", func() {
			out := feed.Apply(pool, feed.Query{Search: "   "}, nil)

			convey.Convey("Then everything matches", func() {
				convey.So(out, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When filtering by level", func() {
			levelled := []model.Event{
				{ID: "b", Level: model.LevelBeginner},
				{ID: "u"},
				{ID: "a", Level: model.LevelAdvanced},
			}
			out := feed.Apply(levelled, feed.Query{Level: model.LevelBeginner}, nil)

			convey.Convey("Then unknown levels do not pass as beginner", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"b"})
			})
		})

		convey.Convey("When filtering by tags", func() {
			out := feed.Apply(pool, feed.Query{Tags: []string{"finance", "swe"}}, nil)

			convey.Convey("Then any overlap keeps the event", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"fin"})
			})
		})
	})
}

func TestSorting(t *testing.T) {
	convey.Convey("Given events with and without start instants", t, func() {
		pool := []model.Event{
			{ID: "late", Start: ts("2026-05-01T10:00:00Z")},
			{ID: "none1"},
			{ID: "early", Start: ts("2026-01-01T10:00:00Z")},
			{ID: "none2"},
			{ID: "mid", Start: ts("2026-03-01T10:00:00Z")},
		}

		convey.Convey("When sorting by date", func() {
			out := feed.Apply(pool, feed.Query{Sort: feed.SortDate}, nil)

			convey.Convey("Then dated events ascend and undated ones sort last, stably", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"early", "mid", "late", "none1", "none2"})
			})
		})
	})

	convey.Convey("Given a saved-ids set", t, func() {
		pool := []model.Event{{ID: "A"}, {ID: "B"}, {ID: "C"}}

		convey.Convey("When sorting by trending", func() {
			out := feed.Apply(pool, feed.Query{Sort: feed.SortTrending}, []string{"C"})

			convey.Convey("Then saved events lead and the rest keep input order", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"C", "A", "B"})
			})
		})

		convey.Convey("When nothing is saved", func() {
			out := feed.Apply(pool, feed.Query{}, nil)

			convey.Convey("Then input order is preserved", func() {
				convey.So(ids(out), convey.ShouldResemble, []string{"A", "B", "C"})
			})
		})
	})
}
