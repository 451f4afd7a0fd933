// Package feed implements the pure feed pipeline: merging the candidate
// pool, personalization filtering, tag and trending aggregation, and the
// query/sort engine.
//
// Everything here is a synchronous function over in-memory slices; state
// (profile, saves, ledger) is passed in by the caller.
package feed

import (
	"math"
	"sort"
	"strings"

	"github.com/bonyoongoo/campusfeed/internal/domain/model"
)

// Mode selects how the candidate pool is narrowed.
type Mode string

// View modes.
const (
	ModeAll          Mode = "all"
	ModePersonalized Mode = "personalized"
)

// Sort selects the feed ordering.
type Sort string

// Sort modes. SortTrending is the default.
const (
	SortTrending Sort = "trending"
	SortDate     Sort = "date"
)

// Default aggregate sizes.
const (
	TagCloudSize = 10
	TrendingSize = 3
)

// Merge combines custom events with catalog events, custom first so fresh
// submissions surface at the top. No id deduplication happens across the
// two sources; a colliding id is the caller's problem.
func Merge(custom, catalog []model.Event) []model.Event {
	merged := make([]model.Event, 0, len(custom)+len(catalog))
	merged = append(merged, custom...)
	merged = append(merged, catalog...)
	return merged
}

// Personalize narrows pool by the user profile. ModeAll is the identity,
// and so is a personalized request without a profile: missing
// personalization degrades to show-everything rather than erroring.
// No date-based filtering is applied in either mode; past events stay
// visible.
func Personalize(pool []model.Event, profile *model.Profile, mode Mode) []model.Event {
	if mode != ModePersonalized || profile == nil {
		return pool
	}
	out := make([]model.Event, 0, len(pool))
	for _, e := range pool {
		facultyOK := e.Faculty == "" || e.Faculty == model.FacultyAll || e.Faculty == profile.Faculty
		if facultyOK && anyTag(e, profile.Interests) {
			out = append(out, e)
		}
	}
	return out
}

// TagCount is one tag-cloud entry.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCloud counts tag occurrences across pool and returns the top n by
// count descending. Equal counts order lexicographically so the output is
// reproducible.
func TagCloud(pool []model.Event, n int) []TagCount {
	counts := make(map[string]int)
	for _, e := range pool {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	cloud := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		cloud = append(cloud, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(cloud, func(i, j int) bool {
		if cloud[i].Count != cloud[j].Count {
			return cloud[i].Count > cloud[j].Count
		}
		return cloud[i].Tag < cloud[j].Tag
	})
	if len(cloud) > n {
		cloud = cloud[:n]
	}
	return cloud
}

// TrendingEntry pairs an event with its save count.
type TrendingEntry struct {
	Event model.Event `json:"event"`
	Count int         `json:"count"`
}

// Trending intersects the positive entries of the save-count ledger with
// events present in pool and returns the top n by count descending, ties
// broken lexicographically by id.
func Trending(pool []model.Event, ledger map[string]int, n int) []TrendingEntry {
	if len(ledger) == 0 || len(pool) == 0 {
		return nil
	}
	byID := make(map[string]model.Event, len(pool))
	for _, e := range pool {
		byID[e.ID] = e
	}
	var entries []TrendingEntry
	for id, count := range ledger {
		if count <= 0 {
			continue
		}
		if e, ok := byID[id]; ok {
			entries = append(entries, TrendingEntry{Event: e, Count: count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Event.ID < entries[j].Event.ID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Query is one pass of the query/sort engine.
type Query struct {
	Level  model.Level // empty = no level filter
	Tags   []string    // empty = tag filter inactive
	Search string      // whitespace-tokenized, all tokens must match
	Sort   Sort        // SortTrending when empty
}

// Apply runs the fixed pipeline: level filter, tag filter, free-text
// search, then sort. savedIDs feeds the trending sort's saved-first
// partition; both sorts are stable over the input order.
func Apply(pool []model.Event, q Query, savedIDs []string) []model.Event {
	out := make([]model.Event, 0, len(pool))
	tokens := searchTokens(q.Search)
	for _, e := range pool {
		if q.Level != model.LevelUnknown && e.Level != q.Level {
			continue
		}
		if len(q.Tags) > 0 && !anyTag(e, q.Tags) {
			continue
		}
		if !matchesTokens(e, tokens) {
			continue
		}
		out = append(out, e)
	}

	switch q.Sort {
	case SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			return startOrder(out[i]) < startOrder(out[j])
		})
	default: // SortTrending
		saved := make(map[string]bool, len(savedIDs))
		for _, id := range savedIDs {
			saved[id] = true
		}
		sort.SliceStable(out, func(i, j int) bool {
			return saved[out[i].ID] && !saved[out[j].ID]
		})
	}
	return out
}

// startOrder maps a start instant onto a sortable integer; events without
// one sort last.
func startOrder(e model.Event) int64 {
	if e.Start == nil {
		return math.MaxInt64
	}
	return e.Start.UnixNano()
}

// searchTokens splits a query into lowercase tokens; a blank query yields
// none and matches everything.
func searchTokens(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

// matchesTokens reports whether every token appears somewhere in the
// event's searchable text.
func matchesTokens(e model.Event, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	hay := strings.ToLower(strings.Join(append([]string{
		e.Title, e.Description, e.Organizer, e.Location,
	}, e.Tags...), " "))
	for _, tok := range tokens {
		if !strings.Contains(hay, tok) {
			return false
		}
	}
	return true
}

// anyTag reports whether the event's tag set intersects tags.
func anyTag(e model.Event, tags []string) bool {
	for _, t := range tags {
		if e.HasTag(strings.ToLower(t)) {
			return true
		}
	}
	return false
}
