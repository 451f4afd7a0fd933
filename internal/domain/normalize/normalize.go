// Package normalize converts heterogeneous raw event records into the
// canonical Event shape.
//
// Normalization is total: any missing or malformed field degrades to a
// documented default and never produces an error. It is also idempotent,
// including generated ids, so reloading the same catalog yields the same
// events every time.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/google/uuid"
)

// Defaults used when a source field is absent.
const (
	defaultTitle         = "Untitled Event"
	descriptionSeparator = " · "
)

// idNamespace seeds the deterministic fallback id. Records without an id
// get a SHA1-based UUID over their stable fields instead of a random one,
// so the id survives repeated normalization of the same source list.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // uuid.NameSpaceDNS

// synonyms expands a derived tag into additional canonical tags. The raw
// token is always kept; expansions are unioned in after it.
var synonyms = map[string][]string{
	"data science":            {"ai"},
	"machine learning":        {"ai"},
	"ml":                      {"ai"},
	"artificial intelligence": {"ai"},
	"fintech":                 {"finance"},
	"coding":                  {"swe"},
	"programming":             {"swe"},
	"software":                {"swe"},
	"web development":         {"swe"},
	"startup":                 {"entrepreneurship"},
	"startups":                {"entrepreneurship"},
	"pitch":                   {"entrepreneurship"},
	"hack":                    {"hackathon"},
	"hackcamp":                {"hackathon"},
	"bootcamp":                {"workshop"},
	"mixer":                   {"networking"},
}

// difficulty vocabulary, matched case-insensitively as substrings.
var difficultyLevels = []struct {
	needle string
	level  model.Level
}{
	{"easy", model.LevelBeginner},
	{"medium", model.LevelIntermediate},
	{"hard", model.LevelAdvanced},
}

// timeLayouts accepted for start/end instants, most specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Record converts one raw source record at position index into a canonical
// Event. It never fails.
func Record(raw model.RawRecord, index int) model.Event {
	title := firstString(raw, "title", "name")
	start := firstTime(raw, "start", "startDate", "date", "when")
	end := firstTime(raw, "end", "endDate")

	e := model.Event{
		ID:          recordID(raw, title, start, index),
		Title:       title,
		Description: description(raw),
		Faculty:     firstString(raw, "faculty"),
		Tags:        Tags(raw),
		Level:       level(raw),
		Start:       start,
		End:         end,
		Location:    firstString(raw, "location", "venue"),
		URL:         firstString(raw, "url", "link"),
		Organizer:   firstString(raw, "organizer", "host"),
		Raw:         raw,
	}
	if e.Title == "" {
		e.Title = defaultTitle
	}
	return e
}

// Records normalizes a whole catalog, preserving source order.
func Records(raws []model.RawRecord) []model.Event {
	events := make([]model.Event, 0, len(raws))
	for i, raw := range raws {
		events = append(events, Record(raw, i))
	}
	return events
}

// recordID keeps a source-supplied id and otherwise derives a stable one
// from title, start, and the record's position in the source list.
func recordID(raw model.RawRecord, title string, start *time.Time, index int) string {
	if id := firstString(raw, "id"); id != "" {
		return id
	}
	seed := title
	if start != nil {
		seed += "|" + start.UTC().Format(time.RFC3339)
	}
	seed += "|" + fmt.Sprint(index)
	return uuid.NewSHA1(idNamespace, []byte(seed)).String()
}

// Tags derives the deduplicated, insertion-ordered tag set of a record.
//
// Category-like fields (array or scalar) and the slash-delimited type
// string each contribute tokens; every token is lowercased, trimmed, and
// run through the synonym expansion table.
func Tags(raw model.RawRecord) []string {
	var tokens []string
	for _, key := range []string{"tags", "category", "categories"} {
		tokens = append(tokens, stringValues(raw[key])...)
	}
	if typ := firstString(raw, "type"); typ != "" {
		tokens = append(tokens, strings.Split(typ, "/")...)
	}

	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	for _, tok := range tokens {
		tag := cleanToken(tok)
		add(tag)
		for _, exp := range synonyms[tag] {
			add(exp)
		}
	}
	return tags
}

// cleanToken lowercases, trims, and collapses internal whitespace.
func cleanToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// level prefers an already-canonical level field, then falls back to the
// difficulty vocabulary. Unmappable input stays LevelUnknown so callers can
// tell "unknown" apart from an explicit beginner.
func level(raw model.RawRecord) model.Level {
	if lvl := model.ParseLevel(firstString(raw, "level")); lvl != model.LevelUnknown {
		return lvl
	}
	difficulty := strings.ToLower(firstString(raw, "difficulty"))
	if difficulty == "" {
		return model.LevelUnknown
	}
	for _, dl := range difficultyLevels {
		if strings.Contains(difficulty, dl.needle) {
			return dl.level
		}
	}
	return model.LevelUnknown
}

// description uses the source description when present and otherwise
// synthesizes one from the secondary fields. The result is empty only when
// every source is absent.
func description(raw model.RawRecord) string {
	if desc := firstString(raw, "description", "summary"); desc != "" {
		return desc
	}
	var parts []string
	if typ := strings.TrimSpace(firstString(raw, "type")); typ != "" {
		parts = append(parts, typ)
	}
	if price := scalarString(raw["price"]); price != "" {
		if !strings.HasPrefix(price, "$") && price != "free" && price != "Free" {
			price = "$" + price
		}
		parts = append(parts, price)
	}
	if deadline := firstString(raw, "deadline"); deadline != "" {
		parts = append(parts, "Deadline: "+deadline)
	}
	return strings.Join(parts, descriptionSeparator)
}

// firstString returns the first non-empty scalar among keys, stringified.
func firstString(raw model.RawRecord, keys ...string) string {
	for _, key := range keys {
		if s := scalarString(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

// scalarString renders a JSON scalar as a trimmed string. Arrays, objects,
// and nulls render empty.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	case bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// stringValues flattens an array-or-scalar value into a string slice.
func stringValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	default:
		if s := scalarString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// firstTime parses the first parseable instant among keys.
func firstTime(raw model.RawRecord, keys ...string) *time.Time {
	for _, key := range keys {
		s := scalarString(raw[key])
		if s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return &ts
			}
		}
	}
	return nil
}
