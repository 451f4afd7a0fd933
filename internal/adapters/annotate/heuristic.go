package annotate

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/bonyoongoo/campusfeed/pkg/metrics"
)

// Heuristic output limits.
const (
	heuristicMaxTags      = 5
	heuristicMaxSentences = 2
)

// tagKeywords scores candidate tags by keyword hits in the raw text.
var tagKeywords = map[string][]string{
	"ai":               {"ai", "artificial intelligence", "machine learning", "ml", "llm", "prompt", "computer vision", "nlp", "deep learning"},
	"finance":          {"finance", "fintech", "investment", "stocks", "trading", "portfolio", "quant", "valuation"},
	"swe":              {"software", "coding", "programming", "developer", "engineer", "web", "app", "fullstack", "frontend", "backend", "api"},
	"entrepreneurship": {"startup", "founder", "pitch", "vc", "accelerator", "incubator", "entrepreneurship", "ideation"},
	"workshop":         {"workshop", "hands-on", "tutorial", "lab", "bootcamp"},
	"hackathon":        {"hackathon", "hackcamp", "code sprint", "coding marathon"},
	"networking":       {"networking", "mixer", "meet and greet", "coffee chat"},
}

// levelHints order matters: advanced wording wins over intermediate, which
// wins over beginner.
var levelHints = []struct {
	level model.Level
	words []string
}{
	{model.LevelAdvanced, []string{"advanced", "deep dive", "graduate", "research", "theory-heavy", "rigorous"}},
	{model.LevelIntermediate, []string{"intermediate", "some experience", "prior experience", "prerequisite", "familiar with"}},
	{model.LevelBeginner, []string{"intro", "101", "no experience", "all levels", "getting started", "basics", "for everyone", "new to"}},
}

var sentencePattern = regexp.MustCompile(`[^.?!]+[.?!]?`)

// Heuristic is the offline Annotator: keyword scoring over the raw text.
// It backs the submission flow when the external collaborator is down.
type Heuristic struct{}

// NewHeuristic creates the offline annotator.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Annotate implements Annotator. It never fails.
func (h *Heuristic) Annotate(ctx context.Context, title, description string) (Annotation, error) {
	text := title + " " + description
	return Annotation{
		Summary: summarize(description),
		Tags:    suggestTags(text),
		Level:   detectLevel(text),
		Missing: missingText(title, description),
	}, nil
}

// missingText names the blank halves of the submission text.
func missingText(title, description string) []string {
	missing := []string{}
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

// summarize keeps the leading sentences of the description.
func summarize(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return "No description provided."
	}
	sentences := sentencePattern.FindAllString(collapsed, heuristicMaxSentences)
	for i, s := range sentences {
		sentences[i] = strings.TrimSpace(s)
	}
	out := strings.Join(sentences, " ")
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "?") && !strings.HasSuffix(out, "!") {
		out += "."
	}
	return out
}

// suggestTags ranks tags by keyword hit count, ties broken by name, and
// keeps only tags that scored at all.
func suggestTags(text string) []string {
	t := strings.ToLower(text)
	scores := make(map[string]int, len(tagKeywords))
	for tag, words := range tagKeywords {
		for _, w := range words {
			if strings.Contains(t, w) {
				scores[tag]++
			}
		}
	}
	ranked := make([]string, 0, len(scores))
	for tag := range scores {
		ranked = append(ranked, tag)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > heuristicMaxTags {
		ranked = ranked[:heuristicMaxTags]
	}
	return ranked
}

// detectLevel scans for wording hints; with none it stays optimistic.
func detectLevel(text string) model.Level {
	t := strings.ToLower(text)
	for _, hint := range levelHints {
		for _, w := range hint.words {
			if strings.Contains(t, w) {
				return hint.level
			}
		}
	}
	return model.LevelBeginner
}

// Fallback chains a primary Annotator with a backup, typically the remote
// client backed by the heuristic.
type Fallback struct {
	primary Annotator
	backup  Annotator
}

// NewFallback creates a chained annotator.
func NewFallback(primary, backup Annotator) *Fallback {
	return &Fallback{primary: primary, backup: backup}
}

// Annotate implements Annotator.
func (f *Fallback) Annotate(ctx context.Context, title, description string) (Annotation, error) {
	out, err := f.primary.Annotate(ctx, title, description)
	if err == nil {
		return out, nil
	}
	metrics.RecordAnnotateFallback()
	return f.backup.Annotate(ctx, title, description)
}
