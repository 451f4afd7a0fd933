// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// Level classifies how much prior experience an event expects.
// The zero value means the source gave no usable signal; callers must
// treat it as "unknown", not as LevelBeginner.
type Level string

// Canonical levels.
const (
	LevelUnknown      Level = ""
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel maps a free-form string onto the canonical vocabulary.
// Anything else comes back as LevelUnknown.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBeginner:
		return LevelBeginner
	case LevelIntermediate:
		return LevelIntermediate
	case LevelAdvanced:
		return LevelAdvanced
	default:
		return LevelUnknown
	}
}

// FacultyAll is the sentinel meaning an event targets every faculty.
const FacultyAll = "All"

// RawRecord is a heterogeneous source record as decoded from the
// catalog JSON. It is kept opaque on the Event for traceability and is
// never interpreted again after normalization.
type RawRecord = map[string]any

// Event is the canonical event shape, immutable once normalized.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Faculty     string     `json:"faculty,omitempty"`
	Tags        []string   `json:"tags"`
	Level       Level      `json:"level,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location,omitempty"`
	URL         string     `json:"url,omitempty"`
	Organizer   string     `json:"organizer,omitempty"`
	IsCustom    bool       `json:"isCustom"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Raw         RawRecord  `json:"-"`
}

// HasTag reports whether the event carries tag (tags are stored lowercase).
func (e Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Draft is a user submission before it becomes a custom Event.
type Draft struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Faculty     string     `json:"faculty"`
	Tags        []string   `json:"tags"`
	Level       Level      `json:"level"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location"`
	URL         string     `json:"url,omitempty"`
	Organizer   string     `json:"organizer,omitempty"`
}

// MissingFields returns the names of required fields the draft lacks.
// The order is fixed so validation messages are reproducible.
func (d Draft) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Faculty) == "" {
		missing = append(missing, "faculty")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if d.Start == nil {
		missing = append(missing, "start")
	}
	return missing
}

// Profile validation bounds.
const (
	MinInterests = 2
	MaxInterests = 5
)

// Sentinel kinds for profile validation errors.
var (
	ErrProfileName      = errors.New("profile name must not be empty")
	ErrProfileInterests = errors.New("profile interests must contain 2 to 5 entries")
)

// Profile carries the personalization inputs. A nil *Profile means "no
// personalization available" and filtering degrades to show-everything.
type Profile struct {
	Name      string   `json:"name"`
	Faculty   string   `json:"faculty"`
	Interests []string `json:"interests"`
}

// Validate enforces the profile contract before it is persisted.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProfileName
	}
	if len(p.Interests) < MinInterests || len(p.Interests) > MaxInterests {
		return ErrProfileInterests
	}
	return nil
}
