package models

import (
	"errors"
	"fmt"
)

// Character is the canonical, immutable record for one persona in the
// LoreMaker universe. The ingest layer builds these; everything else
// (taxonomies, scoring, duels) reads them and never mutates.
type Character struct {
	ID              string   `json:"id"`                         // stable unique id (slug-like)
	Slug            string   `json:"slug"`                       // URL-safe, unique
	Name            string   `json:"name"`                       // display name
	Aliases         []string `json:"aliases,omitempty"`          // alternative names
	Cover           string   `json:"cover,omitempty"`            // primary image ref
	Gallery         []string `json:"gallery,omitempty"`          // additional image refs
	Factions        []string `json:"factions"`                   // a character may belong to several
	Tags            []string `json:"tags,omitempty"`             // free-form labels
	Alignment       string   `json:"alignment,omitempty"`        // "hero", "villain", ...
	Status          string   `json:"status,omitempty"`           // "active", "deceased", ...
	Identity        string   `json:"identity,omitempty"`         // "public", "secret", ...
	PrimaryLocation string   `json:"primary_location,omitempty"` // single home location
	Era             string   `json:"era,omitempty"`              // timeline grouping
	ShortDesc       string   `json:"short_desc,omitempty"`
	LongDesc        string   `json:"long_desc,omitempty"`
	Powers          []Power  `json:"powers,omitempty"`
	Metrics         *Metrics `json:"metrics,omitempty"`
}

// Power is one named ability with a non-negative level.
type Power struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Metrics carries optional aggregate stats attached to a character.
type Metrics struct {
	AverageLevel float64 `json:"average_level"`
}

// HasPortrait reports whether the character has any image to show.
func (c Character) HasPortrait() bool {
	if c.Cover != "" {
		return true
	}
	for _, g := range c.Gallery {
		if g != "" {
			return true
		}
	}
	return false
}

// ErrInvariantViolation marks programmer errors in the character library:
// duplicate ids or slugs, negative power levels. These are never recovered;
// callers surface them as-is.
var ErrInvariantViolation = errors.New("library invariant violation")

// ValidateLibrary checks the library-wide invariants. A nil error means the
// library is safe to hand to the taxonomy builder and the duel engine.
func ValidateLibrary(chars []Character) error {
	ids := make(map[string]struct{}, len(chars))
	slugs := make(map[string]struct{}, len(chars))

	for _, c := range chars {
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("%w: duplicate character id %q", ErrInvariantViolation, c.ID)
		}
		ids[c.ID] = struct{}{}

		if c.Slug != "" {
			if _, dup := slugs[c.Slug]; dup {
				return fmt.Errorf("%w: duplicate character slug %q", ErrInvariantViolation, c.Slug)
			}
			slugs[c.Slug] = struct{}{}
		}

		for _, p := range c.Powers {
			if p.Level < 0 {
				return fmt.Errorf("%w: character %q power %q has negative level %d",
					ErrInvariantViolation, c.ID, p.Name, p.Level)
			}
		}
	}
	return nil
}
