// Package ingest pulls character records from external sources and merges
// them into one canonical library before they hit the database.
package ingest

import (
	"context"
	"log"
	"strings"
	"unicode"

	"lorehub/pkg/models"
)

// Source is implemented by each external character feed (local file,
// hosted mirror, ...). Each source fetches its own format and maps it
// into Character.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Character, error)
}

// Aggregator coordinates calls to multiple sources and merges them into a
// single canonical set of characters.
type Aggregator struct {
	Sources []Source
}

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources}
}

// FetchAndMerge fetches all characters from all sources and merges them
// using deterministic conflict resolution rules. A broken source is logged
// and skipped so one outage cannot kill the whole ingest run.
func (a *Aggregator) FetchAndMerge(ctx context.Context) ([]models.Character, error) {
	byKey := make(map[string]models.Character)
	var order []string

	for _, src := range a.Sources {
		log.Printf("[ingest] fetching from %s", src.Name())
		chars, err := src.FetchAll(ctx)
		if err != nil {
			log.Printf("[ingest] source %s error: %v", src.Name(), err)
			continue
		}

		for _, c := range chars {
			key := canonicalKey(c)
			if key == "" {
				continue
			}

			if existing, ok := byKey[key]; ok {
				byKey[key] = mergeCharacter(existing, c)
			} else {
				byKey[key] = c
				order = append(order, key)
			}
		}
	}

	result := make([]models.Character, 0, len(byKey))
	for _, key := range order {
		result = append(result, byKey[key])
	}
	return result, nil
}

// canonicalKey groups entries that represent the same character across
// sources. A normalized name key for now; refine to source ids later if
// two distinct characters ever share a name.
func canonicalKey(c models.Character) string {
	return normalizeKey(c.Name)
}

// normalizeKey converts a string to a canonical form: lowercase, drop
// non-letter/digit runes and compress separators to single spaces.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// mergeCharacter resolves conflicts when two sources describe the same
// character:
//
//   - base keeps its id, slug and name; a differing incoming name joins the aliases
//   - aliases, tags, factions and gallery are set unions
//   - descriptions keep whichever is longer
//   - cover keeps existing, fills from incoming when empty
//   - powers union by name; a power listed twice keeps the higher level
//   - metrics keep the higher average level
func mergeCharacter(base, incoming models.Character) models.Character {
	if incoming.Name != "" && incoming.Name != base.Name {
		base.Aliases = appendIfMissing(base.Aliases, incoming.Name)
	}
	base.Aliases = mergeStringSlices(base.Aliases, incoming.Aliases)
	base.Tags = mergeStringSlices(base.Tags, incoming.Tags)
	base.Factions = mergeStringSlices(base.Factions, incoming.Factions)
	base.Gallery = mergeStringSlices(base.Gallery, incoming.Gallery)

	if len(incoming.ShortDesc) > len(base.ShortDesc) {
		base.ShortDesc = incoming.ShortDesc
	}
	if len(incoming.LongDesc) > len(base.LongDesc) {
		base.LongDesc = incoming.LongDesc
	}

	if base.Cover == "" && incoming.Cover != "" {
		base.Cover = incoming.Cover
	}
	if base.Alignment == "" {
		base.Alignment = incoming.Alignment
	}
	if base.Status == "" {
		base.Status = incoming.Status
	}
	if base.Identity == "" {
		base.Identity = incoming.Identity
	}
	if base.PrimaryLocation == "" {
		base.PrimaryLocation = incoming.PrimaryLocation
	}
	if base.Era == "" {
		base.Era = incoming.Era
	}

	base.Powers = mergePowers(base.Powers, incoming.Powers)

	if incoming.Metrics != nil {
		if base.Metrics == nil || incoming.Metrics.AverageLevel > base.Metrics.AverageLevel {
			m := *incoming.Metrics
			base.Metrics = &m
		}
	}

	return base
}

func mergePowers(a, b []models.Power) []models.Power {
	out := make([]models.Power, 0, len(a)+len(b))
	idx := make(map[string]int, len(a))
	for _, p := range a {
		idx[strings.ToLower(p.Name)] = len(out)
		out = append(out, p)
	}
	for _, p := range b {
		key := strings.ToLower(p.Name)
		if i, ok := idx[key]; ok {
			if p.Level > out[i].Level {
				out[i].Level = p.Level
			}
			continue
		}
		idx[key] = len(out)
		out = append(out, p)
	}
	return out
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

func mergeStringSlices(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		out = appendIfMissing(out, v)
	}
	return out
}
