package duel

import (
	"math/rand"

	"lorehub/pkg/models"
)

// Roster filters accepted by PickPair.
const (
	FilterAll          = "all"
	FilterWithPortrait = "with_portrait"
)

// PairOptions narrows the pool PickPair draws from.
type PairOptions struct {
	Filter    string // FilterAll (default) or FilterWithPortrait
	ExcludeID string // drop one character from the pool, e.g. the current spotlight
}

// PickPair selects an ordered pair of distinct characters uniformly at
// random from the eligible pool. It returns nil when fewer than two
// eligible characters remain; degenerate rosters are the caller's neutral
// state, not an error.
func PickPair(rng *rand.Rand, roster []models.Character, opts PairOptions) []models.Character {
	eligible := make([]models.Character, 0, len(roster))
	for _, c := range roster {
		if opts.ExcludeID != "" && c.ID == opts.ExcludeID {
			continue
		}
		if opts.Filter == FilterWithPortrait && !c.HasPortrait() {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) < 2 {
		return nil
	}

	a := eligible[rng.Intn(len(eligible))]

	// Guard against duplicated ids in the pool: b must differ from a by id,
	// not just by index.
	rest := make([]models.Character, 0, len(eligible)-1)
	for _, c := range eligible {
		if c.ID != a.ID {
			rest = append(rest, c)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	b := rest[rng.Intn(len(rest))]

	return []models.Character{a, b}
}

// PickEntryPair selects two distinct taxonomy entries for a faction duel.
// Entries are distinct by slug. Returns nil when the pool is degenerate.
func PickEntryPair(rng *rand.Rand, entries []models.TaxonomyEntry) []models.TaxonomyEntry {
	if len(entries) < 2 {
		return nil
	}

	a := entries[rng.Intn(len(entries))]
	rest := make([]models.TaxonomyEntry, 0, len(entries)-1)
	for _, e := range entries {
		if e.Slug != a.Slug {
			rest = append(rest, e)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	b := rest[rng.Intn(len(rest))]

	return []models.TaxonomyEntry{a, b}
}
