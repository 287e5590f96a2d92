// Package taxonomy derives the four cross-cut groupings of the character
// library: factions, locations, powers, and timelines. Entries are rebuilt
// wholesale from a library snapshot; the input is small, and immutable
// values are simpler to share than incrementally-updated ones.
package taxonomy

import (
	"sort"
	"strings"

	"lorehub/pkg/models"
)

// Build derives every taxonomy dimension from the library. The only error it
// can return is a library invariant violation (duplicate ids or slugs,
// negative power levels); all missing optional data degrades to empty fields.
//
// Output is fully deterministic: entries are ordered by member count
// descending, ties broken by name ascending case-insensitively, and member
// rosters keep first-seen order deduplicated by id.
func Build(chars []models.Character) (models.TaxonomySet, error) {
	if err := models.ValidateLibrary(chars); err != nil {
		return models.TaxonomySet{}, err
	}

	return models.TaxonomySet{
		Factions: buildDimension(models.TaxonomyFaction, "factions", chars,
			func(c models.Character) []string { return c.Factions }),
		Locations: buildDimension(models.TaxonomyLocation, "primary_location", chars,
			func(c models.Character) []string {
				if c.PrimaryLocation == "" {
					return nil
				}
				return []string{c.PrimaryLocation}
			}),
		Powers: buildDimension(models.TaxonomyPower, "powers", chars,
			func(c models.Character) []string {
				names := make([]string, 0, len(c.Powers))
				for _, p := range c.Powers {
					names = append(names, p.Name)
				}
				return names
			}),
		Timelines: buildDimension(models.TaxonomyTimeline, "era", chars,
			func(c models.Character) []string {
				if c.Era == "" {
					return nil
				}
				return []string{c.Era}
			}),
	}, nil
}

// buildDimension groups characters by the keys function. Characters yielding
// no keys are excluded from the dimension; a character may appear in several
// entries but never twice in one.
func buildDimension(typ, filterKey string, chars []models.Character, keys func(models.Character) []string) []models.TaxonomyEntry {
	order := make([]string, 0)
	groups := make(map[string][]models.Character)
	seen := make(map[string]map[string]struct{})

	for _, c := range chars {
		for _, k := range keys(c) {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
				groups[k] = nil
				seen[k] = make(map[string]struct{})
			}
			if _, dup := seen[k][c.ID]; dup {
				continue
			}
			seen[k][c.ID] = struct{}{}
			groups[k] = append(groups[k], c)
		}
	}

	usedSlugs := make(map[string]int, len(order))
	entries := make([]models.TaxonomyEntry, 0, len(order))
	for _, name := range order {
		members := groups[name]
		e := models.TaxonomyEntry{
			Slug:         UniqueSlug(usedSlugs, Slugify(name)),
			Name:         name,
			Type:         typ,
			FilterKey:    filterKey,
			Members:      members,
			MemberCount:  len(members),
			PrimaryImage: primaryImage(members),
			Summary:      summarize(members),
			Snippets:     snippets(members),
		}
		if typ == models.TaxonomyTimeline {
			e.Era = name
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MemberCount != entries[j].MemberCount {
			return entries[i].MemberCount > entries[j].MemberCount
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}

// primaryImage is the first non-empty cover across the roster; when no
// member has a cover, the first non-empty gallery image stands in.
func primaryImage(members []models.Character) string {
	for _, m := range members {
		if m.Cover != "" {
			return m.Cover
		}
	}
	for _, m := range members {
		if len(m.Gallery) > 0 && m.Gallery[0] != "" {
			return m.Gallery[0]
		}
	}
	return ""
}
