package taxonomy

import (
	"errors"
	"strings"
	"testing"

	"lorehub/pkg/models"
)

func TestBuildFactionGrouping(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Order", "Void"}},
		{ID: "b", Slug: "b", Name: "Bram", Factions: []string{"Void"}},
	}

	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(set.Factions) != 2 {
		t.Fatalf("factions length = %d, want 2", len(set.Factions))
	}
	if set.Factions[0].Name != "Void" || set.Factions[0].MemberCount != 2 {
		t.Errorf("factions[0] = %q (%d members), want Void with 2",
			set.Factions[0].Name, set.Factions[0].MemberCount)
	}
	if set.Factions[1].Name != "Order" || set.Factions[1].MemberCount != 1 {
		t.Errorf("factions[1] = %q (%d members), want Order with 1",
			set.Factions[1].Name, set.Factions[1].MemberCount)
	}
	if set.Factions[0].Type != models.TaxonomyFaction {
		t.Errorf("entry type = %q, want %q", set.Factions[0].Type, models.TaxonomyFaction)
	}
}

func TestBuildMemberDedup(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void", "Void"}},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := set.Factions[0].MemberCount; got != 1 {
		t.Errorf("member count = %d, want 1 (deduplicated by id)", got)
	}
	if got := len(set.Factions[0].Members); got != set.Factions[0].MemberCount {
		t.Errorf("members length = %d, member_count = %d; must agree",
			got, set.Factions[0].MemberCount)
	}
}

func TestBuildOrderingTieBreak(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"zephyr", "Aurora"}},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if set.Factions[0].Name != "Aurora" || set.Factions[1].Name != "zephyr" {
		t.Errorf("tie break order = [%q, %q], want case-insensitive name ascending",
			set.Factions[0].Name, set.Factions[1].Name)
	}
}

func TestBuildLocationAndTimelineExclusion(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", PrimaryLocation: "Skyhold", Era: "First Dawn"},
		{ID: "b", Slug: "b", Name: "Bram"}, // no location, no era
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(set.Locations) != 1 || set.Locations[0].MemberCount != 1 {
		t.Errorf("locations = %+v, want single Skyhold entry with one member", set.Locations)
	}
	if len(set.Timelines) != 1 {
		t.Fatalf("timelines length = %d, want 1", len(set.Timelines))
	}
	if set.Timelines[0].Era != "First Dawn" {
		t.Errorf("timeline era = %q, want %q", set.Timelines[0].Era, "First Dawn")
	}
}

func TestBuildPowerGrouping(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Powers: []models.Power{{Name: "Flight", Level: 5}, {Name: "Storm", Level: 3}}},
		{ID: "b", Slug: "b", Name: "Bram", Powers: []models.Power{{Name: "Flight", Level: 9}}},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(set.Powers) != 2 {
		t.Fatalf("powers length = %d, want 2", len(set.Powers))
	}
	if set.Powers[0].Name != "Flight" || set.Powers[0].MemberCount != 2 {
		t.Errorf("powers[0] = %q (%d), want Flight with 2 members",
			set.Powers[0].Name, set.Powers[0].MemberCount)
	}
}

func TestBuildPrimaryImageFallback(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void"}, Gallery: []string{"aria-1.jpg"}},
		{ID: "b", Slug: "b", Name: "Bram", Factions: []string{"Void"}, Cover: "bram.jpg"},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	// No member cover before Bram's, so his cover wins over Aria's gallery.
	if got := set.Factions[0].PrimaryImage; got != "bram.jpg" {
		t.Errorf("primary image = %q, want bram.jpg (cover beats gallery)", got)
	}
}

func TestBuildInvariantViolations(t *testing.T) {
	tests := []struct {
		name  string
		chars []models.Character
	}{
		{
			name: "duplicate id",
			chars: []models.Character{
				{ID: "a", Slug: "a1", Name: "One"},
				{ID: "a", Slug: "a2", Name: "Two"},
			},
		},
		{
			name: "duplicate slug",
			chars: []models.Character{
				{ID: "a", Slug: "same", Name: "One"},
				{ID: "b", Slug: "same", Name: "Two"},
			},
		},
		{
			name: "negative power level",
			chars: []models.Character{
				{ID: "a", Slug: "a", Name: "One", Powers: []models.Power{{Name: "Broken", Level: -1}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.chars)
			if !errors.Is(err, models.ErrInvariantViolation) {
				t.Errorf("Build error = %v, want ErrInvariantViolation", err)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Void Keepers", "the-void-keepers"},
		{"  Order of Dawn!  ", "order-of-dawn"},
		{"Neo--Tokyo / District 9", "neo-tokyo-district-9"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlugSuffix(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void!", "Void?"}},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	slugs := map[string]bool{}
	for _, e := range set.Factions {
		if slugs[e.Slug] {
			t.Fatalf("duplicate slug %q within one dimension", e.Slug)
		}
		slugs[e.Slug] = true
	}
	if !slugs["void"] || !slugs["void-2"] {
		t.Errorf("slugs = %v, want void and void-2", slugs)
	}
}

func TestSummaryTruncation(t *testing.T) {
	long := strings.Repeat("every word counts here ", 20) // well over 240 chars
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void"}, LongDesc: long},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	summary := set.Factions[0].Summary
	if !strings.HasSuffix(summary, "…") {
		t.Errorf("summary %q should end with ellipsis", summary)
	}
	if n := len([]rune(summary)); n > summaryLimit+1 {
		t.Errorf("summary length = %d runes, want <= %d plus ellipsis", n, summaryLimit)
	}
	if strings.Contains(summary, "\n") {
		t.Error("summary must be collapsed to a single line")
	}
}

func TestSummaryPrefersLongDesc(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void"}, ShortDesc: "short take"},
		{ID: "b", Slug: "b", Name: "Bram", Factions: []string{"Void"}, LongDesc: "long take"},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	// First member with any text wins; Aria only has a short description.
	if got := set.Factions[0].Summary; got != "short take" {
		t.Errorf("summary = %q, want %q", got, "short take")
	}
}

func TestSnippets(t *testing.T) {
	sentence := func(n int) string {
		return strings.Repeat("x", n)
	}
	long := strings.Join([]string{
		"Too short",                      // dropped: under 40
		sentence(50),                     // kept
		strings.ToUpper(sentence(50)),    // dropped: case-insensitive duplicate
		sentence(200),                    // dropped: over 180
		sentence(60) + " trailing words", // kept
		sentence(70) + " another one",    // kept
		sentence(80) + " fourth",         // dropped: already have three
	}, ". ")

	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Void"}, LongDesc: long},
	}
	set, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	got := set.Factions[0].Snippets
	if len(got) != 3 {
		t.Fatalf("snippets length = %d, want 3; got %q", len(got), got)
	}
	for _, s := range got {
		n := len([]rune(s))
		if n < snippetMinLen || n > snippetMaxLen {
			t.Errorf("snippet length %d outside [%d, %d]: %q", n, snippetMinLen, snippetMaxLen, s)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	chars := []models.Character{
		{ID: "a", Slug: "a", Name: "Aria", Factions: []string{"Order", "Void"}, Era: "First Dawn"},
		{ID: "b", Slug: "b", Name: "Bram", Factions: []string{"Void"}, PrimaryLocation: "Skyhold"},
	}
	first, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := Build(chars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for i := range first.Factions {
		if first.Factions[i].Slug != second.Factions[i].Slug {
			t.Errorf("faction order differs between rebuilds at %d: %q vs %q",
				i, first.Factions[i].Slug, second.Factions[i].Slug)
		}
	}
}
