package ingest

import (
	"context"
	"errors"
	"testing"

	"lorehub/pkg/models"
)

type stubSource struct {
	name  string
	chars []models.Character
	err   error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) FetchAll(ctx context.Context) ([]models.Character, error) {
	return s.chars, s.err
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nightowl", "nightowl"},
		{"  Night-Owl!  ", "night owl"},
		{"NIGHT   OWL", "night owl"},
		{"Vex, the Unbound", "vex the unbound"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeCharacterUnionsAndPreferences(t *testing.T) {
	base := models.Character{
		ID:       "nightowl",
		Slug:     "nightowl",
		Name:     "Nightowl",
		Aliases:  []string{"The Owl"},
		Factions: []string{"Wardens"},
		Tags:     []string{"vigilante"},
		LongDesc: "short",
		Powers:   []models.Power{{Name: "Flight", Level: 10}},
		Metrics:  &models.Metrics{AverageLevel: 4},
	}
	incoming := models.Character{
		Name:     "Night Owl",
		Aliases:  []string{"The Owl", "Silent Wing"},
		Factions: []string{"Wardens", "Dusk Court"},
		Cover:    "covers/nightowl.jpg",
		Era:      "Modern Age",
		LongDesc: "a considerably longer description wins the merge",
		Powers:   []models.Power{{Name: "flight", Level: 25}, {Name: "Talons", Level: 5}},
		Metrics:  &models.Metrics{AverageLevel: 9},
	}

	got := mergeCharacter(base, incoming)

	if got.Name != "Nightowl" {
		t.Errorf("merged name = %q, want base name kept", got.Name)
	}
	wantAliases := []string{"The Owl", "Night Owl", "Silent Wing"}
	if len(got.Aliases) != len(wantAliases) {
		t.Fatalf("aliases = %v, want %v", got.Aliases, wantAliases)
	}
	for i, a := range wantAliases {
		if got.Aliases[i] != a {
			t.Errorf("aliases[%d] = %q, want %q", i, got.Aliases[i], a)
		}
	}
	if len(got.Factions) != 2 {
		t.Errorf("factions = %v, want union of 2", got.Factions)
	}
	if got.Cover != "covers/nightowl.jpg" {
		t.Errorf("cover = %q, want filled from incoming", got.Cover)
	}
	if got.Era != "Modern Age" {
		t.Errorf("era = %q, want filled from incoming", got.Era)
	}
	if got.LongDesc != incoming.LongDesc {
		t.Errorf("long desc = %q, want longer one", got.LongDesc)
	}

	if len(got.Powers) != 2 {
		t.Fatalf("powers = %v, want 2 entries", got.Powers)
	}
	if got.Powers[0].Name != "Flight" || got.Powers[0].Level != 25 {
		t.Errorf("powers[0] = %+v, want Flight at level 25", got.Powers[0])
	}
	if got.Metrics == nil || got.Metrics.AverageLevel != 9 {
		t.Errorf("metrics = %+v, want higher average kept", got.Metrics)
	}
}

func TestFetchAndMergeSkipsBrokenSource(t *testing.T) {
	good := stubSource{
		name: "good",
		chars: []models.Character{
			{ID: "vex", Slug: "vex", Name: "Vex"},
			{ID: "ash", Slug: "ash", Name: "Ash"},
		},
	}
	broken := stubSource{name: "broken", err: errors.New("boom")}
	overlap := stubSource{
		name: "overlap",
		chars: []models.Character{
			{Name: "vex!", Tags: []string{"wild"}},
		},
	}

	agg := NewAggregator(good, broken, overlap)
	got, err := agg.FetchAndMerge(context.Background())
	if err != nil {
		t.Fatalf("FetchAndMerge: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("merged %d characters, want 2: %+v", len(got), got)
	}
	// first-seen order is preserved
	if got[0].ID != "vex" || got[1].ID != "ash" {
		t.Errorf("order = [%s %s], want [vex ash]", got[0].ID, got[1].ID)
	}
	if len(got[0].Tags) != 1 || got[0].Tags[0] != "wild" {
		t.Errorf("vex tags = %v, want merged [wild]", got[0].Tags)
	}
}
