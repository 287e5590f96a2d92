package origin

import (
	"testing"

	"lorehub/pkg/models"
)

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name       string
		char       models.Character
		wantLabel  string
		wantFactor float64
	}{
		{
			name:       "primordial tag is divine",
			char:       models.Character{Tags: []string{"Primordial Entity"}},
			wantLabel:  "Divine",
			wantFactor: 1.55,
		},
		{
			name:       "ancient era alone is divine",
			char:       models.Character{Era: "Ancient Age"},
			wantLabel:  "Divine",
			wantFactor: 1.55,
		},
		{
			name:       "old gods era is divine",
			char:       models.Character{Era: "Dawn of the Old Gods"},
			wantLabel:  "Divine",
			wantFactor: 1.55,
		},
		{
			name:       "cosmic description is alien",
			char:       models.Character{LongDesc: "A cosmic wanderer from beyond the veil."},
			wantLabel:  "Alien",
			wantFactor: 1.28,
		},
		{
			name:       "occult alias is mythic",
			char:       models.Character{Aliases: []string{"The Occult Hand"}},
			wantLabel:  "Mythic",
			wantFactor: 1.22,
		},
		{
			name:       "mutant tag is enhanced",
			char:       models.Character{Tags: []string{"mutant"}},
			wantLabel:  "Enhanced",
			wantFactor: 1.14,
		},
		{
			name:       "plain record defaults to legend",
			char:       models.Character{Name: "Quiet One", ShortDesc: "A wanderer."},
			wantLabel:  "Legend",
			wantFactor: 1.06,
		},
		{
			name:       "empty record defaults to legend",
			char:       models.Character{},
			wantLabel:  "Legend",
			wantFactor: 1.06,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.char)
			if got.Label != tt.wantLabel {
				t.Errorf("Classify label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Multiplier != tt.wantFactor {
				t.Errorf("Classify multiplier = %v, want %v", got.Multiplier, tt.wantFactor)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	// Matches both the Divine and Alien triggers; the table order decides.
	c := models.Character{
		Tags:     []string{"alien"},
		LongDesc: "A deity stranded among the stars.",
	}
	got := Classify(c)
	if got.Label != "Divine" {
		t.Errorf("Classify label = %q, want Divine (table priority)", got.Label)
	}
}

func TestClassifyEraOnlyCountsForDivine(t *testing.T) {
	// An era mentioning aliens must not promote to the Alien tier: only the
	// Divine row consults era.
	c := models.Character{Era: "alien invasion era"}
	got := Classify(c)
	if got.Label != "Legend" {
		t.Errorf("Classify label = %q, want Legend", got.Label)
	}
}
