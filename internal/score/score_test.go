package score

import (
	"testing"

	"lorehub/pkg/models"
)

func TestRankDivineElite(t *testing.T) {
	c := models.Character{
		ID:   "titan",
		Tags: []string{"Legend", "Primordial Entity"},
		Powers: []models.Power{
			{Name: "Flight", Level: 10},
			{Name: "Strength", Level: 20},
		},
		Metrics: &models.Metrics{AverageLevel: 5},
	}

	// (30 power + 3 elite + 5 avg) * 1.55 divine = 58.9
	if got := Rank(c); got != 59 {
		t.Errorf("Rank = %d, want 59", got)
	}
}

func TestRankTable(t *testing.T) {
	tests := []struct {
		name string
		char models.Character
		want int
	}{
		{
			name: "empty record floors at one",
			char: models.Character{ID: "nobody"},
			want: 1,
		},
		{
			name: "legend multiplier rounds up",
			char: models.Character{
				ID:     "runner",
				Powers: []models.Power{{Name: "Speed", Level: 10}},
			},
			want: 11, // 10 * 1.06 = 10.6
		},
		{
			name: "elite tag adds three before multiplier",
			char: models.Character{
				ID:     "captain",
				Tags:   []string{"Squad Leader"},
				Powers: []models.Power{{Name: "Tactics", Level: 7}},
			},
			want: 11, // (7 + 3) * 1.06 = 10.6
		},
		{
			name: "metrics average contributes",
			char: models.Character{
				ID:      "sage",
				Metrics: &models.Metrics{AverageLevel: 12},
			},
			want: 13, // 12 * 1.06 = 12.72
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.char); got != tt.want {
				t.Errorf("Rank = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRankPurity(t *testing.T) {
	c := models.Character{
		ID:      "echo",
		Tags:    []string{"mutant", "prime"},
		Powers:  []models.Power{{Name: "Blast", Level: 14}, {Name: "Shield", Level: 6}},
		Metrics: &models.Metrics{AverageLevel: 4.5},
	}
	clone := c
	clone.Powers = append([]models.Power(nil), c.Powers...)
	m := *c.Metrics
	clone.Metrics = &m

	if Rank(c) != Rank(clone) {
		t.Errorf("Rank(c) = %d, Rank(clone) = %d; scorer must be pure", Rank(c), Rank(clone))
	}
}

func TestRankPositivity(t *testing.T) {
	chars := []models.Character{
		{},
		{Powers: []models.Power{{Name: "Null", Level: 0}}},
		{Metrics: &models.Metrics{AverageLevel: 0}},
	}
	for i, c := range chars {
		if got := Rank(c); got < 1 {
			t.Errorf("chars[%d]: Rank = %d, want >= 1", i, got)
		}
	}
}
