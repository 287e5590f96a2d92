package duel

import (
	"math/rand"
	"strings"
	"testing"

	"lorehub/pkg/models"
)

func TestResolveFactionDuelEqualWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	left := models.TaxonomyEntry{Slug: "void", Name: "Void", MemberCount: 4}
	right := models.TaxonomyEntry{Slug: "order", Name: "Order", MemberCount: 4}

	const trials = 10000
	leftWins := 0
	for i := 0; i < trials; i++ {
		res := ResolveFactionDuel(rng, left, right)
		if res.Winner.Slug == "void" {
			leftWins++
		}
	}

	ratio := float64(leftWins) / trials
	if ratio < 0.45 || ratio > 0.55 {
		t.Errorf("equal weights win ratio = %.3f, want ~0.5", ratio)
	}
}

func TestResolveFactionDuelSkewedWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	big := models.TaxonomyEntry{Slug: "legion", Name: "Legion", MemberCount: 9}
	small := models.TaxonomyEntry{Slug: "duo", Name: "Duo", MemberCount: 1}

	const trials = 10000
	bigWins := 0
	for i := 0; i < trials; i++ {
		if ResolveFactionDuel(rng, big, small).Winner.Slug == "legion" {
			bigWins++
		}
	}

	ratio := float64(bigWins) / trials
	if ratio < 0.85 || ratio > 0.95 {
		t.Errorf("9:1 weights win ratio = %.3f, want ~0.9", ratio)
	}
}

func TestResolveFactionDuelEmptyEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	left := models.TaxonomyEntry{Slug: "ghosts", Name: "Ghosts"}
	right := models.TaxonomyEntry{Slug: "echoes", Name: "Echoes"}

	res := ResolveFactionDuel(rng, left, right)
	if res.Winner.Slug != "ghosts" && res.Winner.Slug != "echoes" {
		t.Errorf("winner = %q, want one of the two entries", res.Winner.Slug)
	}
}

func TestResolveFactionDuelNarrative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	left := models.TaxonomyEntry{Slug: "void", Name: "Void", MemberCount: 2}
	right := models.TaxonomyEntry{Slug: "order", Name: "Order", MemberCount: 2}

	res := ResolveFactionDuel(rng, left, right)
	if !strings.Contains(res.Narrative, res.Winner.Name) ||
		!strings.Contains(res.Narrative, res.Loser.Name) ||
		!strings.Contains(res.Narrative, "LoreMaker stage") {
		t.Errorf("narrative %q missing expected phrasing", res.Narrative)
	}
}
