package duel

import (
	"fmt"
	"math/rand"

	"lorehub/pkg/models"
)

// ResolveFactionDuel pits two taxonomy entries against each other with a
// single draw weighted by member count. Empty entries still carry weight 1
// so a lone faction always has a fighting chance.
func ResolveFactionDuel(rng *rand.Rand, left, right models.TaxonomyEntry) models.FactionDuelResult {
	w1 := float64(maxInt(1, left.MemberCount))
	w2 := float64(maxInt(1, right.MemberCount))

	winner, loser := left, right
	if r := rng.Float64() * (w1 + w2); r > w1 {
		winner, loser = right, left
	}

	return models.FactionDuelResult{
		Winner: winner,
		Loser:  loser,
		Narrative: fmt.Sprintf("%s orchestrate a decisive maneuver, outclassing %s on the LoreMaker stage.",
			winner.Name, loser.Name),
	}
}
