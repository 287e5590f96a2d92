// Package duel implements the interactive half of the engine: random pair
// selection, the three-swing duel simulation, and the faction arena.
//
// Every function takes an explicit *rand.Rand so callers control the stream:
// a seeded generator reproduces a duel exactly, a crypto-seeded one keeps
// the arena fresh per session.
package duel

import (
	"fmt"
	"math"
	"math/rand"

	"lorehub/internal/score"
	"lorehub/pkg/models"
)

// Simulation constants. Each fighter starts at 100 health; per swing the two
// offenses (rank plus a luck perturbation) are reduced by the opposing
// shield and the surviving deltas share a fixed damage budget.
const (
	Swings         = 3
	ShieldFraction = 0.35
	DamageScale    = 48
	LuckSpan       = 0.18
)

// Simulate runs a full duel between c1 and c2 and returns the structured
// result. Health is monotonically non-increasing per fighter, the log always
// holds exactly Swings entries, and the outcome depends only on the two
// records and the PRNG stream.
func Simulate(rng *rand.Rand, c1, c2 models.Character) models.DuelResult {
	s1 := score.Rank(c1)
	s2 := score.Rank(c2)

	h1, h2 := 100, 100
	logs := make([]models.SwingLog, 0, Swings)

	for i := 1; i <= Swings; i++ {
		maxBase := maxInt(s1, s2, 1)

		luck1 := luck(rng, maxBase)
		luck2 := luck(rng, maxBase)

		off1 := float64(s1 + luck1)
		off2 := float64(s2 + luck2)
		shield1 := float64(s1) * ShieldFraction
		shield2 := float64(s2) * ShieldFraction

		delta1 := math.Max(0, off1-shield2)
		delta2 := math.Max(0, off2-shield1)
		combined := math.Max(1, delta1+delta2)

		dmgTo2 := int(math.Round(delta1 / combined * DamageScale))
		dmgTo1 := int(math.Round(delta2 / combined * DamageScale))

		h2 = maxInt(0, h2-dmgTo2)
		h1 = maxInt(0, h1-dmgTo1)

		logs = append(logs, models.SwingLog{Swing: i, H1: h1, H2: h2})
	}

	var c1Wins bool
	switch {
	case h1 != h2:
		c1Wins = h1 > h2
	case s1 != s2:
		c1Wins = s1 > s2
	default:
		c1Wins = rng.Intn(2) == 0
	}

	winner, loser, wh := c2, c1, h2
	if c1Wins {
		winner, loser, wh = c1, c2, h1
	}

	return models.DuelResult{
		Winner: winner,
		Loser:  loser,
		H1:     h1,
		H2:     h2,
		Logs:   logs,
		Narrative: fmt.Sprintf("%s outlasts %s after %d swings, standing at %d health.",
			winner.Name, loser.Name, Swings, wh),
	}
}

// luck samples the swing perturbation: round(uniform(-1,1) * LuckSpan * base).
func luck(rng *rand.Rand, base int) int {
	u := rng.Float64()*2 - 1
	return int(math.Round(u * LuckSpan * float64(base)))
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
