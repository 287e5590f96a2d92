// Package score turns a character record into a single integer rank used by
// the duel simulator.
package score

import (
	"math"
	"regexp"

	"lorehub/internal/origin"
	"lorehub/pkg/models"
)

// eliteBonus is added once when any tag marks the character as a headliner.
const eliteBonus = 3

var eliteRe = regexp.MustCompile(`(?i)legend|mythic|prime|leader`)

// Rank computes the character's integer rank:
//
//	round((sum of power levels + elite bonus + metrics average) * origin multiplier)
//
// Strictly pure (identical records rank identically) and never below 1,
// so a record with no data still produces a usable fighter.
func Rank(c models.Character) int {
	powerTotal := 0
	for _, p := range c.Powers {
		powerTotal += p.Level
	}

	elite := 0
	for _, t := range c.Tags {
		if eliteRe.MatchString(t) {
			elite = eliteBonus
			break
		}
	}

	avg := 0.0
	if c.Metrics != nil {
		avg = c.Metrics.AverageLevel
	}

	raw := (float64(powerTotal) + float64(elite) + avg) * origin.Classify(c).Multiplier
	r := int(math.Round(raw))
	if math.IsNaN(raw) || r < 1 {
		return 1
	}
	return r
}
