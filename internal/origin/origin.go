// Package origin classifies characters into an origin tier with a numeric
// power multiplier, based on the free text attached to the record.
package origin

import (
	"regexp"
	"strings"

	"lorehub/pkg/models"
)

// Origin is the classification result: a tier label and the multiplier the
// scorer applies on top of the raw power totals.
type Origin struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// tier is one row of the ordered classification table. The first tier whose
// buffer pattern matches the concatenated text wins; a tier with an era
// pattern also matches on the era field alone. Only the Divine tier
// carries an era pattern.
type tier struct {
	label      string
	multiplier float64
	buffer     *regexp.Regexp
	era        *regexp.Regexp
}

var tiers = []tier{
	{"Divine", 1.55, regexp.MustCompile(`god|deity|celestial|primordial`), regexp.MustCompile(`old gods|ancient`)},
	{"Alien", 1.28, regexp.MustCompile(`alien|extraterrestrial|cosmic`), nil},
	{"Mythic", 1.22, regexp.MustCompile(`demon|spirit|ethereal|angel|occult`), nil},
	{"Enhanced", 1.14, regexp.MustCompile(`meta|mutant|enhanced|super`), nil},
}

// legend is the default tier when nothing in the table matches.
var legend = Origin{Label: "Legend", Multiplier: 1.06}

// Classify maps a character to its origin tier. Pure and total: missing
// fields contribute nothing to the buffer and the default tier is Legend.
func Classify(c models.Character) Origin {
	buffer := textBuffer(c)
	era := strings.ToLower(c.Era)

	for _, t := range tiers {
		if t.buffer.MatchString(buffer) {
			return Origin{Label: t.label, Multiplier: t.multiplier}
		}
		if t.era != nil && era != "" && t.era.MatchString(era) {
			return Origin{Label: t.label, Multiplier: t.multiplier}
		}
	}
	return legend
}

// textBuffer concatenates the classifiable free-text fields, lowercased.
func textBuffer(c models.Character) string {
	parts := make([]string, 0, len(c.Tags)+len(c.Aliases)+2)
	parts = append(parts, c.Tags...)
	parts = append(parts, c.Aliases...)
	parts = append(parts, c.LongDesc, c.ShortDesc)
	return strings.ToLower(strings.Join(parts, " "))
}
