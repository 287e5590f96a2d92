package taxonomy

import (
	"regexp"
	"strings"

	"lorehub/pkg/models"
)

const (
	summaryLimit  = 240
	snippetMinLen = 40
	snippetMaxLen = 180
	maxSnippets   = 3
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// summarize picks the first non-empty description across the roster,
// preferring each member's long description over the short one, collapsed
// to a single line and truncated at a word boundary.
func summarize(members []models.Character) string {
	for _, m := range members {
		text := m.LongDesc
		if text == "" {
			text = m.ShortDesc
		}
		if text == "" {
			continue
		}
		return truncateAtWord(collapseWhitespace(text), summaryLimit)
	}
	return ""
}

// snippets extracts up to three quote-like sentences from the members'
// long descriptions, in roster order, deduplicated case-insensitively.
func snippets(members []models.Character) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, m := range members {
		if m.LongDesc == "" {
			continue
		}
		for _, raw := range sentenceEnd.Split(m.LongDesc, -1) {
			s := collapseWhitespace(raw)
			n := len([]rune(s))
			if n < snippetMinLen || n > snippetMaxLen {
				continue
			}
			key := strings.ToLower(s)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if len(out) == maxSnippets {
				return out
			}
		}
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateAtWord cuts s to at most limit runes, backing up to the previous
// word boundary and appending an ellipsis.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}
