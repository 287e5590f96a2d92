package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name to its URL-safe form: lowercase, runs of
// non-alphanumerics collapsed to a single dash, no leading/trailing dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug reserves slug in used, suffixing a counter when distinct names
// collapse to the same slug. Entries within one dimension must never share
// a slug.
func UniqueSlug(used map[string]int, slug string) string {
	if slug == "" {
		slug = "entry"
	}
	n, taken := used[slug]
	if !taken {
		used[slug] = 1
		return slug
	}
	used[slug] = n + 1
	return fmt.Sprintf("%s-%d", slug, n+1)
}
