// Package domain holds what the four database domains share: slug
// conventions and the display-title derivation used when an entry has
// no explicit title.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TitleFromSlug derives a display title from a slug:
// "bayesian-filters" becomes "Bayesian Filters".
func TitleFromSlug(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}

// Title returns the entry's explicit title, falling back to the slug
// derivation.
func Title(slug string, entry map[string]any) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := entry[key].(string); ok && s != "" {
			return s
		}
	}
	return TitleFromSlug(slug)
}
