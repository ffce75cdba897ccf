package onboarding

import "github.com/sahilm/fuzzy"

type catalogSource []CatalogEntry

func (c catalogSource) String(i int) string { return c[i].Name }
func (c catalogSource) Len() int            { return len(c) }

// Filter returns the catalog entries whose names fuzzy-match query, best
// match first. An empty query returns the whole catalog in display order.
func Filter(query string) []CatalogEntry {
	if query == "" {
		return append([]CatalogEntry(nil), Catalog...)
	}
	matches := fuzzy.FindFrom(query, catalogSource(Catalog))
	out := make([]CatalogEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, Catalog[m.Index])
	}
	return out
}
