package store

import (
	"strings"
)

// Query filters entries. Zero-value fields are ignored.
type Query struct {
	// Text is matched case-insensitively as a substring of the store's
	// configured searchable fields (and the slug itself).
	Text string

	// Tags requires the entry's "tags" list to contain every listed tag.
	Tags []string

	// Filters requires per-field equality, e.g. {"registry": "pypi"}
	// or {"featured": true}.
	Filters map[string]any
}

// Search returns the entries matching q, ordered by slug.
func (s *Store) Search(q Query) []Item {
	var results []Item
	for _, item := range s.Items() {
		if s.matches(item, q) {
			results = append(results, item)
		}
	}
	return results
}

func (s *Store) matches(item Item, q Query) bool {
	if q.Text != "" && !s.matchesText(item, q.Text) {
		return false
	}
	if len(q.Tags) > 0 && !matchesTags(item.Entry, q.Tags) {
		return false
	}
	for field, want := range q.Filters {
		if !looseEqual(item.Entry[field], want) {
			return false
		}
	}
	return true
}

func (s *Store) matchesText(item Item, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(item.Slug), needle) {
		return true
	}
	for _, field := range s.searchFields {
		value, ok := item.Entry[field].(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// matchesTags requires every wanted tag to be present.
func matchesTags(entry Entry, tags []string) bool {
	entryTags := StringList(entry["tags"])
	if len(entryTags) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(entryTags))
	for _, tag := range entryTags {
		have[tag] = struct{}{}
	}
	for _, want := range tags {
		if _, ok := have[want]; !ok {
			return false
		}
	}
	return true
}

// looseEqual compares a stored JSON value with a filter value,
// tolerating the int/float64 split JSON decoding introduces.
func looseEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == want
	}
	if gf, ok := toFloat(got); ok {
		if wf, ok := toFloat(want); ok {
			return gf == wf
		}
		return false
	}
	return got == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// StringList coerces a decoded JSON value into a []string, returning
// nil for anything that is not a list of strings.
func StringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
