package service

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
)

const DefaultSuggestLimit = 30

// Options lists every distinct title and author, sorted.
func Options(cat *model.Catalog) []string {
	if cat.Len() == 0 {
		return nil
	}
	set := make(map[string]struct{}, 2*cat.Len())
	for _, e := range cat.Entries {
		set[e.Title] = struct{}{}
		set[e.Author] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Suggest returns autosuggest options for a typed fragment: options that
// contain it come first in sorted order, then subsequence matches ranked by
// fuzzy score, up to limit.
func Suggest(cat *model.Catalog, fragment string, limit int) []string {
	term := strings.ToLower(strings.TrimSpace(fragment))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	opts := Options(cat)
	lower := make([]string, len(opts))
	for i, o := range opts {
		lower[i] = strings.ToLower(o)
	}

	out := make([]string, 0, limit)
	used := make([]bool, len(opts))
	for i, o := range lower {
		if len(out) == limit {
			return out
		}
		if strings.Contains(o, term) {
			out = append(out, opts[i])
			used[i] = true
		}
	}
	for _, m := range fuzzy.Find(term, lower) {
		if len(out) == limit {
			break
		}
		if !used[m.Index] {
			out = append(out, opts[m.Index])
			used[m.Index] = true
		}
	}
	return out
}
