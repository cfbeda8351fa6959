package service

import (
	"strings"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
)

// DefaultCutoff is the minimum similarity a fuzzy candidate needs.
const DefaultCutoff = 0.30

// Matcher maps free text to a catalog entry. Tiers are tried in order and
// the first tier with a hit wins: author substring, title substring, fuzzy.
type Matcher struct {
	cutoff float64
}

func NewMatcher(cutoff float64) Matcher {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	return Matcher{cutoff: cutoff}
}

// Resolve matches with the default cutoff.
func Resolve(cat *model.Catalog, query string) (model.Entry, error) {
	return NewMatcher(DefaultCutoff).Resolve(cat, query)
}

// Resolve returns the best entry for query or a *model.NoMatchError.
func (m Matcher) Resolve(cat *model.Catalog, query string) (model.Entry, error) {
	f, err := m.ResolveFavorite(cat, query)
	if err != nil {
		return model.Entry{}, err
	}
	return f.Entry, nil
}

// ResolveFavorite is Resolve plus the tier that produced the hit.
func (m Matcher) ResolveFavorite(cat *model.Catalog, query string) (model.Favorite, error) {
	frag := strings.ToLower(strings.TrimSpace(query))
	if frag == "" || cat.Len() == 0 {
		return model.Favorite{}, &model.NoMatchError{Query: query}
	}

	for _, e := range cat.Entries {
		if strings.Contains(e.AuthorLower, frag) {
			return model.Favorite{Query: query, Entry: e, Method: model.MethodAuthor}, nil
		}
	}
	for _, e := range cat.Entries {
		if strings.Contains(e.TitleLower, frag) {
			return model.Favorite{Query: query, Entry: e, Method: model.MethodTitle}, nil
		}
	}

	best, bestKey, bestScore := -1, "", 0.0
	for i, e := range cat.Entries {
		key := e.MatchKey()
		s := similarity(key, frag)
		if s < m.cutoff {
			continue
		}
		// equal scores go to the lexicographically greater key; identical
		// keys keep the earliest entry
		if best < 0 || s > bestScore || (s == bestScore && key > bestKey) {
			best, bestKey, bestScore = i, key, s
		}
	}
	if best < 0 {
		return model.Favorite{}, &model.NoMatchError{Query: query}
	}
	score := bestScore
	return model.Favorite{Query: query, Entry: cat.Entries[best], Method: model.MethodFuzzy, Score: &score}, nil
}
