package service

import (
	"sort"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
)

// sameAuthorLimit caps the same-author tier per favorite author.
const sameAuthorLimit = 3

// Recommender ranks catalog entries against a set of favorites. It keeps no
// per-request state and is safe for concurrent use.
type Recommender struct {
	classifier *Classifier
}

func NewRecommender(c *Classifier) *Recommender {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Recommender{classifier: c}
}

// Recommend returns at most topN entries with distinct titles, never one of
// the favorites.
func (r *Recommender) Recommend(cat *model.Catalog, favorites []model.Entry, topN int) []model.Entry {
	ranked := r.Rank(cat, favorites, topN)
	out := make([]model.Entry, len(ranked))
	for i, rec := range ranked {
		out[i] = rec.Entry
	}
	return out
}

// Rank is Recommend with the tier that placed each entry.
//
// Order: up to three books per favorite author, then books in the favorites'
// genres split into Indian, Tamil and foreign tiers (topN each). When that
// yields fewer than topN distinct titles the three tiers are rerun over the
// rest of the catalog regardless of genre. Every tier sorts by average rating
// then rating count, both descending, keeping catalog order on ties.
func (r *Recommender) Rank(cat *model.Catalog, favorites []model.Entry, topN int) []model.Recommendation {
	if cat.Len() == 0 || topN < 1 {
		return nil
	}
	entries := cat.Entries

	indian := make([]bool, len(entries))
	tamil := make([]bool, len(entries))
	for i, e := range entries {
		indian[i] = r.classifier.IsIndian(e.Author)
		tamil[i] = r.classifier.IsTamil(e.Author)
	}

	excluded := make(map[int]bool, len(favorites))
	genres := make(map[string]bool, len(favorites))
	var authors []string
	seenAuthor := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		excluded[f.ID] = true
		if !seenAuthor[f.Author] {
			seenAuthor[f.Author] = true
			authors = append(authors, f.Author)
		}
		if f.Genre != "" {
			genres[f.Genre] = true
		}
	}

	var ranked []model.Recommendation
	placed := make(map[int]bool)
	add := func(idx []int, tier string, backfill bool) {
		for _, i := range idx {
			ranked = append(ranked, model.Recommendation{Entry: entries[i], Tier: tier, Backfill: backfill})
			placed[i] = true
		}
	}

	for _, a := range authors {
		var pool []int
		for i, e := range entries {
			if e.Author == a && !excluded[i] {
				pool = append(pool, i)
			}
		}
		add(topRated(entries, pool, sameAuthorLimit), model.TierSameAuthor, false)
	}

	var pool []int
	for i, e := range entries {
		if genres[e.Genre] && !excluded[i] && !placed[i] {
			pool = append(pool, i)
		}
	}
	r.addOriginTiers(entries, pool, indian, tamil, topN, false, add)

	// Counted after title dedupe, not on the raw tiers, so duplicates in the
	// genre tiers cannot leave the list short of topN.
	if len(dedupeTitles(ranked)) < topN {
		var rest []int
		for i := range entries {
			if !excluded[i] && !placed[i] {
				rest = append(rest, i)
			}
		}
		r.addOriginTiers(entries, rest, indian, tamil, topN, true, add)
	}

	out := dedupeTitles(ranked)
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// addOriginTiers appends the Indian (non-Tamil), Tamil and foreign (non-Indian)
// slices of pool. A Tamil author missing from the Indian list lands in both
// the Tamil and foreign tiers; title dedupe keeps the first.
func (r *Recommender) addOriginTiers(entries []model.Entry, pool []int, indian, tamil []bool, n int, backfill bool, add func([]int, string, bool)) {
	var in, ta, fo []int
	for _, i := range pool {
		if indian[i] && !tamil[i] {
			in = append(in, i)
		}
		if tamil[i] {
			ta = append(ta, i)
		}
		if !indian[i] {
			fo = append(fo, i)
		}
	}
	add(topRated(entries, in, n), model.TierIndian, backfill)
	add(topRated(entries, ta, n), model.TierTamil, backfill)
	add(topRated(entries, fo, n), model.TierForeign, backfill)
}

// topRated returns up to n indexes ordered by rating then count, descending.
// idx must be in catalog order so the stable sort keeps it on ties.
func topRated(entries []model.Entry, idx []int, n int) []int {
	out := make([]int, len(idx))
	copy(out, idx)
	sort.SliceStable(out, func(a, b int) bool {
		ea, eb := entries[out[a]], entries[out[b]]
		if ea.AverageRating != eb.AverageRating {
			return ea.AverageRating > eb.AverageRating
		}
		return ea.NumberOfRatings > eb.NumberOfRatings
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// dedupeTitles keeps the first occurrence of each title.
func dedupeTitles(in []model.Recommendation) []model.Recommendation {
	seen := make(map[string]bool, len(in))
	out := make([]model.Recommendation, 0, len(in))
	for _, rec := range in {
		if seen[rec.Entry.Title] {
			continue
		}
		seen[rec.Entry.Title] = true
		out = append(out, rec)
	}
	return out
}
