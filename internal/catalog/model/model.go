package model

// Entry is one book row of the catalog. ID is the row position and doubles as
// the entry identity.
type Entry struct {
	ID              int               `json:"id"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Genre           string            `json:"genre"`
	AverageRating   float64           `json:"averageRating"`
	NumberOfRatings int               `json:"numberOfRatings"`
	Nationality     string            `json:"nationality,omitempty"`
	StallNumber     string            `json:"stallNumber,omitempty"`
	Publisher       string            `json:"publisher,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"` // remaining columns, verbatim

	TitleLower  string `json:"-"`
	AuthorLower string `json:"-"`
}

// MatchKey is the synthetic "title|author" key used by fuzzy resolution.
func (e Entry) MatchKey() string { return e.TitleLower + "|" + e.AuthorLower }

// Catalog is loaded once per source and shared read-only.
type Catalog struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"` // header order of the source
	Entries []Entry  `json:"-"`
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Match methods, in resolution priority order.
const (
	MethodAuthor = "author"
	MethodTitle  = "title"
	MethodFuzzy  = "fuzzy"
)

// Favorite is a resolved pick together with the raw text that produced it.
type Favorite struct {
	Query  string   `json:"query"`
	Entry  Entry    `json:"entry"`
	Method string   `json:"method"`          // author | title | fuzzy
	Score  *float64 `json:"score,omitempty"` // similarity for fuzzy hits
}

// ByAuthor reports whether the pick named the author rather than a book.
func (f Favorite) ByAuthor() bool { return f.Method == MethodAuthor }

// Ranking tiers, in output order.
const (
	TierSameAuthor = "same_author"
	TierIndian     = "indian"
	TierTamil      = "tamil"
	TierForeign    = "foreign"
)

// Recommendation is a ranked entry and the tier that placed it. Backfill is
// set when the tier ran over the whole catalog instead of the favorite genres.
type Recommendation struct {
	Entry    Entry  `json:"entry"`
	Tier     string `json:"tier"`
	Backfill bool   `json:"backfill,omitempty"`
}
