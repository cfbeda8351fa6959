package service

import (
	"strings"
	"unicode"
)

// column is a semantic field together with the header spellings it accepts.
type column struct {
	name     string
	aliases  []string
	required bool
}

var (
	colTitle       = column{name: "title", aliases: []string{"bookname", "book", "title"}, required: true}
	colAuthor      = column{name: "author", aliases: []string{"author", "authors"}, required: true}
	colGenre       = column{name: "genre", aliases: []string{"genre", "category"}, required: true}
	colRating      = column{name: "average rating", aliases: []string{"averageratings", "averagerating", "avg"}}
	colCount       = column{name: "number of ratings", aliases: []string{"totalratings", "numberofratings", "ratingscount"}}
	colNationality = column{name: "nationality", aliases: []string{"nationality", "country", "origin"}}
	colStall       = column{name: "stall number", aliases: []string{"stallnumber", "stallno", "stall"}}
	colPublisher   = column{name: "publisher", aliases: []string{"publisher"}}
)

// cleanHeader folds case and drops whitespace and underscores so that
// "Book Name", "book_name" and "BOOKNAME" compare equal.
func cleanHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r == '_' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// headerIndex maps cleaned header names to the source spelling. A later
// header wins when two clean to the same key.
type headerIndex map[string]string

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for _, h := range headers {
		idx[cleanHeader(h)] = h
	}
	return idx
}

// resolve returns the source header for the first alias present, or "".
func (h headerIndex) resolve(c column) string {
	for _, a := range c.aliases {
		if src, ok := h[a]; ok {
			return src
		}
	}
	return ""
}
