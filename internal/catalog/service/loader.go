package service

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
	"github.com/Abinayasri1011/noolsakaa/internal/fileio"
	"github.com/Abinayasri1011/noolsakaa/internal/utils"
)

// LoadReader parses a tabular stream (format chosen from name) into a catalog.
// It does not touch the Loader cache.
func LoadReader(r io.Reader, name string, headerRow int) (*model.Catalog, error) {
	tbl, err := fileio.ReadAny(r, name, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return BuildCatalog(tbl, name)
}

// BuildCatalog maps a parsed table onto the catalog schema. A missing title,
// author or genre column is a *model.SchemaError; optional columns default
// to neutral values and every other column is kept in Entry.Extra.
func BuildCatalog(tbl *fileio.Table, source string) (*model.Catalog, error) {
	idx := newHeaderIndex(tbl.Headers)

	keys := make(map[string]string)
	for _, c := range []column{colTitle, colAuthor, colGenre, colRating, colCount, colNationality, colStall, colPublisher} {
		src := idx.resolve(c)
		if src == "" && c.required {
			return nil, &model.SchemaError{Column: c.name, Source: source}
		}
		keys[c.name] = src
	}
	used := make(map[string]bool, len(keys))
	for _, src := range keys {
		if src != "" {
			used[src] = true
		}
	}

	entries := make([]model.Entry, 0, len(tbl.Rows))
	for _, rec := range tbl.Rows {
		e := model.Entry{
			Title:       field(rec, keys[colTitle.name]),
			Author:      field(rec, keys[colAuthor.name]),
			Genre:       field(rec, keys[colGenre.name]),
			Nationality: field(rec, keys[colNationality.name]),
			StallNumber: raw(rec, keys[colStall.name]),
			Publisher:   raw(rec, keys[colPublisher.name]),
		}
		if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Author) == "" {
			continue
		}
		if v, ok := utils.ParseFloat(field(rec, keys[colRating.name])); ok && v > 0 {
			e.AverageRating = utils.Round2(v)
		}
		if v, ok := utils.ParseFloat(field(rec, keys[colCount.name])); ok && v > 0 {
			e.NumberOfRatings = clampCount(v)
		}
		for _, h := range tbl.Headers {
			if used[h] {
				continue
			}
			if e.Extra == nil {
				e.Extra = make(map[string]string)
			}
			e.Extra[h] = rec[h]
		}
		entries = append(entries, e)
	}

	cols := make([]string, len(tbl.Headers))
	copy(cols, tbl.Headers)
	return NewCatalog(source, cols, entries), nil
}

// NewCatalog assigns positional IDs and the lowercase match projections.
func NewCatalog(source string, columns []string, entries []model.Entry) *model.Catalog {
	for i := range entries {
		entries[i].ID = i
		entries[i].TitleLower = strings.ToLower(strings.TrimSpace(entries[i].Title))
		entries[i].AuthorLower = strings.ToLower(strings.TrimSpace(entries[i].Author))
	}
	return &model.Catalog{Source: source, Columns: columns, Entries: entries}
}

// field returns the cleaned value of an interpreted column.
func field(rec map[string]string, key string) string {
	return fileio.CleanCell(raw(rec, key))
}

// raw returns a passthrough value as read.
func raw(rec map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return rec[key]
}

// clampCount truncates a positive count, saturating at math.MaxInt.
func clampCount(v float64) int {
	if v >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(v)
}
