package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table is a parsed sheet: header names in source order plus one map per
// non-empty data row.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadAny picks a parser by file extension. headerRow is 1-based.
func ReadAny(r io.Reader, filename string, headerRow int) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// Supported reports whether ReadAny can parse the file.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls", ".csv", ".txt":
		return true
	}
	return false
}

func buildTable(rows [][]string, headerRow int) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	h := pickHeader(rows, headerRow)
	return &Table{Headers: h, Rows: rowsToMaps(rows, h, headerRow)}
}

// pickHeader takes the header row, fills blanks with "Column N" and makes
// repeated names unique.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = CleanCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n := seen[v]; n > 0 {
			seen[v] = n + 1
			v = fmt.Sprintf("%s (%d)", v, n+1)
		} else {
			seen[v] = 1
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts rows below the header into maps, skipping blank rows.
// Cell values are kept as read; callers clean the fields they interpret.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow
	if start < 1 {
		start = 1
	}
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if CleanCell(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

var cellSpaces = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\uFEFF", "")

// CleanCell trims a cell and folds non-breaking spaces; a BOM is dropped.
func CleanCell(s string) string {
	return strings.TrimSpace(cellSpaces.Replace(s))
}
