package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	xls "github.com/extrame/xls"
)

// xlsProbeCols bounds the column scan; Row.LastCol is unreliable on legacy
// workbooks, so width is found by looking for non-empty cells.
const xlsProbeCols = 256

// Legacy exports are either UTF-8 or Western code page.
var xlsCharsets = []string{"utf-8", "windows-1252"}

func readXLS(r io.Reader, headerRow int) (*Table, error) {
	if headerRow < 1 {
		return nil, errors.New("xls: header row is 1-based")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}
	wb, err := openXLS(b)
	if err != nil {
		return nil, err
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		if rows := sheetRows(sheet); len(rows) > 0 {
			return buildTable(rows, headerRow), nil
		}
	}
	return &Table{}, nil
}

func openXLS(b []byte) (*xls.WorkBook, error) {
	var lastErr error
	for _, cs := range xlsCharsets {
		wb, err := xls.OpenReader(bytes.NewReader(b), cs)
		if err == nil && wb != nil {
			return wb, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no workbook")
	}
	return nil, fmt.Errorf("xls: %w", lastErr)
}

// sheetRows returns the sheet as a rectangle as wide as its widest row,
// or nil when every cell is blank.
func sheetRows(sheet *xls.WorkSheet) [][]string {
	last := int(sheet.MaxRow)
	cells := make([][]string, 0, last+1)
	width := 0
	for i := 0; i <= last; i++ {
		var vals []string
		if row := sheet.Row(i); row != nil {
			for j := 0; j < xlsProbeCols; j++ {
				if v := row.Col(j); CleanCell(v) != "" {
					for len(vals) < j {
						vals = append(vals, "")
					}
					vals = append(vals, v)
				}
			}
		}
		if len(vals) > width {
			width = len(vals)
		}
		cells = append(cells, vals)
	}
	if width == 0 {
		return nil
	}
	for i, vals := range cells {
		for len(vals) < width {
			vals = append(vals, "")
		}
		cells[i] = vals
	}
	return cells
}
