package fileio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads a CSV file, converting to UTF-8. Book lists exported from
// spreadsheets are often latin-1, so input that is not valid UTF-8 is decoded
// as windows-1252 when chardet is confident about it and as latin-1 otherwise.
func readCSV(r io.Reader, headerRow int) (*Table, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if d := pickDecoder(peek); d != nil {
		dec = transform.NewReader(br, d.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return buildTable(rows, headerRow), nil
}

// pickDecoder returns nil when the sample should be read as UTF-8.
func pickDecoder(sample []byte) encoding.Encoding {
	if len(sample) == 0 {
		return nil
	}
	// Peek may cut a multi-byte rune at the end; only the prefix matters.
	if utf8.Valid(trimPartialRune(sample)) {
		return nil
	}
	cs := ""
	if det, err := chardet.NewTextDetector().DetectBest(sample); err == nil && det != nil && det.Confidence >= 50 {
		cs = strings.ToLower(det.Charset)
	}
	switch cs {
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	default:
		return charmap.ISO8859_1
	}
}

func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}
