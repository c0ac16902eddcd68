package core

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewCSVReader returns a lenient CSV reader over r. A leading UTF-8 byte
// order mark is dropped and invalid UTF-8 sequences are replaced with
// U+FFFD instead of failing the read.
func NewCSVReader(r io.Reader) *csv.Reader {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // rows may be ragged
	cr.LazyQuotes = true
	return cr
}
