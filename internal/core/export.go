package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportHeader returns the CSV header written by WriteCSV.
func ExportHeader() []string {
	return append([]string{"id"}, Columns()...)
}

// WriteCSV writes records as CSV in the order given. Nulls are empty
// cells, dates use ExportDateLayout and prices keep their scale. No
// records means no output at all, not even a header.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	header := ExportHeader()
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i := range records {
		r := &records[i]
		row[0] = strconv.FormatInt(r.ID, 10)
		for j, f := range Fields {
			row[j+1], _ = f.Format(r)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportQuery selects what Export writes for keyword: everything in label
// order when empty, everything in search order for the wildcard, and the
// keyword matches in search order otherwise.
func ExportQuery(keyword string) Query {
	keyword = strings.TrimSpace(keyword)
	switch keyword {
	case "":
		return Query{Order: OrderCatalog}
	default:
		return Query{Filter: KeywordFilter(keyword), Order: OrderRecent}
	}
}

// Export writes the records selected by keyword to w and returns how many
// were written.
func (s *Service) Export(ctx context.Context, w io.Writer, keyword string) (int, error) {
	p, err := s.store.Query(ctx, ExportQuery(keyword))
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := WriteCSV(w, p.Records); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return len(p.Records), nil
}

// MarshalJSON encodes r as an object keyed by column name, in table
// order. Dates use ExportDateLayout and the price is a string so no
// precision is lost.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"id":`)
	b.WriteString(strconv.FormatInt(r.ID, 10))

	for _, f := range Fields {
		b.WriteString(`,"`)
		b.WriteString(f.Name)
		b.WriteString(`":`)

		v, ok := f.Format(&r)
		if !ok {
			b.WriteString("null")
			continue
		}
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		b.Write(enc)
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}
