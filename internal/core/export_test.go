package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWriteCSV_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty export wrote %q, want nothing", buf.String())
	}
}

func TestWriteCSV_Format(t *testing.T) {
	r := testRecord("SN1", "Laptop, 15\"", "12.50", "2024-3-5")
	r.ID = 42

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []Record{r, {ID: 43}}); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(ExportHeader(), ",") {
		t.Errorf("header = %v", rows[0])
	}

	idx := MakeHeaderIndex(rows[0])
	checks := map[string]string{
		"id":          "42",
		"serial_no":   "SN1",
		"label":       `Laptop, 15"`,
		"price":       "12.50",
		"record_date": "2024-03-05",
		"brand":       "",
	}
	for col, want := range checks {
		if got := rows[1][idx[col]]; got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}

	for i, cell := range rows[2][1:] {
		if cell != "" {
			t.Errorf("null record column %s = %q, want empty", ExportHeader()[i+1], cell)
		}
	}
}

func TestExportQuery(t *testing.T) {
	tests := []struct {
		keyword   string
		wantOrder Order
		wantEmpty bool
	}{
		{"", OrderCatalog, true},
		{"  ", OrderCatalog, true},
		{"*", OrderRecent, true},
		{"lap", OrderRecent, false},
	}
	for _, tt := range tests {
		q := ExportQuery(tt.keyword)
		if q.Order != tt.wantOrder {
			t.Errorf("ExportQuery(%q).Order = %v, want %v", tt.keyword, q.Order, tt.wantOrder)
		}
		if q.Filter.Empty() != tt.wantEmpty {
			t.Errorf("ExportQuery(%q) filter empty = %v, want %v", tt.keyword, q.Filter.Empty(), tt.wantEmpty)
		}
		if q.Limit != 0 {
			t.Errorf("ExportQuery(%q) must not paginate", tt.keyword)
		}
	}
}

func TestServiceExport_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewService(&recordingStore{}).Export(context.Background(), &buf, "nothing")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("n = %d, body = %q; want empty", n, buf.String())
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	r := testRecord("SN1", "Laptop", "1299.990", "2024-01-05")
	r.ID = 7

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid JSON %s: %v", b, err)
	}
	if got["id"] != float64(7) {
		t.Errorf("id = %v", got["id"])
	}
	if got["price"] != "1299.990" {
		t.Errorf("price = %#v, want string with scale kept", got["price"])
	}
	if got["record_date"] != "2024-01-05" {
		t.Errorf("record_date = %v", got["record_date"])
	}
	if v, ok := got["brand"]; !ok || v != nil {
		t.Errorf("brand = %v, present %v; want explicit null", v, ok)
	}
	if len(got) != len(Fields)+1 {
		t.Errorf("got %d keys, want %d", len(got), len(Fields)+1)
	}

	if !bytes.HasPrefix(b, []byte(`{"id":7,"serial_no":"SN1","record_date":"2024-01-05"`)) {
		t.Errorf("keys out of column order: %s", b)
	}
}

func TestFieldFormat_Decimal(t *testing.T) {
	price := mustField(t, "price")
	r := Record{Price: decimal.NewNullDecimal(decimal.RequireFromString("100"))}
	if got, ok := price.Format(&r); !ok || got != "100" {
		t.Errorf("Format = %q, %v", got, ok)
	}
	r.Price = decimal.NullDecimal{}
	if _, ok := price.Format(&r); ok {
		t.Error("null price should not format")
	}
}
