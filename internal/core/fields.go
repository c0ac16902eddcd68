package core

// fields.go is the inventory field table. Search, import, export and the
// storage backends all read it; adding a column means adding one row here.

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// FieldKind is the semantic type of a field.
type FieldKind int

const (
	KindIdentifier FieldKind = iota // natural key, text
	KindDate                        // calendar date
	KindDecimal                     // exact decimal
	KindText                        // free text
)

func (k FieldKind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// FieldSpec describes one inventory attribute. Name is the storage column,
// the CSV header, the JSON key and, for prefix fields, the search parameter.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool // header must be present in imported CSV
	Prefix   bool // case-insensitive starts-with filtering and keyword search
	MinParam string
	MaxParam string

	ref func(*Record) any
}

// Ranged reports whether the field accepts range bounds.
func (f FieldSpec) Ranged() bool {
	return f.MinParam != "" || f.MaxParam != ""
}

// Ref returns a pointer to the field inside r: *pgtype.Text, *pgtype.Date
// or *decimal.NullDecimal depending on Kind.
func (f FieldSpec) Ref(r *Record) any {
	return f.ref(r)
}

// Text returns the value of an identifier or text field.
func (f FieldSpec) Text(r *Record) (string, bool) {
	if t, ok := f.ref(r).(*pgtype.Text); ok && t.Valid {
		return t.String, true
	}
	return "", false
}

// Date returns the value of a date field.
func (f FieldSpec) Date(r *Record) (time.Time, bool) {
	if d, ok := f.ref(r).(*pgtype.Date); ok && d.Valid {
		return d.Time, true
	}
	return time.Time{}, false
}

// Decimal returns the value of a decimal field.
func (f FieldSpec) Decimal(r *Record) (decimal.Decimal, bool) {
	if d, ok := f.ref(r).(*decimal.NullDecimal); ok && d.Valid {
		return d.Decimal, true
	}
	return decimal.Decimal{}, false
}

// Format renders the field the way it is exported. ok is false for null.
func (f FieldSpec) Format(r *Record) (string, bool) {
	switch f.Kind {
	case KindDate:
		if t, ok := f.Date(r); ok {
			return t.Format(ExportDateLayout), true
		}
	case KindDecimal:
		if d, ok := f.Decimal(r); ok {
			return FormatDecimal(d), true
		}
	default:
		return f.Text(r)
	}
	return "", false
}

// Set parses raw into the field. Text and date fields never fail (an
// unparsable date becomes null); a decimal that does not parse returns a
// *ValidationError and leaves r unchanged.
func (f FieldSpec) Set(r *Record, raw string) error {
	switch p := f.ref(r).(type) {
	case *pgtype.Text:
		*p = ToPgText(raw)
	case *pgtype.Date:
		*p = ParseDate(raw)
	case *decimal.NullDecimal:
		d, err := ParseDecimal(raw)
		if err != nil {
			return &ValidationError{Field: f.Name, Value: raw, Message: "must be a number"}
		}
		*p = d
	}
	return nil
}

func textRef(get func(*Record) *pgtype.Text) func(*Record) any {
	return func(r *Record) any { return get(r) }
}

func dateRef(get func(*Record) *pgtype.Date) func(*Record) any {
	return func(r *Record) any { return get(r) }
}

// Fields lists every attribute in column order.
var Fields = []FieldSpec{
	{Name: "serial_no", Kind: KindIdentifier, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.SerialNo })},
	{Name: "record_date", Kind: KindDate, Required: true,
		MinParam: "record_date_start", MaxParam: "record_date_end",
		ref: dateRef(func(r *Record) *pgtype.Date { return &r.RecordDate })},
	{Name: "label", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Label })},
	{Name: "type", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Type })},
	{Name: "brand", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Brand })},
	{Name: "model_no", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.ModelNo })},
	{Name: "location", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Location })},
	{Name: "location_2", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Location2 })},
	{Name: "location_3", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Location3 })},
	{Name: "invoice_no", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.InvoiceNo })},
	{Name: "purchase_date", Kind: KindDate, Required: true,
		MinParam: "purchase_date_start", MaxParam: "purchase_date_end",
		ref: dateRef(func(r *Record) *pgtype.Date { return &r.PurchaseDate })},
	{Name: "price", Kind: KindDecimal, Required: true,
		MinParam: "price_min", MaxParam: "price_max",
		ref: func(r *Record) any { return &r.Price }},
	{Name: "maintenance_end_date", Kind: KindDate, Required: true,
		MinParam: "maintenance_date_start", MaxParam: "maintenance_date_end",
		ref: dateRef(func(r *Record) *pgtype.Date { return &r.MaintenanceEndDate })},
	{Name: "specification1", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Specification1 })},
	{Name: "specification2", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Specification2 })},
	{Name: "specification3", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Specification3 })},
	{Name: "project_code", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.ProjectCode })},
	{Name: "department", Kind: KindText, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Department })},
	{Name: "status", Kind: KindText, Required: true, Prefix: true,
		ref: textRef(func(r *Record) *pgtype.Text { return &r.Status })},
}

// Columns returns the column names in table order.
func Columns() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.Name
	}
	return cols
}

// RequiredHeaders returns the headers an imported CSV must carry.
func RequiredHeaders() []string {
	var out []string
	for _, f := range Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// PrefixFields returns the fields matched by keyword search.
func PrefixFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range Fields {
		if f.Prefix {
			out = append(out, f)
		}
	}
	return out
}
