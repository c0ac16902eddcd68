package core

// convert.go turns raw strings from CSV cells, query parameters and JSON
// bodies into field values, and bridges decimals to pgtype.
//
// Dates are lenient: anything that does not match DateLayout is stored as
// null rather than rejected. Decimals are strict: a value that does not
// parse is an error the caller decides how to handle.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ParseDate parses s against DateLayout. Any failure yields an invalid
// date; the error is dropped on purpose.
func ParseDate(s string) pgtype.Date {
	t, ok := parseDateStrict(s)
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// parseDateStrict is ParseDate for callers that must reject bad input,
// such as range bounds.
func parseDateStrict(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDecimal parses an exact decimal. Empty input is a valid null.
func ParseDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// FormatDecimal renders d keeping its scale, so 12.50 stays "12.50".
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// ToPgNumeric converts a nullable decimal to pgtype.Numeric without going
// through a float.
func ToPgNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{Valid: false}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}

// FromPgNumeric converts a scanned numeric back to a decimal.
// NaN and infinities have no decimal form and map to null.
func FromPgNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

// NormalizeHeader trims and lowercases a header or parameter name.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// MakeHeaderIndex builds a map from normalized header name to column index.
// When a header repeats, the later column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Cell returns the trimmed value of column name in row, or "" when the
// column is absent or the row is short.
func (h HeaderIndex) Cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
