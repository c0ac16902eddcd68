package core

// predicate.go turns optional search parameters into a Filter. A Filter
// can be rendered to SQL by WhereBuilder or evaluated in process with
// Match; both follow the same rules:
//
//   - range bounds are inclusive and a null value never satisfies one
//   - prefix conditions are case-insensitive starts-with matches
//   - All conditions are ANDed in field-table order; Any conditions are
//     ORed together and the group is ANDed with All

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wildcard is the keyword that matches every record.
const Wildcard = "*"

// Op is a comparison emitted by the predicate builder.
type Op int

const (
	OpGreaterEq Op = iota
	OpLessEq
	OpPrefix
)

func (o Op) String() string {
	switch o {
	case OpGreaterEq:
		return ">="
	case OpLessEq:
		return "<="
	case OpPrefix:
		return "prefix"
	default:
		return "?"
	}
}

// Condition compares one field against a bound value. Value is a
// time.Time for dates, a decimal.Decimal for decimals and a string for
// prefix matches.
type Condition struct {
	Field FieldSpec
	Op    Op
	Value any
}

// Filter is a conjunction of All plus an optional disjunction Any.
// The zero Filter matches every record.
type Filter struct {
	All []Condition
	Any []Condition
}

// Empty reports whether f places no constraint.
func (f Filter) Empty() bool {
	return len(f.All) == 0 && len(f.Any) == 0
}

// Match evaluates f against r.
func (f Filter) Match(r *Record) bool {
	for _, c := range f.All {
		if !c.Match(r) {
			return false
		}
	}
	if len(f.Any) == 0 {
		return true
	}
	for _, c := range f.Any {
		if c.Match(r) {
			return true
		}
	}
	return false
}

// Match evaluates a single condition against r.
func (c Condition) Match(r *Record) bool {
	switch c.Op {
	case OpPrefix:
		s, ok := c.Field.Text(r)
		if !ok {
			return false
		}
		p, _ := c.Value.(string)
		return strings.HasPrefix(strings.ToLower(s), strings.ToLower(p))
	case OpGreaterEq:
		cmp, ok := c.compare(r)
		return ok && cmp >= 0
	case OpLessEq:
		cmp, ok := c.compare(r)
		return ok && cmp <= 0
	default:
		return false
	}
}

// compare orders the field value of r against c.Value.
func (c Condition) compare(r *Record) (int, bool) {
	switch v := c.Value.(type) {
	case time.Time:
		t, ok := c.Field.Date(r)
		if !ok {
			return 0, false
		}
		return t.Compare(v), true
	case decimal.Decimal:
		d, ok := c.Field.Decimal(r)
		if !ok {
			return 0, false
		}
		return d.Cmp(v), true
	default:
		return 0, false
	}
}

// BuildFilter reads range and prefix parameters from params. Blank values
// are ignored. performed is false when no condition was produced, in which
// case callers must not query at all. A malformed range bound fails the
// whole request with a *ValidationError.
func BuildFilter(params map[string]string) (filter Filter, performed bool, err error) {
	for _, f := range Fields {
		if f.Ranged() {
			for _, b := range []struct {
				param string
				op    Op
			}{
				{f.MinParam, OpGreaterEq},
				{f.MaxParam, OpLessEq},
			} {
				raw := strings.TrimSpace(params[b.param])
				if b.param == "" || raw == "" {
					continue
				}
				v, err := parseBound(f, b.param, raw)
				if err != nil {
					return Filter{}, false, err
				}
				filter.All = append(filter.All, Condition{Field: f, Op: b.op, Value: v})
			}
		}

		if f.Prefix {
			if raw := strings.TrimSpace(params[f.Name]); raw != "" {
				filter.All = append(filter.All, Condition{Field: f, Op: OpPrefix, Value: raw})
			}
		}
	}

	return filter, len(filter.All) > 0, nil
}

// parseBound converts a range parameter for field f.
func parseBound(f FieldSpec, param, raw string) (any, error) {
	switch f.Kind {
	case KindDate:
		t, ok := parseDateStrict(raw)
		if !ok {
			return nil, &ValidationError{Field: param, Value: raw, Message: "must be a date in YYYY-MM-DD format"}
		}
		return t, nil
	case KindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &ValidationError{Field: param, Value: raw, Message: "must be a number"}
		}
		return d, nil
	default:
		return nil, &ValidationError{Field: param, Value: raw, Message: "is not a range parameter"}
	}
}

// KeywordFilter matches keyword as a prefix of any prefix field. The
// wildcard yields the empty Filter. Callers handle the empty keyword.
func KeywordFilter(keyword string) Filter {
	keyword = strings.TrimSpace(keyword)
	if keyword == Wildcard {
		return Filter{}
	}

	var filter Filter
	for _, f := range PrefixFields() {
		filter.Any = append(filter.Any, Condition{Field: f, Op: OpPrefix, Value: keyword})
	}
	return filter
}
