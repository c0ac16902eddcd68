package core

// where.go renders a Filter into a parameterized SQL WHERE clause.
// Column names come from the field table and are quoted; every value is
// bound as a $N placeholder.

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// WhereBuilder accumulates AND-joined conditions and their arguments.
type WhereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns a builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// AddCondition appends one comparison.
func (wb *WhereBuilder) AddCondition(c Condition) {
	wb.conditions = append(wb.conditions, wb.render(c, nil))
}

// AddAny appends an OR group. Conditions with the same bound value share
// one placeholder.
func (wb *WhereBuilder) AddAny(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	shared := make(map[string]string)
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = wb.render(c, shared)
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
}

// AddFilter appends every condition of f.
func (wb *WhereBuilder) AddFilter(f Filter) {
	for _, c := range f.All {
		wb.AddCondition(c)
	}
	wb.AddAny(f.Any)
}

// Build returns the clause with a leading " WHERE " and its arguments,
// or ("", nil) when nothing was added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex returns the number of the next placeholder, for callers
// appending LIMIT/OFFSET arguments.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

func (wb *WhereBuilder) bind(v any) string {
	wb.args = append(wb.args, v)
	ph := fmt.Sprintf("$%d", wb.argIndex)
	wb.argIndex++
	return ph
}

// render emits SQL for c. When shared is non-nil, identical bound values
// reuse their placeholder.
func (wb *WhereBuilder) render(c Condition, shared map[string]string) string {
	col := quoteIdentifier(c.Field.Name)
	arg := sqlArg(c)

	var ph string
	if key, ok := arg.(string); ok && shared != nil {
		if ph = shared[key]; ph == "" {
			ph = wb.bind(arg)
			shared[key] = ph
		}
	} else {
		ph = wb.bind(arg)
	}

	switch c.Op {
	case OpPrefix:
		return fmt.Sprintf("%s ILIKE %s", col, ph)
	case OpGreaterEq:
		return fmt.Sprintf("%s >= %s", col, ph)
	case OpLessEq:
		return fmt.Sprintf("%s <= %s", col, ph)
	default:
		return "FALSE"
	}
}

// sqlArg converts a condition value to the argument bound for it.
func sqlArg(c Condition) any {
	switch v := c.Value.(type) {
	case string:
		if c.Op == OpPrefix {
			return EscapeLike(v) + "%"
		}
		return v
	case decimal.Decimal:
		return ToPgNumeric(decimal.NewNullDecimal(v))
	case time.Time:
		return pgtype.Date{Time: v, Valid: true}
	default:
		return v
	}
}

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// quoteIdentifier quotes a column or table name for SQL.
func quoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// QuoteIdentifier is quoteIdentifier for storage backends.
func QuoteIdentifier(name string) string {
	return quoteIdentifier(name)
}

// SQL returns the ORDER BY expression for o.
func (o Order) SQL() string {
	switch o {
	case OrderCatalog:
		return `"label", "type", "brand", "id"`
	default:
		return `"record_date" DESC NULLS LAST, "label", "type", "id"`
	}
}
