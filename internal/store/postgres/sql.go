package postgres

// sql.go generates every statement from core.Fields so the column list is
// defined in exactly one place.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var (
	table = core.QuoteIdentifier(core.TableName)

	selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(quotedColumns(true), ", "), table)
	insertSQL = buildInsert()
	upsertSQL = buildUpsert()
	updateSQL = buildUpdate()
	getSQL    = selectSQL + ` WHERE "serial_no" = $1`
	deleteSQL = fmt.Sprintf(`DELETE FROM %s WHERE "serial_no" = $1`, table)
)

// quotedColumns returns the field columns, optionally led by id.
func quotedColumns(withID bool) []string {
	var cols []string
	if withID {
		cols = append(cols, `"id"`)
	}
	for _, f := range core.Fields {
		cols = append(cols, core.QuoteIdentifier(f.Name))
	}
	return cols
}

func placeholders(from, n int) []string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return ph
}

func buildInsert() string {
	cols := quotedColumns(false)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders(1, len(cols)), ", "))
}

func buildUpsert() string {
	var sets []string
	for _, f := range core.Fields {
		if f.Kind == core.KindIdentifier {
			continue
		}
		col := core.QuoteIdentifier(f.Name)
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return fmt.Sprintf(`%s ON CONFLICT ("serial_no") DO UPDATE SET %s`, buildInsert(), strings.Join(sets, ", "))
}

// buildUpdate sets every column, serial_no included, to the values from
// recordArgs and matches the row by the trailing key argument.
func buildUpdate() string {
	sets := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		sets[i] = fmt.Sprintf("%s = $%d", core.QuoteIdentifier(f.Name), i+1)
	}
	return fmt.Sprintf(`UPDATE %s SET %s WHERE "serial_no" = $%d`,
		table, strings.Join(sets, ", "), len(core.Fields)+1)
}

// createTableSQL is the DDL for the inventory table.
func createTableSQL() string {
	cols := []string{`"id" bigserial PRIMARY KEY`}
	for _, f := range core.Fields {
		cols = append(cols, core.QuoteIdentifier(f.Name)+" "+columnType(f))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t"))
}

// indexSQL supports the fixed search orderings.
var indexSQL = []string{
	fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ("record_date" DESC NULLS LAST, "label", "type", "id")`,
		core.QuoteIdentifier(core.TableName+"_recent_idx"), table),
	fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ("label", "type", "brand", "id")`,
		core.QuoteIdentifier(core.TableName+"_catalog_idx"), table),
}

func columnType(f core.FieldSpec) string {
	switch f.Kind {
	case core.KindIdentifier:
		return "text UNIQUE"
	case core.KindDate:
		return "date"
	case core.KindDecimal:
		return "numeric"
	default:
		return "text"
	}
}

// recordArgs returns the field values of r in column order.
func recordArgs(r *core.Record) []any {
	args := make([]any, len(core.Fields))
	for i, f := range core.Fields {
		switch v := f.Ref(r).(type) {
		case *pgtype.Text:
			args[i] = *v
		case *pgtype.Date:
			args[i] = *v
		case *decimal.NullDecimal:
			args[i] = core.ToPgNumeric(*v)
		}
	}
	return args
}

// scanRecord reads a row selected with selectSQL.
func scanRecord(row pgx.Row) (core.Record, error) {
	var r core.Record
	dest := []any{&r.ID}

	type numericField struct {
		target *decimal.NullDecimal
		value  pgtype.Numeric
	}
	var numerics []*numericField

	for _, f := range core.Fields {
		switch v := f.Ref(&r).(type) {
		case *decimal.NullDecimal:
			nf := &numericField{target: v}
			numerics = append(numerics, nf)
			dest = append(dest, &nf.value)
		default:
			dest = append(dest, v)
		}
	}

	if err := row.Scan(dest...); err != nil {
		return core.Record{}, err
	}
	for _, nf := range numerics {
		*nf.target = core.FromPgNumeric(nf.value)
	}
	return r, nil
}
