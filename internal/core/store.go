package core

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is a fixed result ordering. Every ordering ends on id so pages
// partition the result set exactly.
type Order int

const (
	// OrderRecent sorts record_date descending with nulls last, then label, type.
	OrderRecent Order = iota
	// OrderCatalog sorts label, type, brand.
	OrderCatalog
)

// Less reports whether a sorts before b under o. Text is compared with the
// Unicode root collation, so "apple" sorts before "Banana" as it does under
// the usual PostgreSQL locales; the exact database order still follows the
// column's collation. Null text sorts after any value, matching
// PostgreSQL's default for ascending columns.
func (o Order) Less(a, b *Record) bool {
	var keys []int
	switch o {
	case OrderCatalog:
		keys = []int{
			compareText(a.Label, b.Label),
			compareText(a.Type, b.Type),
			compareText(a.Brand, b.Brand),
		}
	default:
		keys = []int{
			compareDateDesc(a.RecordDate, b.RecordDate),
			compareText(a.Label, b.Label),
			compareText(a.Type, b.Type),
		}
	}
	for _, k := range keys {
		if k != 0 {
			return k < 0
		}
	}
	return a.ID < b.ID
}

// collators holds root-locale collators. A Collator keeps scratch buffers
// and must not be shared between goroutines.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Und) },
}

func compareText(a, b pgtype.Text) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	default:
		c := collators.Get().(*collate.Collator)
		defer collators.Put(c)
		return c.CompareString(a.String, b.String)
	}
}

func compareDateDesc(a, b pgtype.Date) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	default:
		return b.Time.Compare(a.Time)
	}
}

// Query selects records. Limit 0 means no limit. When Count is set the
// store also reports the total number of matching records, computed
// against the same snapshot as the page.
type Query struct {
	Filter Filter
	Order  Order
	Limit  int
	Offset int
	Count  bool
}

// Page is the result of a Query.
type Page struct {
	Records []Record
	Total   int
}

// Store persists inventory records. Implementations must make each method
// atomic: a write either fully applies or leaves storage unchanged.
type Store interface {
	// Query returns the records matching q.
	Query(ctx context.Context, q Query) (Page, error)

	// Get returns the record with serial number key, or ErrNotFound.
	Get(ctx context.Context, key string) (Record, error)

	// Save writes r according to r.Identity(): a NaturalKey inserts or
	// replaces every column of the existing row, Anonymous always inserts.
	Save(ctx context.Context, r Record) error

	// Replace overwrites every column of the record with serial number
	// key, or returns ErrNotFound without writing.
	Replace(ctx context.Context, key string, r Record) error

	// Delete removes the record with serial number key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// BeginImport opens a batch write scope.
	BeginImport(ctx context.Context) (ImportTx, error)

	// Close releases resources held by the store.
	Close()
}

// ImportTx is one bulk import. Put applies the same rule as Store.Save. A
// failed Put leaves the batch usable and its effects discarded. Nothing
// is visible to other callers until Commit; Rollback after Commit is a
// no-op.
type ImportTx interface {
	Put(ctx context.Context, r Record) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
