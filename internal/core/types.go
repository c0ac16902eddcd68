package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// TableName is the storage table holding inventory records.
const TableName = "soc_inventory"

// PageSize is the number of records per search page.
const PageSize = 50

// DateLayout is the only calendar format accepted for date fields.
// Month and day may be written with or without a leading zero.
const DateLayout = "2006-1-2"

// ExportDateLayout is how dates are written back out.
const ExportDateLayout = "2006-01-02"

// Record is one inventory item. Every attribute except ID is optional;
// an invalid pgtype value or decimal means "no value".
type Record struct {
	ID int64

	SerialNo           pgtype.Text
	RecordDate         pgtype.Date
	Label              pgtype.Text
	Type               pgtype.Text
	Brand              pgtype.Text
	ModelNo            pgtype.Text
	Location           pgtype.Text
	Location2          pgtype.Text
	Location3          pgtype.Text
	InvoiceNo          pgtype.Text
	PurchaseDate       pgtype.Date
	Price              decimal.NullDecimal
	MaintenanceEndDate pgtype.Date
	Specification1     pgtype.Text
	Specification2     pgtype.Text
	Specification3     pgtype.Text
	ProjectCode        pgtype.Text
	Department         pgtype.Text
	Status             pgtype.Text
}

// Identity says how a write is matched against stored records.
// It is either a NaturalKey or Anonymous.
type Identity interface {
	isIdentity()
}

// NaturalKey identifies a record by its serial number. Writes upsert.
type NaturalKey string

// Anonymous marks a record without a serial number. Writes always insert.
type Anonymous struct{}

func (NaturalKey) isIdentity() {}
func (Anonymous) isIdentity()  {}

// Identity returns how r is matched on write.
func (r Record) Identity() Identity {
	if r.SerialNo.Valid && r.SerialNo.String != "" {
		return NaturalKey(r.SerialNo.String)
	}
	return Anonymous{}
}

// Key returns the serial number, or "" for anonymous records.
func (r Record) Key() string {
	if k, ok := r.Identity().(NaturalKey); ok {
		return string(k)
	}
	return ""
}

// HeaderIndex maps normalized CSV header names to column positions.
type HeaderIndex map[string]int

// SearchResult is one page of a keyword search.
type SearchResult struct {
	Query      string   `json:"query"`
	Records    []Record `json:"records"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// AdvancedResult is the outcome of a parameterized search. Performed is
// false when no parameter was supplied and nothing was queried.
type AdvancedResult struct {
	Records   []Record `json:"records"`
	Performed bool     `json:"search_performed"`
}

// ImportResult summarizes one CSV import.
type ImportResult struct {
	ID       uuid.UUID     `json:"import_id"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Total    int           `json:"total"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"-"`
}
