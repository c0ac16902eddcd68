// Package core implements inventory search, bulk CSV import, single-item
// mutations and CSV export.
//
// The package knows nothing about HTTP or a particular database. Storage
// is reached through the [Store] interface; internal/store/postgres and
// internal/store/memory implement it.
//
// # Field table
//
// [Fields] lists every inventory attribute with its kind and how it takes
// part in filtering and import. Search parameters, required CSV headers,
// export column order and DDL are all derived from it.
//
// # Filters
//
// [BuildFilter] and [KeywordFilter] produce a [Filter]. Storage backends
// either render it with [WhereBuilder] or evaluate it with [Filter.Match];
// the two agree on null handling and case-insensitive prefixes.
//
// # Import
//
//  1. The input is decoded as UTF-8 (BOM dropped, bad bytes replaced).
//  2. The header is validated against [RequiredHeaders]; missing headers
//     fail the request before storage is touched.
//  3. Each row becomes a [RowOutcome]. Bad prices and storage errors skip
//     the row; dates that do not parse are stored as null.
//  4. Rows are written through one [ImportTx] and committed together.
//
// # Identity
//
// A record with a serial number has a [NaturalKey] and is upserted; a
// record without one is [Anonymous] and always inserted.
package core
