// Package postgres implements core.Store on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a core.Store backed by a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects using cfg, verifies the connection and, when enabled,
// creates the inventory table.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.AutoMigrate {
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return New(pool), nil
}

// EnsureSchema creates the inventory table and its indexes when missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", core.TableName, err)
	}
	for _, stmt := range indexSQL {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Query implements core.Store. Count and page run in one read-only
// repeatable-read transaction so they see the same snapshot.
func (s *Store) Query(ctx context.Context, q core.Query) (core.Page, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return core.Page{}, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	page, err := query(ctx, tx, q)
	if err != nil {
		return core.Page{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return core.Page{}, fmt.Errorf("commit read: %w", err)
	}
	return page, nil
}

func query(ctx context.Context, db DBTX, q core.Query) (core.Page, error) {
	wb := core.NewWhereBuilder()
	wb.AddFilter(q.Filter)
	whereClause, args := wb.Build()

	var page core.Page
	if q.Count {
		var total int64
		countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, whereClause)
		if err := db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
			return core.Page{}, fmt.Errorf("count rows: %w", err)
		}
		page.Total = int(total)
	}

	sql := fmt.Sprintf("%s%s ORDER BY %s", selectSQL, whereClause, q.Order.SQL())
	if q.Limit > 0 {
		n := wb.NextArgIndex()
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1)
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return core.Page{}, fmt.Errorf("query rows: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return core.Page{}, fmt.Errorf("read rows: %w", err)
	}

	page.Records = records
	return page, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (core.Record, error) {
	r, err := scanRecord(s.pool.QueryRow(ctx, getSQL, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get item: %w", err)
	}
	return r, nil
}

// Save implements core.Store with a single statement.
func (s *Store) Save(ctx context.Context, r core.Record) error {
	return save(ctx, s.pool, r)
}

func save(ctx context.Context, db DBTX, r core.Record) error {
	var sql string
	switch r.Identity().(type) {
	case core.NaturalKey:
		sql = upsertSQL
	case core.Anonymous:
		r.SerialNo = core.ToPgText("")
		sql = insertSQL
	}

	if _, err := db.Exec(ctx, sql, recordArgs(&r)...); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// Replace implements core.Store.
func (s *Store) Replace(ctx context.Context, key string, r core.Record) error {
	r.SerialNo = core.ToPgText(key)
	args := append(recordArgs(&r), key)

	tag, err := s.pool.Exec(ctx, updateSQL, args...)
	if err != nil {
		return fmt.Errorf("replace item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, deleteSQL, key)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// BeginImport implements core.Store. The import runs in one transaction
// and every Put is wrapped in its own savepoint, so a failing row is
// rolled back alone.
func (s *Store) BeginImport(ctx context.Context) (core.ImportTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &importTx{tx: tx}, nil
}

type importTx struct {
	tx pgx.Tx
	n  int
}

func (t *importTx) Put(ctx context.Context, r core.Record) error {
	t.n++
	savepointName := fmt.Sprintf("sp_%d", t.n)

	if _, err := t.tx.Exec(ctx, "SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if err := save(ctx, t.tx, r); err != nil {
		_, _ = t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepointName)
		return err
	}

	_, _ = t.tx.Exec(ctx, "RELEASE SAVEPOINT "+savepointName)
	return nil
}

func (t *importTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *importTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
