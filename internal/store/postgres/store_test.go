package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to TEST_DATABASE_URL and empties the inventory
// table. Tests using it are skipped when the variable is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, config.DatabaseConfig{URL: url, MaxConns: 4, MinConns: 1, AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.pool.Exec(ctx, "TRUNCATE "+table+" RESTART IDENTITY")
	require.NoError(t, err)
	return s
}

func priced(serial, label, price string) core.Record {
	r := core.Record{SerialNo: core.ToPgText(serial), Label: core.ToPgText(label)}
	if price != "" {
		r.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return r
}

func TestStore_SaveGetReplaceDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, priced("SN1", "first", "10.50")))
	require.NoError(t, s.Save(ctx, priced("SN1", "second", "")))
	require.NoError(t, s.Save(ctx, priced("", "anon", "1")))

	got, err := s.Get(ctx, "SN1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Label.String)
	assert.False(t, got.Price.Valid)

	require.NoError(t, s.Replace(ctx, "SN1", priced("", "third", "99.990")))
	got, err = s.Get(ctx, "SN1")
	require.NoError(t, err)
	assert.Equal(t, "third", got.Label.String)
	assert.Equal(t, "99.990", core.FormatDecimal(got.Price.Decimal))

	assert.ErrorIs(t, s.Replace(ctx, "missing", priced("", "x", "")), core.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), core.ErrNotFound)
	require.NoError(t, s.Delete(ctx, "SN1"))

	_, err = s.Get(ctx, "SN1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_QueryFilterAndCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, r := range []core.Record{
		priced("A", "Laptop_1", "100"),
		priced("B", "laptop 2", "250"),
		priced("C", "Mouse", ""),
	} {
		require.NoError(t, s.Save(ctx, r))
	}

	page, err := s.Query(ctx, core.Query{Filter: core.KeywordFilter("LAPTOP"), Order: core.OrderCatalog, Count: true})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	// Underscore is literal, not a LIKE wildcard.
	page, err = s.Query(ctx, core.Query{Filter: core.KeywordFilter("laptop_"), Count: true})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	f, _, err := core.BuildFilter(map[string]string{"price_min": "0"})
	require.NoError(t, err)
	page, err = s.Query(ctx, core.Query{Filter: f, Order: core.OrderCatalog})
	require.NoError(t, err)
	assert.Len(t, page.Records, 2, "null price is excluded")

	page, err = s.Query(ctx, core.Query{Order: core.OrderCatalog, Limit: 1, Offset: 1, Count: true})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Records, 1)
}

func TestStore_ImportSavepoints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.BeginImport(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, tx.Put(ctx, priced("SN1", "ok", "1")))

	bad := priced("SN2", "bad", "")
	bad.Price = decimal.NewNullDecimal(decimal.New(1, 200000))
	assert.Error(t, tx.Put(ctx, bad), "numeric overflow must fail the row")

	require.NoError(t, tx.Put(ctx, priced("SN3", "ok", "3")))
	require.NoError(t, tx.Commit(ctx))

	page, err := s.Query(ctx, core.Query{Count: true})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
