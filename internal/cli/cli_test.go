package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "serial_no,record_date,label,type,brand,model_no,location,location_2,location_3," +
	"invoice_no,purchase_date,price,maintenance_end_date,specification1,specification2,specification3," +
	"project_code,department,status"

// run executes invctl against st and returns stdout and stderr.
func run(t *testing.T, st core.Store, args ...string) (string, string, error) {
	t.Helper()
	opts := Options{
		Lookup: config.MapLookup(map[string]string{"DB_DRIVER": "memory"}),
		Open: func(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
			return st, nil
		},
	}

	var stdout, stderr bytes.Buffer
	root := NewRootCmd(opts)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportCommand(t *testing.T) {
	st := memory.New()
	path := writeCSV(t,
		"SN1,2024-01-01,Laptop,,,,,,,,,100.50,,,,,,,active",
		"SN2,,Mouse,,,,,,,,,oops,,,,,,,",
		"SN3,,Dock,,,,,,,,,,,,,,,,",
	)

	out, _, err := run(t, st, "import", path)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Import Report ===")
	assert.Contains(t, out, "Rows:       3")
	assert.Contains(t, out, "Imported:   2")
	assert.Contains(t, out, "Skipped:    1")
	assert.Equal(t, 2, st.Len())
}

func TestImportCommand_Errors(t *testing.T) {
	st := memory.New()

	_, _, err := run(t, st, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "open csv")

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("serial_no,label\nSN1,x\n"), 0o600))
	_, _, err = run(t, st, "import", path)
	var mh *core.MissingHeadersError
	require.True(t, errors.As(err, &mh))
	assert.Contains(t, mh.Missing, "price")
	assert.Equal(t, "VAL004", core.MapError(err).Code)
	assert.Equal(t, 0, st.Len())

	_, _, err = run(t, st, "import")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	st := memory.New()
	_, _, err := run(t, st, "import", writeCSV(t,
		"B1,,beta,,,,,,,,,,,,,,,,",
		"A1,,alpha,,,,,,,,,,,,,,,,",
	))
	require.NoError(t, err)

	out, errOut, err := run(t, st, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(core.ExportHeader(), ","), lines[0])
	assert.Contains(t, lines[1], "alpha")
	assert.Contains(t, errOut, "exported 2 items")

	out, _, err = run(t, st, "export", "-q", "bet")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	path := filepath.Join(t.TempDir(), "out.csv")
	_, _, err = run(t, st, "export", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,serial_no,"))
}

func TestExportCommand_Empty(t *testing.T) {
	out, errOut, err := run(t, memory.New(), "export", "--query", "*")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "exported 0 items")
}

func TestSearchCommand(t *testing.T) {
	st := memory.New()
	_, _, err := run(t, st, "import", writeCSV(t,
		"SN1,2024-03-01,Laptop,notebook,Acme,,HQ,,,,,,,,,,,,active",
		"SN2,2024-02-01,Lamp,,,,,,,,,,,,,,,,",
		"SN3,2024-01-01,Mouse,,,,,,,,,,,,,,,,",
	))
	require.NoError(t, err)

	out, _, err := run(t, st, "search", "la")
	require.NoError(t, err)
	assert.Contains(t, out, "SERIAL NO")
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "Lamp")
	assert.NotContains(t, out, "Mouse")
	assert.Contains(t, out, "page 1 of 1, 2 total")
	assert.Less(t, strings.Index(out, "Laptop"), strings.Index(out, "Lamp"), "newest record first")

	out, _, err = run(t, st, "search", "*", "--json")
	require.NoError(t, err)
	var res core.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, core.PageSize, res.PageSize)
}

func TestSchemaCommand_NoStore(t *testing.T) {
	opened := false
	opts := Options{
		Lookup: config.MapLookup(nil),
		Open: func(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
			opened = true
			return nil, errors.New("should not open")
		},
	}

	var stdout bytes.Buffer
	root := NewRootCmd(opts)
	root.SetOut(&stdout)
	root.SetArgs([]string{"schema"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.False(t, opened)
	out := stdout.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "price_min, price_max")
	assert.Contains(t, out, "serial_no")
}

func TestOpenFailure(t *testing.T) {
	opts := Options{
		Lookup: config.MapLookup(map[string]string{"DB_DRIVER": "memory"}),
		Open: func(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
			return nil, errors.New("connection refused")
		},
	}
	root := NewRootCmd(opts)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"search", "x"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, "DB004", core.MapError(err).Code)
}

// closeCounter counts how often the store is closed.
type closeCounter struct {
	*memory.Store
	closes int
}

func (c *closeCounter) Close() { c.closes++ }

func TestStoreClosedAfterCommand(t *testing.T) {
	st := &closeCounter{Store: memory.New()}

	_, _, err := run(t, st, "search", "x")
	require.NoError(t, err)
	assert.Equal(t, 1, st.closes)

	missingDir := filepath.Join(t.TempDir(), "missing", "out.csv")
	_, _, err = run(t, st, "export", "-o", missingDir)
	require.Error(t, err)
	assert.Equal(t, 2, st.closes, "a failing command still closes the store")
}

type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error { return errors.New("disk full") }

func TestExportCommand_CloseErrorFails(t *testing.T) {
	prev := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return &failingCloser{}, nil }
	t.Cleanup(func() { createOutput = prev })

	st := memory.New()
	_, _, err := run(t, st, "import", writeCSV(t, "A1,,alpha,,,,,,,,,,,,,,,,"))
	require.NoError(t, err)

	_, _, err = run(t, st, "export", "-o", "out.csv")
	require.Error(t, err)
	assert.ErrorContains(t, err, "close output: disk full")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, core.ErrNotFound)
	assert.Contains(t, buf.String(), "Error: Item not found (Code: ITEM001)")
	assert.Contains(t, buf.String(), "Details: item not found")

	buf.Reset()
	reportError(&buf, errors.New(`unknown command "frobnicate" for "invctl"`))
	assert.Equal(t, "Error: unknown command \"frobnicate\" for \"invctl\"\n", buf.String())
}
