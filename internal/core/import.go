package core

// import.go implements bulk CSV import.
//
// The header is validated before any storage is touched. Each data row is
// then parsed into a RowOutcome; rows that fail to parse or to store are
// skipped without affecting the rest of the batch, and the whole batch is
// committed once at the end.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// ContextCheckInterval is how many rows are processed between checks for
// cancellation.
const ContextCheckInterval = 100

// RowOutcome is the result of one CSV data row. A row is imported unless
// it has a skip Reason. A row with only empty cells is an anonymous record
// with every column null; encoding/csv already drops empty lines.
type RowOutcome struct {
	Line   int
	Record Record
	Reason string
}

// Skipped reports whether the row was rejected.
func (o RowOutcome) Skipped() bool {
	return o.Reason != ""
}

// Skip returns o marked as rejected for reason.
func (o RowOutcome) Skip(reason string) RowOutcome {
	o.Reason = reason
	return o
}

// ParseRow converts a data row. Dates that do not parse become null; a
// price that does not parse skips the row.
func ParseRow(idx HeaderIndex, row []string, line int) RowOutcome {
	out := RowOutcome{Line: line}
	for _, f := range Fields {
		if err := f.Set(&out.Record, idx.Cell(row, f.Name)); err != nil {
			return out.Skip(err.Error())
		}
	}
	return out
}

// ImportTally counts row outcomes.
type ImportTally struct {
	Imported int
	Skipped  int
}

// Add folds one outcome into the tally.
func (t *ImportTally) Add(o RowOutcome) {
	if o.Skipped() {
		t.Skipped++
		return
	}
	t.Imported++
}

// Rows returns the number of data rows seen.
func (t ImportTally) Rows() int {
	return t.Imported + t.Skipped
}

// ImportCSV reads a CSV document from r and upserts its rows in a single
// batch. It fails without writing when the input has no header or lacks
// required headers. A read failure or cancellation after rows were
// written rolls the batch back.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{ID: uuid.New()}
	logger := logging.WithFields(ctx, "import_id", result.ID)

	counter := newCountingReader(r)
	cr := NewCSVReader(counter)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: read header: %w", err)
	}

	idx, err := ValidateHeaders(header)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	logger.Info("import started", "columns", len(header))

	var tally ImportTally
	for n := 0; ; n++ {
		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				logger.Warn("import cancelled", "rows", tally.Rows())
				return nil, fmt.Errorf("import cancelled: %w", err)
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		outcome := ParseRow(idx, row, line)
		if !outcome.Skipped() {
			if err := tx.Put(ctx, outcome.Record); err != nil {
				outcome = outcome.Skip(fmt.Sprintf("store: %v", err))
			}
		}
		if outcome.Skipped() {
			logger.Debug("row skipped", "line", outcome.Line, "reason", outcome.Reason)
		}
		tally.Add(outcome)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	result.Imported = tally.Imported
	result.Skipped = tally.Skipped
	result.Total = tally.Rows()
	result.Bytes = counter.bytesRead
	result.Duration = time.Since(start)

	logger.Info("import completed",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"bytes", result.Bytes,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}
