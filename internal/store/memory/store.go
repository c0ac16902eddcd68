// Package memory is an in-process implementation of core.Store. It
// evaluates filters with core.Filter.Match and serves tests and the
// DB_DRIVER=memory mode.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JonMunkholm/inventory/internal/core"
)

// Store keeps records in maps guarded by a RWMutex. Reads take a shared
// lock for the whole query, so count and page see the same state.
type Store struct {
	mu       sync.RWMutex
	records  map[int64]core.Record
	bySerial map[string]int64
	nextID   int64
}

var _ core.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		records:  make(map[int64]core.Record),
		bySerial: make(map[string]int64),
		nextID:   1,
	}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Query implements core.Store.
func (s *Store) Query(ctx context.Context, q core.Query) (core.Page, error) {
	if err := ctx.Err(); err != nil {
		return core.Page{}, err
	}

	s.mu.RLock()
	matched := make([]core.Record, 0, len(s.records))
	for _, r := range s.records {
		if q.Filter.Match(&r) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return q.Order.Less(&matched[i], &matched[j])
	})

	page := core.Page{}
	if q.Count {
		page.Total = len(matched)
	}

	start := q.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	page.Records = matched[start:end]
	return page, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySerial[key]
	if !ok {
		return core.Record{}, core.ErrNotFound
	}
	return s.records[id], nil
}

// Save implements core.Store.
func (s *Store) Save(ctx context.Context, r core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(r)
	return nil
}

// Replace implements core.Store.
func (s *Store) Replace(ctx context.Context, key string, r core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySerial[key]
	if !ok {
		return core.ErrNotFound
	}
	r.ID = id
	r.SerialNo = core.ToPgText(key)
	s.records[id] = r
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySerial[key]
	if !ok {
		return core.ErrNotFound
	}
	delete(s.records, id)
	delete(s.bySerial, key)
	return nil
}

// BeginImport implements core.Store. Puts are buffered and applied under
// one write lock on Commit.
func (s *Store) BeginImport(ctx context.Context) (core.ImportTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &importTx{store: s}, nil
}

// Close implements core.Store.
func (s *Store) Close() {}

// put upserts r by natural key or inserts it. Caller holds mu.
func (s *Store) put(r core.Record) {
	switch k := r.Identity().(type) {
	case core.NaturalKey:
		if id, ok := s.bySerial[string(k)]; ok {
			r.ID = id
			s.records[id] = r
			return
		}
		r.ID = s.nextID
		s.nextID++
		s.records[r.ID] = r
		s.bySerial[string(k)] = r.ID
	case core.Anonymous:
		r.SerialNo = core.ToPgText("")
		r.ID = s.nextID
		s.nextID++
		s.records[r.ID] = r
	}
}

var errTxClosed = errors.New("import already committed or rolled back")

type importTx struct {
	store   *Store
	pending []core.Record
	done    bool
}

func (tx *importTx) Put(ctx context.Context, r core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.pending = append(tx.pending, r)
	return nil
}

func (tx *importTx) Commit(ctx context.Context) error {
	if tx.done {
		return errTxClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, r := range tx.pending {
		tx.store.put(r)
	}
	tx.done = true
	tx.pending = nil
	return nil
}

func (tx *importTx) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.pending = nil
	return nil
}
