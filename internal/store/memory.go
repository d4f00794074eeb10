package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/goliatone/go-agency/pkg/interfaces"
)

// MemoryStore is an in-process ContentStore used by tests and dry runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections registry
	data        map[string]map[string]map[string]any
}

var _ interfaces.ContentStore = (*MemoryStore)(nil)

// NewMemoryStore exposes the given collections.
func NewMemoryStore(collections ...Collection) *MemoryStore {
	return &MemoryStore{
		collections: newRegistry(collections),
		data:        map[string]map[string]map[string]any{},
	}
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(collection string, record interfaces.Record) error {
	c, err := s.collections.lookup(collection)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[c.Name] == nil {
		s.data[c.Name] = map[string]map[string]any{}
	}
	fields := maps.Clone(record.Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["id"] = record.ID
	s.data[c.Name][record.ID] = fields
	return nil
}

// Get returns a copy of one record.
func (s *MemoryStore) Get(collection, id string) (interfaces.Record, error) {
	c, err := s.collections.lookup(collection)
	if err != nil {
		return interfaces.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.data[c.Name][id]
	if !ok {
		return interfaces.Record{}, &NotFoundError{Collection: c.Name, ID: id}
	}
	return interfaces.Record{ID: id, Fields: maps.Clone(fields)}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, opts interfaces.QueryOptions) ([]interfaces.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collections.lookup(collection)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[c.Name]
	ids := slices.Sorted(maps.Keys(rows))
	if opts.Offset >= len(ids) {
		return []interfaces.Record{}, nil
	}
	ids = ids[max(opts.Offset, 0):]
	if opts.Limit > 0 && opts.Limit < len(ids) {
		ids = ids[:opts.Limit]
	}

	out := make([]interfaces.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, interfaces.Record{ID: id, Fields: maps.Clone(rows[id])})
	}
	return out, nil
}

func (s *MemoryStore) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := s.collections.lookup(collection)
	if err != nil {
		return err
	}
	if err := s.collections.checkPatch(c, fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data[c.Name][id]
	if !ok {
		return &NotFoundError{Collection: c.Name, ID: id}
	}
	maps.Copy(row, fields)
	return nil
}
