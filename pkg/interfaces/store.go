package interfaces

import "context"

// Record is an untyped content record as returned by a ContentStore.
// Fields holds column values keyed by column name; ID is the record key.
type Record struct {
	ID     string
	Fields map[string]any
}

// QueryOptions paginates a collection scan. A zero Limit lets the store pick
// its own page size.
type QueryOptions struct {
	Limit  int
	Offset int
}

// ContentStore is the opaque query/update surface of the content store.
// Query returns records in a stable order so offset pagination is repeatable.
type ContentStore interface {
	Query(ctx context.Context, collection string, opts QueryOptions) ([]Record, error)
	Patch(ctx context.Context, collection, id string, fields map[string]any) error
}
