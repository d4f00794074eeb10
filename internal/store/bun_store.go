package store

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/pkg/interfaces"
)

// BunStore reads and patches registered tables as untyped rows.
type BunStore struct {
	db          *bun.DB
	collections registry
	now         func() time.Time
}

var _ interfaces.ContentStore = (*BunStore)(nil)

// NewBunStore exposes the given collections of db.
func NewBunStore(db *bun.DB, collections ...Collection) *BunStore {
	return &BunStore{
		db:          db,
		collections: newRegistry(collections),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Query returns one page of rows ordered by id.
func (s *BunStore) Query(ctx context.Context, collection string, opts interfaces.QueryOptions) ([]interfaces.Record, error) {
	c, err := s.collections.lookup(collection)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	q := s.db.NewSelect().
		TableExpr("?", bun.Ident(c.table())).
		OrderExpr("? ASC", bun.Ident("id"))
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("store: query %s: %w", c.Name, err)
	}

	records := make([]interfaces.Record, 0, len(rows))
	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		records = append(records, interfaces.Record{
			ID:     idString(row["id"]),
			Fields: row,
		})
	}
	return records, nil
}

// Patch updates the listed columns of one row. Collections with an
// updated_at column get it refreshed.
func (s *BunStore) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	c, err := s.collections.lookup(collection)
	if err != nil {
		return err
	}
	if err := s.collections.checkPatch(c, fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	values := maps.Clone(fields)
	if c.hasColumn("updated_at") {
		if _, ok := values["updated_at"]; !ok {
			values["updated_at"] = s.now()
		}
	}

	res, err := s.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(c.table())).
		Where("? = ?", bun.Ident("id"), id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("store: patch %s %s: %w", c.Name, id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Collection: c.Name, ID: id}
	}
	return nil
}

func idString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
