package catalog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/internal/store"
)

// Models lists every catalog table model.
func Models() []any {
	return []any{
		(*MediaAsset)(nil),
		(*Artist)(nil),
		(*Recording)(nil),
		(*NewsPost)(nil),
		(*Employee)(nil),
	}
}

// CreateSchema creates missing catalog tables.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("catalog: create table %T: %w", model, err)
		}
	}
	return nil
}

// Collections describes the catalog tables for the untyped content store.
func Collections() []store.Collection {
	return []store.Collection{
		{
			Name:    CollectionArtists,
			Columns: []string{"id", "name", "slug", "discipline", "biography", "portrait_id", "position", "published", "created_at", "updated_at"},
		},
		{
			Name:    CollectionRecordings,
			Columns: []string{"id", "artist_id", "title", "slug", "label", "release_year", "description", "cover_id", "created_at", "updated_at"},
		},
		{
			Name:    CollectionNews,
			Columns: []string{"id", "locale", "title", "slug", "excerpt", "body", "body_format", "published_at", "source", "source_id", "created_at", "updated_at"},
		},
		{
			Name:    CollectionEmployees,
			Columns: []string{"id", "name", "slug", "role", "email", "phone", "photo_id", "position", "created_at", "updated_at"},
		},
		{
			Name:    CollectionMedia,
			Columns: []string{"id", "filename", "url", "mime_type", "filesize", "width", "height", "alt", "created_at", "updated_at"},
		},
	}
}

// LookupCollection returns the store description of a catalog collection.
func LookupCollection(name string) (store.Collection, bool) {
	for _, c := range Collections() {
		if c.Name == name {
			return c, true
		}
	}
	return store.Collection{}, false
}

// SourceField names the column a collection derives its slug from.
func SourceField(collection string) string {
	switch collection {
	case CollectionRecordings, CollectionNews:
		return "title"
	default:
		return "name"
	}
}
