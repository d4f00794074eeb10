package catalog

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewArtistRepository creates a repository for artists keyed by slug.
func NewArtistRepository(db *bun.DB) repository.Repository[*Artist] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Artist]{
		NewRecord:          func() *Artist { return &Artist{} },
		GetID:              func(a *Artist) uuid.UUID { return a.ID },
		SetID:              func(a *Artist, id uuid.UUID) { a.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(a *Artist) string { return a.Slug },
	})
}

// NewRecordingRepository creates a repository for recordings.
func NewRecordingRepository(db *bun.DB) repository.Repository[*Recording] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Recording]{
		NewRecord:          func() *Recording { return &Recording{} },
		GetID:              func(r *Recording) uuid.UUID { return r.ID },
		SetID:              func(r *Recording, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(r *Recording) string { return r.Slug },
	})
}

// NewNewsRepository creates a repository for news posts. Slugs are only
// unique per locale so lookups go through List.
func NewNewsRepository(db *bun.DB) repository.Repository[*NewsPost] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*NewsPost]{
		NewRecord:          func() *NewsPost { return &NewsPost{} },
		GetID:              func(n *NewsPost) uuid.UUID { return n.ID },
		SetID:              func(n *NewsPost, id uuid.UUID) { n.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(n *NewsPost) string { return n.Slug },
	})
}

// NewEmployeeRepository creates a repository for team members.
func NewEmployeeRepository(db *bun.DB) repository.Repository[*Employee] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Employee]{
		NewRecord:          func() *Employee { return &Employee{} },
		GetID:              func(e *Employee) uuid.UUID { return e.ID },
		SetID:              func(e *Employee, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(e *Employee) string { return e.Slug },
	})
}

// NewMediaRepository creates a repository for media assets keyed by URL.
func NewMediaRepository(db *bun.DB) repository.Repository[*MediaAsset] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MediaAsset]{
		NewRecord:          func() *MediaAsset { return &MediaAsset{} },
		GetID:              func(m *MediaAsset) uuid.UUID { return m.ID },
		SetID:              func(m *MediaAsset, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "url" },
		GetIdentifierValue: func(m *MediaAsset) string { return m.URL },
	})
}

// Repositories groups the catalog repositories.
type Repositories struct {
	Artists    repository.Repository[*Artist]
	Recordings repository.Repository[*Recording]
	News       repository.Repository[*NewsPost]
	Employees  repository.Repository[*Employee]
	Media      repository.Repository[*MediaAsset]

	cache cache.CacheService
}

// cacheNamespaces are the key prefixes repositorycache derives from the
// model type names.
var cacheNamespaces = map[string]string{
	CollectionArtists:    "artist",
	CollectionRecordings: "recording",
	CollectionNews:       "news_post",
	CollectionEmployees:  "employee",
	CollectionMedia:      "media_asset",
}

// Invalidate drops every cached read of the given collections. Writers
// that go around the repositories, such as the slug backfill and the news
// importer, call it after changing rows. It is a no-op without a cache.
func (r *Repositories) Invalidate(ctx context.Context, collections ...string) error {
	if r == nil || r.cache == nil {
		return nil
	}
	for _, collection := range collections {
		namespace, ok := cacheNamespaces[collection]
		if !ok {
			continue
		}
		if err := r.cache.DeleteByPrefix(ctx, namespace+cache.KeySeparator); err != nil {
			return fmt.Errorf("catalog: invalidate %s cache: %w", collection, err)
		}
	}
	return nil
}

// NewRepositories creates uncached repositories.
func NewRepositories(db *bun.DB) *Repositories {
	return NewRepositoriesWithCache(db, nil, nil)
}

// NewRepositoriesWithCache wraps every repository with go-repository-cache
// when both cacheService and serializer are provided.
func NewRepositoriesWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *Repositories {
	repos := &Repositories{
		Artists:    NewArtistRepository(db),
		Recordings: NewRecordingRepository(db),
		News:       NewNewsRepository(db),
		Employees:  NewEmployeeRepository(db),
		Media:      NewMediaRepository(db),
	}
	if cacheService == nil || serializer == nil {
		return repos
	}
	repos.cache = cacheService
	repos.Artists = repositorycache.New(repos.Artists, cacheService, serializer)
	repos.Recordings = repositorycache.New(repos.Recordings, cacheService, serializer)
	repos.News = repositorycache.New(repos.News, cacheService, serializer)
	repos.Employees = repositorycache.New(repos.Employees, cacheService, serializer)
	repos.Media = repositorycache.New(repos.Media, cacheService, serializer)
	return repos
}
