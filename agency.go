// Package agency wires the artist agency backend: the content store, the
// catalog read side, the public site, the slug backfill and the legacy news
// importers.
package agency

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/commands"
	migrationscmd "github.com/goliatone/go-agency/internal/commands/migrations"
	slugscmd "github.com/goliatone/go-agency/internal/commands/slugs"
	"github.com/goliatone/go-agency/internal/i18n"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/logging/gologger"
	"github.com/goliatone/go-agency/internal/markdown"
	"github.com/goliatone/go-agency/internal/migrations"
	"github.com/goliatone/go-agency/internal/migrations/wordpress"
	"github.com/goliatone/go-agency/internal/site"
	"github.com/goliatone/go-agency/internal/slugs"
	"github.com/goliatone/go-agency/internal/store"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

type (
	// BackfillSlugsCommand derives missing slugs for one collection.
	BackfillSlugsCommand = slugscmd.BackfillSlugsCommand
	// ImportNewsCommand imports a WordPress or Markdown export as news.
	ImportNewsCommand = migrationscmd.ImportNewsCommand
	// SlugReport summarises a backfill run.
	SlugReport = slugs.Report
	// ImportReport summarises a news import.
	ImportReport = migrations.Report
)

// Option overrides a collaborator New would otherwise build from Config.
type Option func(*Module)

// WithLoggerProvider replaces the logger provider selected by
// Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening Config.Storage. The caller keeps
// ownership and Close leaves it open.
func WithBunDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithCache supplies the read cache used by the catalog repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// Module is the assembled runtime.
type Module struct {
	cfg            Config
	loggerProvider interfaces.LoggerProvider
	db             *bun.DB
	ownsDB         bool
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer

	resolver   *locale.Resolver
	normalizer slugs.Normalizer
	repos      *catalog.Repositories
	catalog    *catalog.Service
	store      *store.BunStore
	backfiller *slugs.Backfiller
	importer   *migrations.Importer
	readers    map[string]migrationscmd.EntryReader
	site       *site.Handler
}

// New validates cfg and builds a Module.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	steps := []func(context.Context) error{
		m.configureLogging,
		m.configureStorage,
		m.configureCache,
		m.configureServices,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
	}
	return m, nil
}

func (m *Module) configureLogging(context.Context) error {
	if m.loggerProvider != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(m.cfg.Logging.Provider)) != "gologger" {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     m.cfg.Logging.Level,
		Format:    m.cfg.Logging.Format,
		AddSource: m.cfg.Logging.AddSource,
		Focus:     m.cfg.Logging.Focus,
	})
	if err != nil {
		return err
	}
	m.loggerProvider = provider
	return nil
}

func (m *Module) configureStorage(ctx context.Context) error {
	if m.db != nil {
		return nil
	}
	db, err := store.Open(ctx, m.cfg.Storage.Provider, m.cfg.Storage.DSN)
	if err != nil {
		return err
	}
	m.db, m.ownsDB = db, true
	return nil
}

func (m *Module) configureCache(context.Context) error {
	if !m.cfg.Cache.Enabled {
		return nil
	}
	if m.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if m.cfg.Cache.TTL > 0 {
			cfg.TTL = m.cfg.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("agency: cache: %w", err)
		}
		m.cacheService = service
	}
	if m.keySerializer == nil {
		m.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (m *Module) configureServices(context.Context) error {
	set, err := m.cfg.LocaleSet()
	if err != nil {
		return err
	}
	m.resolver = locale.NewResolver(set, locale.WithLogger(logging.LocaleLogger(m.loggerProvider)))

	m.normalizer, err = slugs.NewNormalizer(m.cfg.Slugs.Mode)
	if err != nil {
		return err
	}

	m.repos = catalog.NewRepositoriesWithCache(m.db, m.cacheService, m.keySerializer)
	m.catalog = catalog.NewService(m.repos, catalog.WithLogger(logging.MediaLogger(m.loggerProvider)))

	m.store = store.NewBunStore(m.db, catalog.Collections()...)
	m.backfiller = slugs.NewBackfiller(m.store,
		slugs.WithNormalizer(m.normalizer),
		slugs.WithPageSize(m.cfg.Slugs.PageSize),
		slugs.WithLogger(logging.SlugsLogger(m.loggerProvider)),
	)

	// Imports check for existing rows, so they bypass the read cache.
	m.importer = migrations.NewImporter(catalog.NewNewsRepository(m.db),
		migrations.WithResolver(m.resolver),
		migrations.WithNormalizer(m.normalizer),
		migrations.WithLogger(logging.MigrationsLogger(m.loggerProvider)),
	)

	locales := make([]string, 0, len(set.Supported()))
	for _, code := range set.Supported() {
		locales = append(locales, string(code))
	}
	m.readers = map[string]migrationscmd.EntryReader{
		migrations.SourceWordPress: wordpress.NewReader().ReadFile,
		migrations.SourceMarkdown: func(ctx context.Context, dir string) ([]migrations.Entry, error) {
			return migrations.ReadMarkdownDir(ctx, dir, locales)
		},
	}

	bundle, err := i18n.DefaultBundle()
	if err != nil {
		return err
	}
	m.site, err = site.NewHandler(site.Config{
		Catalog:    m.catalog,
		Resolver:   m.resolver,
		Translator: i18n.NewTranslator(set, bundle),
		Renderer:   markdown.NewRenderer(markdown.RenderOptions{SafeMode: true}),
		Links:      site.NewLinks(m.cfg.Site.BaseURL, set),
		Logger:     logging.SiteLogger(m.loggerProvider),
	})
	return err
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config { return m.cfg }

// DB returns the bun handle.
func (m *Module) DB() *bun.DB { return m.db }

// Logger returns the logger for module.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.loggerProvider, module)
}

// Resolver returns the locale resolver.
func (m *Module) Resolver() *locale.Resolver { return m.resolver }

// Catalog returns the read side used by the site.
func (m *Module) Catalog() *catalog.Service { return m.catalog }

// Site returns the public HTTP handler.
func (m *Module) Site() *site.Handler { return m.site }

// CreateSchema creates the catalog tables when missing.
func (m *Module) CreateSchema(ctx context.Context) error {
	return catalog.CreateSchema(ctx, m.db)
}

// BackfillSlugs runs one backfill pass and returns its report. Per-record
// problems are in the report; the error is reserved for setup failures.
func (m *Module) BackfillSlugs(ctx context.Context, msg BackfillSlugsCommand) (SlugReport, error) {
	var report SlugReport
	handler := m.backfillHandler(func(r slugs.Report) { report = r })
	err := handler.Execute(ctx, msg)
	return report, err
}

// ImportNews reads the export named by msg and imports it as news.
func (m *Module) ImportNews(ctx context.Context, msg ImportNewsCommand) (ImportReport, error) {
	var report ImportReport
	handler := m.importHandler(func(r migrations.Report) { report = r })
	err := handler.Execute(ctx, msg)
	return report, err
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// SubscribeCommands registers the backfill and import handlers with the
// go-command dispatcher so hosts can trigger them with dispatcher.Dispatch.
// Runs that change rows drop the cached catalog reads of the affected
// collection. Reports are passed to the callbacks, which may be nil. The returned
// function removes the subscriptions.
func (m *Module) SubscribeCommands(onSlugs slugscmd.ReportFunc, onImport migrationscmd.ReportFunc) func() {
	subs := []CommandSubscription{
		dispatcher.SubscribeCommand(m.backfillHandler(onSlugs), runner.WithMaxRetries(0)),
		dispatcher.SubscribeCommand(m.importHandler(onImport), runner.WithMaxRetries(0)),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

func (m *Module) backfillHandler(onReport slugscmd.ReportFunc) *slugscmd.BackfillHandler {
	return slugscmd.NewBackfillHandler(m.backfiller,
		commands.CommandLogger(m.loggerProvider, "slugs"),
		func(report slugs.Report) {
			if !report.DryRun && report.Updated > 0 {
				m.invalidate(report.Collection)
			}
			if onReport != nil {
				onReport(report)
			}
		})
}

func (m *Module) importHandler(onReport migrationscmd.ReportFunc) *migrationscmd.ImportNewsHandler {
	return migrationscmd.NewImportNewsHandler(m.importer, m.readers,
		commands.CommandLogger(m.loggerProvider, "migrations"),
		func(report migrations.Report) {
			if !report.DryRun && report.Created > 0 {
				m.invalidate(catalog.CollectionNews)
			}
			if onReport != nil {
				onReport(report)
			}
		})
}

// invalidate runs after writes that bypass the cached repositories. A
// failure only leaves entries stale until their TTL, so it is logged.
func (m *Module) invalidate(collection string) {
	if err := m.repos.Invalidate(context.Background(), collection); err != nil {
		logging.WithFields(m.Logger("agency"), map[string]any{"collection": collection}).
			Warn("agency.cache.invalidate_failed", "error", err)
	}
}

// Close releases the database when New opened it.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	if err != nil {
		return fmt.Errorf("agency: close store: %w", err)
	}
	return nil
}
