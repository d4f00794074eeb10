package migrations_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/markdown"
	"github.com/goliatone/go-agency/internal/migrations"
	"github.com/goliatone/go-agency/pkg/interfaces"
	"github.com/goliatone/go-agency/pkg/testsupport"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(string, ...any)                          {}
func (l *recordingLogger) Fatal(string, ...any)                          {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func newImporter(t *testing.T, opts ...migrations.ImporterOption) (*migrations.Importer, *catalog.Repositories) {
	t.Helper()
	db, err := testsupport.NewBunDB(t.Name())
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := catalog.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	repos := catalog.NewRepositories(db)
	return migrations.NewImporter(repos.News, opts...), repos
}

func sampleEntries() []migrations.Entry {
	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []migrations.Entry{
		{Source: migrations.SourceWordPress, SourceID: "42", Locale: "de", Title: "Neue CD", Slug: "neue-cd", Body: "<p>x</p>", BodyFormat: catalog.FormatHTML, PublishedAt: published},
		{Source: migrations.SourceWordPress, SourceID: "43", Locale: "en", Title: "New CD", Slug: "neue-cd", Body: "<p>y</p>", BodyFormat: catalog.FormatHTML, PublishedAt: published},
		{Source: migrations.SourceWordPress, SourceID: "44", Locale: "de", Title: "Künstlerportrait", Draft: true},
		{Source: migrations.SourceWordPress, SourceID: "45", Locale: "fr", Title: "Tournée", Body: "Bientôt"},
		{Source: migrations.SourceWordPress, SourceID: "46", Locale: "de", Title: "Doppelt", Slug: "neue-cd"},
		{Source: migrations.SourceWordPress, SourceID: "47", Locale: "de", Title: "   "},
		{Source: migrations.SourceWordPress, SourceID: "48", Locale: "de", Title: "!!!"},
	}
}

func TestImporterReportsEveryEntry(t *testing.T) {
	logger := &recordingLogger{}
	importer, repos := newImporter(t, migrations.WithLogger(logger),
		migrations.WithNow(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }))
	ctx := context.Background()

	report, err := importer.Import(ctx, migrations.SourceWordPress, sampleEntries(), migrations.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Scanned != 7 || report.Created != 3 || report.Skipped != 4 || report.Failed != 0 {
		t.Fatalf("unexpected report counts: %+v", report)
	}

	reasons := map[string]string{}
	for _, o := range report.Outcomes {
		reasons[o.SourceID] = o.Reason
	}
	want := map[string]string{
		"42": "",
		"43": "",
		"44": migrations.ReasonDraft,
		"45": "",
		"46": migrations.ReasonCollision,
		"47": migrations.ReasonNoTitle,
		"48": migrations.ReasonEmptySlug,
	}
	for id, reason := range want {
		if reasons[id] != reason {
			t.Fatalf("entry %s: expected reason %q, got %q", id, reason, reasons[id])
		}
	}

	svc := catalog.NewService(repos)
	german, total, err := svc.News(ctx, locale.German, catalog.Page{})
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if total != 2 || len(german) != 2 {
		t.Fatalf("expected the french post to fall back to german, got %d", total)
	}
	fallback, err := svc.NewsPost(ctx, locale.German, "tourn-e")
	if err != nil {
		t.Fatalf("expected slug derived from title: %v", err)
	}
	if fallback.BodyFormat != catalog.FormatMarkdown {
		t.Fatalf("expected markdown default body format, got %q", fallback.BodyFormat)
	}
	if !fallback.PublishedAt.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected import clock for undated entry, got %v", fallback.PublishedAt)
	}

	if !containsPrefix(logger.warnings, "locale.resolve.fallback") && !containsPrefix(logger.warnings, "migrations.import.entry_skipped") {
		t.Fatalf("expected warnings to be logged, got %v", logger.warnings)
	}
}

func TestImporterIsIdempotent(t *testing.T) {
	importer, _ := newImporter(t)
	ctx := context.Background()

	if _, err := importer.Import(ctx, migrations.SourceWordPress, sampleEntries(), migrations.Options{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	report, err := importer.Import(ctx, migrations.SourceWordPress, sampleEntries(), migrations.Options{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if report.Created != 0 {
		t.Fatalf("expected rerun to create nothing, got %+v", report)
	}
	for _, o := range report.Outcomes {
		if o.SourceID == "42" && o.Reason != migrations.ReasonExists {
			t.Fatalf("expected existing entry to be skipped as exists, got %q", o.Reason)
		}
	}
}

func TestImporterDryRunWritesNothing(t *testing.T) {
	importer, repos := newImporter(t)
	ctx := context.Background()

	report, err := importer.Import(ctx, migrations.SourceWordPress, sampleEntries(), migrations.Options{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !report.DryRun || report.Created != 3 {
		t.Fatalf("expected dry run to report 3 creations, got %+v", report)
	}
	_, total, err := repos.News.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no rows after dry run, got %d", total)
	}
}

func TestImporterIncludeDrafts(t *testing.T) {
	importer, _ := newImporter(t)
	report, err := importer.Import(context.Background(), migrations.SourceWordPress, sampleEntries()[2:3], migrations.Options{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Created != 1 || report.Outcomes[0].Slug != "k-nstlerportrait" {
		t.Fatalf("expected draft to be imported with strict slug, got %+v", report.Outcomes)
	}
}

func TestImporterRejectsInvalidPayload(t *testing.T) {
	importer, _ := newImporter(t)
	entries := []migrations.Entry{{Source: migrations.SourceMarkdown, SourceID: "x", Locale: "de", Title: "Ok", BodyFormat: "rtf"}}
	report, err := importer.Import(context.Background(), migrations.SourceMarkdown, entries, migrations.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Failed != 1 || report.Outcomes[0].Reason != migrations.ReasonInvalid || report.Outcomes[0].Err == nil {
		t.Fatalf("expected schema failure, got %+v", report.Outcomes)
	}
	if got := report.Outcomes[0].Error; got == "" || got != report.Outcomes[0].Err.Error() {
		t.Fatalf("expected the schema error text on the outcome, got %q", got)
	}
}

func TestImporterSetupErrors(t *testing.T) {
	if _, err := migrations.NewImporter(nil).Import(context.Background(), "x", nil, migrations.Options{}); !errors.Is(err, migrations.ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}

	importer, _ := newImporter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := importer.Import(ctx, "x", sampleEntries(), migrations.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestFromMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/de/konzert.md": {Data: []byte("---\ntitle: Konzert\ndate: 2024-02-01\n---\n# Konzert\n")},
		"posts/gala.en.md":    {Data: []byte("---\ntitle: Gala\nid: legacy-7\nslug: gala-night\n---\nBody\n")},
	}
	docs, err := markdown.NewLoader(fsys, markdown.LoaderConfig{Locales: []string{"de", "en"}}).LoadDirectory(context.Background(), "posts")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entries := migrations.FromMarkdown(docs)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byLocale := map[string]migrations.Entry{}
	for _, e := range entries {
		byLocale[e.Locale] = e
	}
	de := byLocale["de"]
	if de.SourceID != "posts/de/konzert" || de.BodyFormat != catalog.FormatMarkdown || !strings.HasPrefix(de.Body, "# Konzert") {
		t.Fatalf("unexpected german entry %+v", de)
	}
	en := byLocale["en"]
	if en.SourceID != "legacy-7" || en.Slug != "gala-night" {
		t.Fatalf("unexpected english entry %+v", en)
	}
}

func containsPrefix(values []string, prefix string) bool {
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
