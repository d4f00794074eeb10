package migrationscmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/migrations"
	"github.com/goliatone/go-agency/pkg/testsupport"
)

func newImporter(t *testing.T) *migrations.Importer {
	t.Helper()
	db, err := testsupport.NewBunDB(t.Name())
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := catalog.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return migrations.NewImporter(catalog.NewRepositories(db).News)
}

func TestImportNewsHandler(t *testing.T) {
	var gotPath string
	readers := map[string]EntryReader{
		migrations.SourceWordPress: func(ctx context.Context, path string) ([]migrations.Entry, error) {
			gotPath = path
			return []migrations.Entry{
				{Source: migrations.SourceWordPress, SourceID: "1", Locale: "de", Title: "Neue CD", Body: "x"},
				{Source: migrations.SourceWordPress, SourceID: "2", Locale: "en", Title: "Draft", Draft: true},
			}, nil
		},
	}

	var report migrations.Report
	h := NewImportNewsHandler(newImporter(t), readers, nil, func(r migrations.Report) { report = r })
	err := h.Execute(context.Background(), ImportNewsCommand{Source: migrations.SourceWordPress, Path: " export.xml "})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotPath != "export.xml" {
		t.Fatalf("expected trimmed path, got %q", gotPath)
	}
	if report.Created != 1 || report.Skipped != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestImportNewsHandlerSetupFailures(t *testing.T) {
	readErr := errors.New("export missing")
	readers := map[string]EntryReader{
		migrations.SourceWordPress: func(context.Context, string) ([]migrations.Entry, error) {
			return nil, readErr
		},
	}
	h := NewImportNewsHandler(newImporter(t), readers, nil, nil)

	err := h.Execute(context.Background(), ImportNewsCommand{Source: migrations.SourceWordPress, Path: "missing.xml"})
	if !errors.Is(err, readErr) || !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected categorised read error, got %v", err)
	}

	err = h.Execute(context.Background(), ImportNewsCommand{Source: migrations.SourceMarkdown, Path: "posts"})
	if !errors.Is(err, ErrSourceNotConfigured) {
		t.Fatalf("expected ErrSourceNotConfigured, got %v", err)
	}
}

func TestImportNewsCommandValidation(t *testing.T) {
	h := NewImportNewsHandler(newImporter(t), nil, nil, nil)
	for _, msg := range []ImportNewsCommand{
		{Path: "x"},
		{Source: "blogger", Path: "x"},
		{Source: migrations.SourceMarkdown, Path: "   "},
	} {
		if err := h.Execute(context.Background(), msg); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error for %+v, got %v", msg, err)
		}
	}
}
