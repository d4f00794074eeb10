// Package migrations imports legacy blog posts into the news collection.
package migrations

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/markdown"
)

// Sources of imported entries.
const (
	SourceWordPress = "wordpress"
	SourceMarkdown  = "markdown"
)

// Entry is a source-neutral legacy post. Locale is the raw code from the
// export and is resolved during import.
type Entry struct {
	Source      string
	SourceID    string
	Locale      string
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	BodyFormat  string
	PublishedAt time.Time
	Draft       bool
}

// FromMarkdown converts loaded Markdown documents into entries. The front
// matter id, or else the file path without locale suffix and extension,
// is the source ID.
func FromMarkdown(docs []*markdown.Document) []Entry {
	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		fm := doc.FrontMatter
		sourceID := strings.TrimSpace(fm.ID)
		if sourceID == "" {
			sourceID = path.Join(path.Dir(doc.FilePath), doc.BaseName())
		}
		title := strings.TrimSpace(fm.Title)
		if title == "" {
			title = doc.BaseName()
		}
		entries = append(entries, Entry{
			Source:      SourceMarkdown,
			SourceID:    sourceID,
			Locale:      doc.Locale,
			Title:       title,
			Slug:        strings.TrimSpace(fm.Slug),
			Excerpt:     strings.TrimSpace(fm.Summary),
			Body:        strings.TrimSpace(string(doc.Body)),
			BodyFormat:  catalog.FormatMarkdown,
			PublishedAt: fm.Date,
			Draft:       fm.Draft,
		})
	}
	return entries
}

// ReadMarkdownDir loads every Markdown file below dir as entries. A
// missing directory is returned as an error.
func ReadMarkdownDir(ctx context.Context, dir string, locales []string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: markdown export %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("migrations: markdown export %q is not a directory", dir)
	}
	loader := markdown.NewLoader(os.DirFS(dir), markdown.LoaderConfig{Locales: locales})
	docs, err := loader.LoadDirectory(ctx, ".")
	if err != nil {
		return nil, err
	}
	return FromMarkdown(docs), nil
}
