// Package markdown loads front-matter Markdown exports and renders Markdown
// bodies to HTML.
package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"time"
)

// Document is one parsed Markdown file.
type Document struct {
	FilePath     string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
}

// LoaderConfig configures how Markdown files are discovered.
type LoaderConfig struct {
	// Locales are the codes recognised as a leading directory ("de/post.md")
	// or a file suffix ("post.en.md").
	Locales []string
	// Pattern limits discovered files by base name. Defaults to "*.md".
	Pattern string
}

// Loader turns a directory of exported posts into Documents.
type Loader struct {
	fs      fs.FS
	locales []string
	pattern string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:      filesystem,
		locales: slices.Clone(cfg.Locales),
		pattern: pattern,
	}
}

// LoadFile reads and parses a single document. Front matter locale wins
// over the locale derived from the path.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", name, err)
	}

	loc := strings.TrimSpace(fm.Locale)
	if loc == "" {
		loc = l.detectLocale(name)
	}

	return &Document{
		FilePath:     name,
		Locale:       loc,
		FrontMatter:  fm,
		Body:         body,
		LastModified: info.ModTime(),
	}, nil
}

// LoadDirectory walks dir recursively and returns documents sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var docs []*Document
	walkErr := fs.WalkDir(l.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if match, _ := path.Match(l.pattern, path.Base(name)); !match {
			return nil
		}
		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// detectLocale checks the file suffix first, then each directory segment.
func (l *Loader) detectLocale(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if ext := strings.TrimPrefix(path.Ext(base), "."); ext != "" && slices.Contains(l.locales, ext) {
		return ext
	}
	for _, segment := range strings.Split(path.Dir(name), "/") {
		if slices.Contains(l.locales, segment) {
			return segment
		}
	}
	return ""
}

// BaseName is the file name without locale suffix and extension, used as
// the fallback slug source and stable source ID.
func (d *Document) BaseName() string {
	base := strings.TrimSuffix(path.Base(d.FilePath), path.Ext(d.FilePath))
	if d.Locale != "" {
		base = strings.TrimSuffix(base, "."+d.Locale)
	}
	return base
}
