// Package i18n serves the translated UI labels of the public site.
package i18n

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Bundle holds the raw label maps keyed by locale code.
type Bundle map[string]map[string]string

//go:embed translations/*.json
var defaultTranslations embed.FS

// DefaultBundle loads the built-in label files.
func DefaultBundle() (Bundle, error) {
	return LoadFS(defaultTranslations, "translations")
}

// LoadFS reads every <locale>.json file in dir.
func LoadFS(fsys fs.FS, dir string) (Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	bundle := Bundle{}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		labels, err := decodeLabels(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", entry.Name(), err)
		}
		bundle[strings.TrimSuffix(entry.Name(), ".json")] = labels
	}
	return bundle, nil
}

// Loader reads a label override file from disk. The file maps locale codes
// to label maps.
type Loader struct {
	path string
}

// NewLoader constructs a loader that reads the provided file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the configured file.
func (l *Loader) Load(ctx context.Context) (Bundle, error) {
	if l == nil || l.path == "" {
		return nil, errors.New("i18n: loader path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open %q: %w", l.path, err)
	}
	defer file.Close()

	var bundle Bundle
	if err := json.NewDecoder(file).Decode(&bundle); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("i18n: decode %q: %w", l.path, err)
	}
	if bundle == nil {
		bundle = Bundle{}
	}
	return bundle, nil
}

func decodeLabels(r io.Reader) (map[string]string, error) {
	var labels map[string]string
	if err := json.NewDecoder(r).Decode(&labels); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if labels == nil {
		labels = map[string]string{}
	}
	return labels, nil
}

// Merge returns a copy of b with override's labels layered on top.
func (b Bundle) Merge(override Bundle) Bundle {
	out := make(Bundle, len(b))
	for code, labels := range b {
		out[code] = make(map[string]string, len(labels))
		for k, v := range labels {
			out[code][k] = v
		}
	}
	for code, labels := range override {
		if out[code] == nil {
			out[code] = map[string]string{}
		}
		for k, v := range labels {
			out[code][k] = v
		}
	}
	return out
}
