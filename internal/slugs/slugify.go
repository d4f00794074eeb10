// Package slugs derives URL identifiers from display names and backfills
// them onto stored records.
package slugs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	goslug "github.com/goliatone/go-slug"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into a single hyphen, then drops a leading and a trailing hyphen.
//
// Letters outside ASCII are not transliterated: "Schörke" becomes "sch-rke".
// A name made only of punctuation yields "", which callers must treat as a
// failure. Slugify is idempotent and performs no uniqueness check.
func Slugify(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.TrimPrefix(slug, "-")
	return strings.TrimSuffix(slug, "-")
}

// IsSlug reports whether value is already in Slugify's output form.
func IsSlug(value string) bool {
	return value != "" && Slugify(value) == value
}

// ErrEmptySlug is returned by normalizers when a name produces no slug.
var ErrEmptySlug = errors.New("slugs: name produced an empty slug")

// Normalizer turns a display name into a slug.
type Normalizer interface {
	Normalize(name string) (string, error)
}

// Mode selects a Normalizer by name.
type Mode string

const (
	// ModeStrict applies Slugify as is.
	ModeStrict Mode = "strict"
	// ModeTransliterate folds accented letters through go-slug first, so
	// "Schörke" keeps its letters, then applies Slugify.
	ModeTransliterate Mode = "transliterate"
)

// NewNormalizer returns the normalizer for mode. An empty mode means strict.
func NewNormalizer(mode string) (Normalizer, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", ModeStrict:
		return Strict(), nil
	case ModeTransliterate:
		return Transliterate(), nil
	default:
		return nil, fmt.Errorf("slugs: unknown normalizer mode %q", mode)
	}
}

// Strict returns the Slugify normalizer.
func Strict() Normalizer { return strictNormalizer{} }

type strictNormalizer struct{}

func (strictNormalizer) Normalize(name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// Transliterate returns a normalizer backed by go-slug's default rules. Its
// output is passed through Slugify so the [a-z0-9-] guarantee still holds.
func Transliterate() Normalizer {
	return transliterateNormalizer{inner: goslug.Default()}
}

type transliterateNormalizer struct {
	inner goslug.Normalizer
}

func (n transliterateNormalizer) Normalize(name string) (string, error) {
	folded, err := n.inner.Normalize(name)
	if err != nil {
		return "", fmt.Errorf("slugs: transliterate %q: %w", name, err)
	}
	slug := Slugify(folded)
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}
