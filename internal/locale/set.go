// Package locale decides which language a page or script renders in.
//
// The supported locales and the default are carried by a Set value that is
// passed to whoever needs it; nothing here is global. Resolver is the only
// gate between an untrusted locale string (a URL segment, a CLI argument) and
// code that assumes a valid Code.
package locale

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Code identifies a supported locale, e.g. "de" or "en".
type Code string

const (
	German  Code = "de"
	English Code = "en"
)

func (c Code) String() string { return string(c) }

var (
	// ErrDefaultRequired is returned by NewSet when no default is given.
	ErrDefaultRequired = errors.New("locale: default locale is required")
	// ErrDefaultNotSupported is returned when the default is not a member of the set.
	ErrDefaultNotSupported = errors.New("locale: default locale must be supported")
	// ErrDuplicateLocale is returned when a code is listed twice.
	ErrDuplicateLocale = errors.New("locale: duplicate locale")
	// ErrEmptyLocale is returned when a blank code is listed.
	ErrEmptyLocale = errors.New("locale: locale code cannot be empty")
)

// Set is an immutable, ordered collection of supported locales with exactly
// one default.
type Set struct {
	def       Code
	supported []Code
}

// NewSet validates and builds a Set. When supported is empty the set holds
// only the default.
func NewSet(def string, supported ...string) (Set, error) {
	if def == "" {
		return Set{}, ErrDefaultRequired
	}
	if len(supported) == 0 {
		supported = []string{def}
	}

	codes := make([]Code, 0, len(supported))
	for _, raw := range supported {
		if strings.TrimSpace(raw) == "" {
			return Set{}, ErrEmptyLocale
		}
		code := Code(raw)
		if slices.Contains(codes, code) {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateLocale, raw)
		}
		codes = append(codes, code)
	}
	if !slices.Contains(codes, Code(def)) {
		return Set{}, fmt.Errorf("%w: %q", ErrDefaultNotSupported, def)
	}
	return Set{def: Code(def), supported: codes}, nil
}

// MustNewSet is NewSet for static configuration; it panics on error.
func MustNewSet(def string, supported ...string) Set {
	set, err := NewSet(def, supported...)
	if err != nil {
		panic(err)
	}
	return set
}

// DefaultSet is the agency site configuration: German by default, English
// as the second language.
func DefaultSet() Set {
	return Set{def: German, supported: []Code{German, English}}
}

// Default returns the fallback locale.
func (s Set) Default() Code { return s.def }

// Supported returns the locales in configuration order.
func (s Set) Supported() []Code { return slices.Clone(s.supported) }

// Contains reports whether input is exactly one of the supported codes.
// Matching is case sensitive and does not trim.
func (s Set) Contains(input string) bool {
	return slices.Contains(s.supported, Code(input))
}

// IsZero reports whether s was never initialised.
func (s Set) IsZero() bool { return s.def == "" }

// Alternates returns every supported locale except current, in order.
func (s Set) Alternates(current Code) []Code {
	out := make([]Code, 0, len(s.supported))
	for _, code := range s.supported {
		if code != current {
			out = append(out, code)
		}
	}
	return out
}

// Negotiate picks the best supported locale for an Accept-Language header.
// Headers that fail to parse or match nothing yield the default.
func (s Set) Negotiate(acceptLanguage string) Code {
	if s.IsZero() {
		return ""
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return s.def
	}

	// The matcher treats the first entry as its own fallback, so the default
	// goes first.
	ordered := make([]Code, 0, len(s.supported))
	ordered = append(ordered, s.def)
	ordered = append(ordered, s.Alternates(s.def)...)

	tags := make([]language.Tag, len(ordered))
	for i, code := range ordered {
		tags[i] = language.Make(string(code))
	}

	_, idx, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No || idx < 0 || idx >= len(ordered) {
		return s.def
	}
	return ordered[idx]
}
