package i18n

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goliatone/go-agency/internal/locale"
)

// Translator looks up labels with locale fallback: the requested locale,
// then the default locale, then the key itself.
type Translator struct {
	set    locale.Set
	labels Bundle
}

// NewTranslator builds a Translator over bundle.
func NewTranslator(set locale.Set, bundle Bundle) *Translator {
	if set.IsZero() {
		set = locale.DefaultSet()
	}
	return &Translator{set: set, labels: bundle}
}

// Translate returns the label for key. Extra args are applied with
// fmt.Sprintf when present.
func (t *Translator) Translate(code locale.Code, key string, args ...any) string {
	label, ok := t.labels[string(code)][key]
	if !ok {
		label, ok = t.labels[string(t.set.Default())][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(label, args...)
	}
	return label
}

// Labels returns every label for code, filled from the default locale
// where code has none.
func (t *Translator) Labels(code locale.Code) map[string]string {
	out := maps.Clone(t.labels[string(t.set.Default())])
	if out == nil {
		out = map[string]string{}
	}
	maps.Copy(out, t.labels[string(code)])
	return out
}

// Missing lists keys of the default locale that code does not translate.
func (t *Translator) Missing(code locale.Code) []string {
	var missing []string
	for key := range t.labels[string(t.set.Default())] {
		if _, ok := t.labels[string(code)][key]; !ok {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}
