package locale

import "strings"

// Text holds one string per locale code. It is stored as a JSON object by the
// catalog models.
type Text map[string]string

// In returns the value for code, falling back to the set default and then to
// the first non-blank value in set order.
func (t Text) In(code Code, set Set) string {
	if len(t) == 0 {
		return ""
	}
	if value := strings.TrimSpace(t[string(code)]); value != "" {
		return t[string(code)]
	}
	if value := strings.TrimSpace(t[string(set.def)]); value != "" {
		return t[string(set.def)]
	}
	for _, candidate := range set.supported {
		if value := strings.TrimSpace(t[string(candidate)]); value != "" {
			return t[string(candidate)]
		}
	}
	return ""
}

// Has reports whether a non-blank value exists for code itself, without
// fallback.
func (t Text) Has(code Code) bool {
	return strings.TrimSpace(t[string(code)]) != ""
}

// Missing lists the supported locales without a value.
func (t Text) Missing(set Set) []Code {
	var out []Code
	for _, code := range set.supported {
		if !t.Has(code) {
			out = append(out, code)
		}
	}
	return out
}
