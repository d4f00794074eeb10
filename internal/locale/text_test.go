package locale

import "testing"

func TestTextInFallsBack(t *testing.T) {
	set := DefaultSet()
	text := Text{"de": "Biografie", "en": "Biography"}

	if got := text.In(English, set); got != "Biography" {
		t.Fatalf("In(en) = %q", got)
	}

	germanOnly := Text{"de": "Nur Deutsch", "en": "  "}
	if got := germanOnly.In(English, set); got != "Nur Deutsch" {
		t.Fatalf("expected default fallback, got %q", got)
	}

	englishOnly := Text{"en": "English only"}
	if got := englishOnly.In(German, set); got != "English only" {
		t.Fatalf("expected first available value, got %q", got)
	}

	if got := (Text{}).In(German, set); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestTextMissing(t *testing.T) {
	set := DefaultSet()
	missing := Text{"de": "Hallo"}.Missing(set)
	if len(missing) != 1 || missing[0] != English {
		t.Fatalf("expected [en], got %v", missing)
	}
	if !(Text{"en": "x"}).Has(English) {
		t.Fatal("expected Has(en)")
	}
}
