package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-agency/internal/locale"
)

func TestDefaultBundleIsComplete(t *testing.T) {
	bundle, err := DefaultBundle()
	if err != nil {
		t.Fatalf("default bundle: %v", err)
	}
	tr := NewTranslator(locale.DefaultSet(), bundle)
	for _, code := range locale.DefaultSet().Supported() {
		if missing := tr.Missing(code); len(missing) > 0 {
			t.Fatalf("locale %s is missing labels %v", code, missing)
		}
	}
}

func TestTranslateFallbacks(t *testing.T) {
	bundle := Bundle{
		"de": {"nav.artists": "Künstler", "news.published": "Veröffentlicht am %s", "only.de": "nur deutsch"},
		"en": {"nav.artists": "Artists"},
	}
	tr := NewTranslator(locale.DefaultSet(), bundle)

	if got := tr.Translate(locale.English, "nav.artists"); got != "Artists" {
		t.Fatalf("expected english label, got %q", got)
	}
	if got := tr.Translate(locale.English, "only.de"); got != "nur deutsch" {
		t.Fatalf("expected default locale fallback, got %q", got)
	}
	if got := tr.Translate(locale.German, "unknown.key"); got != "unknown.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := tr.Translate(locale.German, "news.published", "1. März 2024"); got != "Veröffentlicht am 1. März 2024" {
		t.Fatalf("expected formatted label, got %q", got)
	}

	labels := tr.Labels(locale.English)
	if labels["nav.artists"] != "Artists" || labels["only.de"] != "nur deutsch" {
		t.Fatalf("unexpected merged labels %v", labels)
	}
}

func TestLoaderMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	if err := os.WriteFile(path, []byte(`{"en":{"nav.news":"Press"}}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	override, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	base, err := DefaultBundle()
	if err != nil {
		t.Fatalf("default bundle: %v", err)
	}
	merged := base.Merge(override)
	if merged["en"]["nav.news"] != "Press" {
		t.Fatalf("expected override, got %q", merged["en"]["nav.news"])
	}
	if base["en"]["nav.news"] != "News" {
		t.Fatalf("expected base bundle to stay untouched, got %q", base["en"]["nav.news"])
	}

	if _, err := NewLoader("").Load(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
