package site_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/media"
	"github.com/goliatone/go-agency/internal/site"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

type warnLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *warnLogger) Trace(string, ...any) {}
func (l *warnLogger) Debug(string, ...any) {}
func (l *warnLogger) Info(string, ...any)  {}
func (l *warnLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}
func (l *warnLogger) Error(string, ...any)                          {}
func (l *warnLogger) Fatal(string, ...any)                          {}
func (l *warnLogger) WithContext(context.Context) interfaces.Logger { return l }

type stubCatalog struct {
	artists  []*catalog.Artist
	profiles map[string]*catalog.ArtistProfile
	news     map[locale.Code][]*catalog.NewsPost
	team     []*catalog.Employee
	media    map[uuid.UUID]media.Asset
	mediaErr error
	lastPage catalog.Page
}

func (s *stubCatalog) Artists(context.Context) ([]*catalog.Artist, error) {
	return s.artists, nil
}

func (s *stubCatalog) Artist(_ context.Context, slug string) (*catalog.ArtistProfile, error) {
	profile, ok := s.profiles[slug]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "artist", Key: slug}
	}
	return profile, nil
}

func (s *stubCatalog) News(_ context.Context, code locale.Code, page catalog.Page) ([]*catalog.NewsPost, int, error) {
	s.lastPage = page
	return s.news[code], len(s.news[code]), nil
}

func (s *stubCatalog) NewsPost(_ context.Context, code locale.Code, slug string) (*catalog.NewsPost, error) {
	for _, post := range s.news[code] {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, &catalog.NotFoundError{Resource: "news", Key: slug}
}

func (s *stubCatalog) Team(context.Context) ([]*catalog.Employee, error) {
	return s.team, nil
}

func (s *stubCatalog) Media(_ context.Context, id uuid.UUID) (media.Asset, error) {
	if s.mediaErr != nil {
		return nil, s.mediaErr
	}
	asset, ok := s.media[id]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "media", Key: id.String()}
	}
	return asset, nil
}

var (
	portraitID = uuid.MustParse("6f1c2f8e-1a53-4b8e-9f69-1f2d3c4b5a61")
	riderID    = uuid.MustParse("0b7e5d3a-9c41-4f0e-8a2b-7d6c5e4f3a21")
)

func newStubCatalog() *stubCatalog {
	anna := &catalog.Artist{
		ID:         uuid.MustParse("c9a646d3-9c61-4cb7-bfcd-ee2522c8f633"),
		Name:       "Anna Berg",
		Slug:       "anna-berg",
		Discipline: locale.Text{"de": "Violine", "en": "Violin"},
		Biography:  locale.Text{"de": "Geboren in Wien.", "en": "Born in Vienna."},
		Published:  true,
	}
	portrait := media.Image{
		Meta:   media.Meta{ID: portraitID.String(), URL: "/uploads/anna.jpg", Alt: locale.Text{"de": "Anna mit Geige"}},
		Width:  800,
		Height: 1200,
	}
	return &stubCatalog{
		artists: []*catalog.Artist{anna},
		profiles: map[string]*catalog.ArtistProfile{
			"anna-berg": {
				Artist:   anna,
				Portrait: portrait,
				Recordings: []*catalog.Recording{
					{Title: "Bach Partiten", ReleaseYear: 2021, Description: locale.Text{"de": "Solo"}},
				},
			},
		},
		news: map[locale.Code][]*catalog.NewsPost{
			locale.German: {
				{
					Title:       "Neue CD",
					Slug:        "neue-cd",
					Body:        "Die CD ist **erschienen**.",
					BodyFormat:  catalog.FormatMarkdown,
					PublishedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				},
			},
			locale.English: {
				{
					Title:      "Tour",
					Slug:       "tour",
					Body:       "<p>On <em>tour</em></p>",
					BodyFormat: catalog.FormatHTML,
				},
			},
		},
		team: []*catalog.Employee{
			{Name: "Astrid Schörke", Role: locale.Text{"de": "Künstlersekretariat", "en": "Artist management"}},
		},
		media: map[uuid.UUID]media.Asset{
			portraitID: portrait,
			riderID:    media.Document{Meta: media.Meta{ID: riderID.String(), URL: "/uploads/rider.pdf", MimeType: "application/pdf"}},
		},
	}
}

func newTestHandler(t *testing.T, cat site.Catalog, logger interfaces.Logger) http.Handler {
	t.Helper()
	resolver := locale.NewResolver(locale.DefaultSet(), locale.WithLogger(logger))
	handler, err := site.NewHandler(site.Config{
		Catalog:  cat,
		Resolver: resolver,
		Links:    site.NewLinks("https://example.com", resolver.Set()),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler.Routes()
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Locale     string            `json:"locale"`
	Labels     map[string]string `json:"labels"`
	Navigation []site.Link       `json:"navigation"`
	Alternates []site.Link       `json:"alternates"`
	Data       T                 `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRootRedirectsToNegotiatedLocale(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})

	cases := []struct {
		header string
		want   string
	}{
		{"en-US,en;q=0.9", "/en/"},
		{"de-AT", "/de/"},
		{"fr-FR", "/de/"},
		{"", "/de/"},
	}
	for _, tc := range cases {
		rec := get(t, h, "/", map[string]string{"Accept-Language": tc.header})
		if rec.Code != http.StatusFound {
			t.Fatalf("%q: expected 302, got %d", tc.header, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.want {
			t.Fatalf("%q: expected redirect to %s, got %s", tc.header, tc.want, got)
		}
	}
}

func TestUnknownLocaleSegmentFallsBackToDefault(t *testing.T) {
	logger := &warnLogger{}
	h := newTestHandler(t, newStubCatalog(), logger)

	rec := get(t, h, "/fr/team", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[envelope[[]site.EmployeeView]](t, rec)
	if body.Locale != "de" {
		t.Fatalf("expected default locale, got %q", body.Locale)
	}
	if body.Data[0].Role != "Künstlersekretariat" {
		t.Fatalf("expected german role, got %q", body.Data[0].Role)
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "locale.resolve.fallback" {
		t.Fatalf("expected one fallback warning, got %v", logger.warnings)
	}
}

func TestSupportedLocaleDoesNotWarn(t *testing.T) {
	logger := &warnLogger{}
	h := newTestHandler(t, newStubCatalog(), logger)

	rec := get(t, h, "/en/team", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[envelope[[]site.EmployeeView]](t, rec)
	if body.Locale != "en" || body.Data[0].Role != "Artist management" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Labels["nav.team"] != "Team" {
		t.Fatalf("expected labels, got %v", body.Labels)
	}
	if len(logger.warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", logger.warnings)
	}
}

func TestArtistDetailIsLocalized(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})

	rec := get(t, h, "/en/artists/anna-berg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[envelope[site.ArtistDetailView]](t, rec)
	if body.Data.Biography != "Born in Vienna." || body.Data.Discipline != "Violin" {
		t.Fatalf("expected english texts, got %+v", body.Data)
	}
	if body.Data.URL != "https://example.com/en/artists/anna-berg" {
		t.Fatalf("unexpected artist url %q", body.Data.URL)
	}
	if body.Data.Portrait == nil || body.Data.Portrait.Presentation != "inline" || body.Data.Portrait.Width != 800 {
		t.Fatalf("expected inline portrait, got %+v", body.Data.Portrait)
	}
	if body.Data.Portrait.Alt != "Anna mit Geige" {
		t.Fatalf("expected alt text to fall back to german, got %q", body.Data.Portrait.Alt)
	}
	if len(body.Data.Recordings) != 1 || body.Data.Recordings[0].Description != "Solo" {
		t.Fatalf("unexpected recordings %+v", body.Data.Recordings)
	}
	if len(body.Alternates) != 1 || body.Alternates[0].URL != "https://example.com/de/kuenstler/anna-berg" {
		t.Fatalf("unexpected alternates %+v", body.Alternates)
	}

	rec = get(t, h, "/de/kuenstler/anna-berg", nil)
	german := decode[envelope[site.ArtistDetailView]](t, rec)
	if german.Data.Biography != "Geboren in Wien." {
		t.Fatalf("expected german biography, got %q", german.Data.Biography)
	}
	if german.Labels["nav.artists"] != "Künstler" {
		t.Fatalf("expected german labels, got %v", german.Labels)
	}
}

func TestArtistNotFoundIsTranslated(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})

	rec := get(t, h, "/de/kuenstler/unbekannt", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decode[site.ErrorView](t, rec)
	if body.Message != "Seite nicht gefunden" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestNewsPostBodies(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})

	rec := get(t, h, "/de/aktuelles/neue-cd", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	de := decode[envelope[site.NewsDetailView]](t, rec)
	if !strings.Contains(de.Data.HTML, "<strong>erschienen</strong>") {
		t.Fatalf("expected rendered markdown, got %q", de.Data.HTML)
	}
	if de.Data.PublishedLabel != "Veröffentlicht am 5.3.2024" {
		t.Fatalf("unexpected published label %q", de.Data.PublishedLabel)
	}
	if len(de.Alternates) != 1 || de.Alternates[0].URL != "https://example.com/en/news" {
		t.Fatalf("expected alternates to the news index, got %+v", de.Alternates)
	}

	rec = get(t, h, "/en/news/tour", nil)
	en := decode[envelope[site.NewsDetailView]](t, rec)
	if en.Data.HTML != "<p>On <em>tour</em></p>" {
		t.Fatalf("expected html body passed through, got %q", en.Data.HTML)
	}
}

func TestNewsListPaging(t *testing.T) {
	cat := newStubCatalog()
	h := newTestHandler(t, cat, &warnLogger{})

	rec := get(t, h, "/de/aktuelles?limit=5&offset=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cat.lastPage != (catalog.Page{Limit: 5, Offset: 10}) {
		t.Fatalf("unexpected page %+v", cat.lastPage)
	}
	body := decode[envelope[site.NewsListView]](t, rec)
	if body.Data.Total != 1 || body.Data.Items[0].URL != "https://example.com/de/aktuelles/neue-cd" {
		t.Fatalf("unexpected list %+v", body.Data)
	}

	rec = get(t, h, "/de/aktuelles?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid limit, got %d", rec.Code)
	}
}

func TestNavigationLinks(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})

	body := decode[envelope[any]](t, get(t, h, "/de/", nil))
	want := []site.Link{
		{Label: "Künstler", URL: "https://example.com/de/kuenstler"},
		{Label: "Aktuelles", URL: "https://example.com/de/aktuelles"},
		{Label: "Team", URL: "https://example.com/de/team"},
	}
	if len(body.Navigation) != len(want) {
		t.Fatalf("unexpected navigation %+v", body.Navigation)
	}
	for i := range want {
		if body.Navigation[i] != want[i] {
			t.Fatalf("navigation[%d] = %+v, want %+v", i, body.Navigation[i], want[i])
		}
	}
}

func TestMediaEndpoint(t *testing.T) {
	cat := newStubCatalog()
	h := newTestHandler(t, cat, &warnLogger{})

	rec := get(t, h, "/media/"+riderID.String(), map[string]string{"Accept-Language": "de"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := decode[site.MediaView](t, rec)
	if doc.Kind != "document" || doc.Presentation != "download" || doc.Label != "Herunterladen" {
		t.Fatalf("unexpected document view %+v", doc)
	}
	if doc.Width != 0 || doc.Height != 0 {
		t.Fatalf("documents carry no dimensions: %+v", doc)
	}

	if rec := get(t, h, "/media/not-a-uuid", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	cat.mediaErr = &media.ClassificationError{}
	if rec := get(t, h, "/media/"+riderID.String(), nil); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unclassified media, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, newStubCatalog(), &warnLogger{})
	rec := get(t, h, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewHandlerRequiresCatalog(t *testing.T) {
	if _, err := site.NewHandler(site.Config{}); err != site.ErrCatalogRequired {
		t.Fatalf("expected ErrCatalogRequired, got %v", err)
	}
}
