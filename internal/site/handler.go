// Package site is the public, bilingual read API of the agency website.
//
// Every page lives under a locale prefix ("/de/kuenstler/...",
// "/en/artists/..."). The prefix is passed through the locale resolver, so
// an unknown segment renders in the default language instead of failing.
package site

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/i18n"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/markdown"
	"github.com/goliatone/go-agency/internal/media"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

// ErrCatalogRequired is returned by NewHandler without a catalog.
var ErrCatalogRequired = errors.New("site: catalog is required")

// Catalog is the read side the site renders. *catalog.Service satisfies it.
type Catalog interface {
	Artists(ctx context.Context) ([]*catalog.Artist, error)
	Artist(ctx context.Context, slug string) (*catalog.ArtistProfile, error)
	News(ctx context.Context, code locale.Code, page catalog.Page) ([]*catalog.NewsPost, int, error)
	NewsPost(ctx context.Context, code locale.Code, slug string) (*catalog.NewsPost, error)
	Team(ctx context.Context) ([]*catalog.Employee, error)
	Media(ctx context.Context, id uuid.UUID) (media.Asset, error)
}

// Config wires the handler's collaborators. Only Catalog is required.
type Config struct {
	Catalog    Catalog
	Resolver   *locale.Resolver
	Translator *i18n.Translator
	Renderer   *markdown.Renderer
	Links      *Links
	Logger     interfaces.Logger
}

// Handler serves the site routes.
type Handler struct {
	catalog    Catalog
	resolver   *locale.Resolver
	set        locale.Set
	translator *i18n.Translator
	renderer   *markdown.Renderer
	links      *Links
	logger     interfaces.Logger
}

// NewHandler fills unset collaborators with defaults: the default locale
// set, the embedded translations, a safe-mode renderer and relative links.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Catalog == nil {
		return nil, ErrCatalogRequired
	}
	logger := logging.Ensure(cfg.Logger)

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = locale.NewResolver(locale.DefaultSet(), locale.WithLogger(logger))
	}
	set := resolver.Set()

	translator := cfg.Translator
	if translator == nil {
		bundle, err := i18n.DefaultBundle()
		if err != nil {
			return nil, err
		}
		translator = i18n.NewTranslator(set, bundle)
	}

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer(markdown.RenderOptions{SafeMode: true})
	}

	links := cfg.Links
	if links == nil {
		links = NewLinks("", set)
	}

	return &Handler{
		catalog:    cfg.Catalog,
		resolver:   resolver,
		set:        set,
		translator: translator,
		renderer:   renderer,
		links:      links,
		logger:     logger,
	}, nil
}

// Routes returns the site router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", h.RedirectToLocale)
	r.Get("/healthz", h.Health)
	r.Get("/media/{id}", h.GetMedia)

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(h.withLocale)
		r.Get("/", h.Home)

		patterns := routerPatterns(h.set)
		for _, pattern := range sortedPatterns(patterns) {
			r.Get(pattern, h.pageHandler(patterns[pattern]))
		}
	})
	return r
}

func (h *Handler) pageHandler(route string) http.HandlerFunc {
	switch route {
	case RouteArtists:
		return h.ListArtists
	case RouteArtist:
		return h.GetArtist
	case RouteNews:
		return h.ListNews
	case RouteNewsPost:
		return h.GetNewsPost
	case RouteTeam:
		return h.ListTeam
	default:
		return http.NotFound
	}
}

type localeKey struct{}

// LocaleFromContext returns the locale resolved for the request, or ""
// outside a localized route.
func LocaleFromContext(ctx context.Context) locale.Code {
	code, _ := ctx.Value(localeKey{}).(locale.Code)
	return code
}

func (h *Handler) withLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := h.resolver.Resolve(chi.URLParam(r, "locale"))
		ctx := context.WithValue(r.Context(), localeKey{}, code)
		ctx = logging.ContextWithFields(ctx, map[string]any{
			"locale":     string(code),
			"request_id": middleware.GetReqID(ctx),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectToLocale sends "/" to the home page of the best language for the
// Accept-Language header.
func (h *Handler) RedirectToLocale(w http.ResponseWriter, r *http.Request) {
	code := h.set.Negotiate(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, "/"+string(code)+"/", http.StatusFound)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}

// Home returns the labels and navigation of the start page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	h.respond(w, r, code, "", nil, nil)
}

// ListArtists returns the published artists.
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	artists, err := h.catalog.Artists(r.Context())
	if err != nil {
		h.fail(w, r, code, err)
		return
	}
	views := make([]ArtistView, 0, len(artists))
	for _, artist := range artists {
		views = append(views, h.artistView(code, artist))
	}
	h.respond(w, r, code, RouteArtists, nil, views)
}

// GetArtist returns one artist with portrait and recordings.
func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	slug := chi.URLParam(r, "slug")
	profile, err := h.catalog.Artist(r.Context(), slug)
	if err != nil {
		h.fail(w, r, code, err)
		return
	}

	view := ArtistDetailView{
		ArtistView: h.artistView(code, profile.Artist),
		Biography:  profile.Artist.Biography.In(code, h.set),
		Portrait:   h.mediaView(code, profile.Portrait),
		Recordings: make([]RecordingView, 0, len(profile.Recordings)),
	}
	for _, recording := range profile.Recordings {
		view.Recordings = append(view.Recordings, h.recordingView(code, recording))
	}
	h.respond(w, r, code, RouteArtist, map[string]string{"slug": slug}, view)
}

// ListNews returns a page of news in the request locale. The window is
// read from the limit and offset query parameters.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	page, err := pageFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.catalog.News(r.Context(), code, page)
	if err != nil {
		h.fail(w, r, code, err)
		return
	}
	if page.Limit <= 0 {
		page.Limit = catalog.DefaultPageSize
	}

	view := NewsListView{Items: make([]NewsView, 0, len(posts)), Total: total, Limit: page.Limit, Offset: page.Offset}
	for _, post := range posts {
		view.Items = append(view.Items, h.newsView(code, post))
	}
	h.respond(w, r, code, RouteNews, nil, view)
}

// GetNewsPost returns a news post with its body rendered to HTML. News is
// written per language, so the alternates point at the news index.
func (h *Handler) GetNewsPost(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	post, err := h.catalog.NewsPost(r.Context(), code, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, code, err)
		return
	}

	body := post.Body
	if post.BodyFormat != catalog.FormatHTML {
		html, err := h.renderer.Render([]byte(post.Body))
		if err != nil {
			h.fail(w, r, code, err)
			return
		}
		body = string(html)
	}

	view := NewsDetailView{NewsView: h.newsView(code, post), HTML: body}
	h.respond(w, r, code, RouteNews, nil, view)
}

// ListTeam returns the agency employees.
func (h *Handler) ListTeam(w http.ResponseWriter, r *http.Request) {
	code := LocaleFromContext(r.Context())
	team, err := h.catalog.Team(r.Context())
	if err != nil {
		h.fail(w, r, code, err)
		return
	}
	views := make([]EmployeeView, 0, len(team))
	for _, employee := range team {
		views = append(views, h.employeeView(code, employee))
	}
	h.respond(w, r, code, RouteTeam, nil, views)
}

// GetMedia returns a classified media asset. Alt text and labels follow
// the Accept-Language header.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	code := h.set.Negotiate(r.Header.Get("Accept-Language"))
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return
	}
	asset, err := h.catalog.Media(r.Context(), id)
	if err != nil {
		h.fail(w, r, code, err)
		return
	}
	render.JSON(w, r, h.mediaView(code, asset))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, code locale.Code, route string, params map[string]string, data any) {
	envelope := Envelope{
		Locale:     code,
		Labels:     h.translator.Labels(code),
		Navigation: h.navigation(code),
		Data:       data,
	}
	if route != "" {
		envelope.Alternates = h.links.Alternates(code, route, params)
	}
	render.JSON(w, r, envelope)
}

func (h *Handler) navigation(code locale.Code) []Link {
	items := []struct{ route, label string }{
		{RouteArtists, "nav.artists"},
		{RouteNews, "nav.news"},
		{RouteTeam, "nav.team"},
	}
	nav := make([]Link, 0, len(items))
	for _, item := range items {
		nav = append(nav, Link{
			Label: h.translator.Translate(code, item.label),
			URL:   h.url(code, item.route, nil),
		})
	}
	return nav
}

func (h *Handler) url(code locale.Code, route string, params map[string]string) string {
	url, err := h.links.URL(code, route, params)
	if err != nil {
		h.logger.Warn("site.link.failed", "route", route, "locale", string(code), "error", err)
		return ""
	}
	return url
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, code locale.Code, err error) {
	logger := logging.FromContext(r.Context(), h.logger)

	var notFound *catalog.NotFoundError
	status, key := http.StatusInternalServerError, "error.internal"
	switch {
	case errors.As(err, &notFound):
		status, key = http.StatusNotFound, "error.not_found"
	case errors.Is(err, media.ErrUnclassifiedMedia):
		logger.Error("site.media.unclassified", "path", r.URL.Path, "error", err)
	default:
		logger.Error("site.request.failed", "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorView{Status: status, Message: h.translator.Translate(code, key)})
}

func pageFromQuery(r *http.Request) (catalog.Page, error) {
	var page catalog.Page
	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return page, errors.New("invalid limit")
		}
		page.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, errors.New("invalid offset")
		}
		page.Offset = offset
	}
	return page, nil
}
