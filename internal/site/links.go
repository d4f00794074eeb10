package site

import (
	"fmt"
	"sort"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-agency/internal/locale"
)

// Route names understood by Links and registered by the router.
const (
	RouteArtists  = "artists"
	RouteArtist   = "artist"
	RouteNews     = "news"
	RouteNewsPost = "news_post"
	RouteTeam     = "team"
	RouteMedia    = "media"
)

const rootGroup = "site"

// localizedPaths holds the per-language path of every page route. Locales
// without an entry use the English paths.
var localizedPaths = map[locale.Code]map[string]string{
	locale.German: {
		RouteArtists:  "/kuenstler",
		RouteArtist:   "/kuenstler/:slug",
		RouteNews:     "/aktuelles",
		RouteNewsPost: "/aktuelles/:slug",
		RouteTeam:     "/team",
	},
	locale.English: {
		RouteArtists:  "/artists",
		RouteArtist:   "/artists/:slug",
		RouteNews:     "/news",
		RouteNewsPost: "/news/:slug",
		RouteTeam:     "/team",
	},
}

func pathsFor(code locale.Code) map[string]string {
	if paths, ok := localizedPaths[code]; ok {
		return paths
	}
	return localizedPaths[locale.English]
}

// Link is a labelled URL.
type Link struct {
	Locale string `json:"locale,omitempty"`
	Label  string `json:"label,omitempty"`
	URL    string `json:"url"`
}

// Links builds absolute, localized URLs with go-urlkit. Each supported
// locale is a child group of the site group mounted under "/<code>".
type Links struct {
	manager *urlkit.RouteManager
	set     locale.Set
}

// NewLinks registers the localized routes of set under baseURL.
func NewLinks(baseURL string, set locale.Set) *Links {
	if set.IsZero() {
		set = locale.DefaultSet()
	}

	children := make([]urlkit.GroupConfig, 0, len(set.Supported()))
	for _, code := range set.Supported() {
		children = append(children, urlkit.GroupConfig{
			Name:  string(code),
			Path:  "/" + string(code),
			Paths: pathsFor(code),
		})
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    rootGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					RouteMedia: "/media/:id",
				},
				Groups: children,
			},
		},
	})
	return &Links{manager: manager, set: set}
}

// URL builds route in the language of code. params fill the route's
// placeholders.
func (l *Links) URL(code locale.Code, route string, params map[string]string) (string, error) {
	root, err := lookupGroup(l.manager, rootGroup)
	if err != nil {
		return "", err
	}
	group, err := lookupChildGroup(root, string(code))
	if err != nil {
		return "", err
	}
	return build(group, route, params)
}

// Media builds the locale independent URL of a media asset.
func (l *Links) Media(id string) (string, error) {
	root, err := lookupGroup(l.manager, rootGroup)
	if err != nil {
		return "", err
	}
	return build(root, RouteMedia, map[string]string{"id": id})
}

// Alternates returns route in every other supported locale. Locales whose
// URL cannot be built are left out.
func (l *Links) Alternates(current locale.Code, route string, params map[string]string) []Link {
	codes := l.set.Alternates(current)
	out := make([]Link, 0, len(codes))
	for _, code := range codes {
		url, err := l.URL(code, route, params)
		if err != nil {
			continue
		}
		out = append(out, Link{Locale: string(code), URL: url})
	}
	return out
}

// routerPatterns returns the chi patterns of every localized page route,
// deduplicated, keyed by pattern.
func routerPatterns(set locale.Set) map[string]string {
	patterns := map[string]string{}
	for _, code := range set.Supported() {
		for route, path := range pathsFor(code) {
			patterns[toChiPattern(path)] = route
		}
	}
	return patterns
}

func sortedPatterns(patterns map[string]string) []string {
	keys := make([]string, 0, len(patterns))
	for key := range patterns {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// toChiPattern rewrites "/a/:slug" into "/a/{slug}".
func toChiPattern(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + strings.TrimPrefix(segment, ":") + "}"
		}
	}
	return strings.Join(segments, "/")
}

func build(group *urlkit.Group, route string, params map[string]string) (string, error) {
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("site: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("site: route %q not found", route)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("site: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("site: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("site: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("site: locale group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
