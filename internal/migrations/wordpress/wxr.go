// Package wordpress reads WordPress eXtended RSS (WXR) exports.
package wordpress

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/migrations"
)

const (
	postTypePost     = "post"
	statusPublish    = "publish"
	statusTrash      = "trash"
	languageTaxonomy = "language"
	wpDateLayout     = "2006-01-02 15:04:05"
	zeroDate         = "0000-00-00 00:00:00"
)

type rss struct {
	Channel channel `xml:"channel"`
}

type channel struct {
	Language string `xml:"language"`
	Items    []item `xml:"item"`
}

type item struct {
	Title       string     `xml:"title"`
	PubDate     string     `xml:"pubDate"`
	Encoded     []encoded  `xml:"encoded"`
	PostID      string     `xml:"post_id"`
	PostDate    string     `xml:"post_date"`
	PostDateGMT string     `xml:"post_date_gmt"`
	PostName    string     `xml:"post_name"`
	Status      string     `xml:"status"`
	PostType    string     `xml:"post_type"`
	Categories  []category `xml:"category"`
}

// encoded covers content:encoded and excerpt:encoded, which share a local
// name and differ by namespace.
type encoded struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Value    string `xml:",chardata"`
}

// Reader converts a WXR document into migration entries.
type Reader struct {
	stripper *ShortcodeStripper
}

// NewReader builds a Reader that strips the given shortcodes (defaults to
// DefaultShortcodes).
func NewReader(shortcodes ...string) *Reader {
	return &Reader{stripper: NewShortcodeStripper(shortcodes...)}
}

// ReadFile opens path and reads it. A missing file is a setup error.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]migrations.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordpress: open export %q: %w", path, err)
	}
	defer file.Close()
	return r.Read(ctx, file)
}

// Read decodes a WXR export. Only items of type "post" are returned;
// trashed posts are dropped and unpublished ones are marked as drafts.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]migrations.Entry, error) {
	var doc rss
	if err := xml.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("wordpress: decode export: %w", err)
	}

	channelLocale := languageCode(doc.Channel.Language)
	entries := make([]migrations.Entry, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(it.PostType) != postTypePost {
			continue
		}
		status := strings.TrimSpace(it.Status)
		if status == statusTrash {
			continue
		}

		loc := it.language()
		if loc == "" {
			loc = channelLocale
		}

		entries = append(entries, migrations.Entry{
			Source:      migrations.SourceWordPress,
			SourceID:    strings.TrimSpace(it.PostID),
			Locale:      loc,
			Title:       strings.TrimSpace(it.Title),
			Slug:        decodePostName(it.PostName),
			Excerpt:     strings.TrimSpace(it.encoded("/excerpt/")),
			Body:        Autop(r.stripper.Process(it.encoded("/content/"))),
			BodyFormat:  catalog.FormatHTML,
			PublishedAt: it.publishedAt(),
			Draft:       status != statusPublish,
		})
	}
	return entries, nil
}

func (it item) encoded(namespaceFragment string) string {
	for _, e := range it.Encoded {
		if strings.Contains(e.XMLName.Space, namespaceFragment) {
			return e.Value
		}
	}
	return ""
}

// language returns the Polylang language term of the item, if any.
func (it item) language() string {
	for _, c := range it.Categories {
		if c.Domain != languageTaxonomy {
			continue
		}
		if code := languageCode(c.Nicename); code != "" {
			return code
		}
		return languageCode(c.Value)
	}
	return ""
}

func (it item) publishedAt() time.Time {
	if gmt := strings.TrimSpace(it.PostDateGMT); gmt != "" && gmt != zeroDate {
		if ts, err := time.ParseInLocation(wpDateLayout, gmt, time.UTC); err == nil {
			return ts
		}
	}
	if local := strings.TrimSpace(it.PostDate); local != "" && local != zeroDate {
		if ts, err := time.ParseInLocation(wpDateLayout, local, time.UTC); err == nil {
			return ts
		}
	}
	if pub := strings.TrimSpace(it.PubDate); pub != "" {
		if ts, err := time.Parse(time.RFC1123Z, pub); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// languageCode reduces "de-DE" or "de_DE" to "de".
func languageCode(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexAny(value, "-_"); idx > 0 {
		value = value[:idx]
	}
	return value
}

func decodePostName(name string) string {
	name = strings.TrimSpace(name)
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
