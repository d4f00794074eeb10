// Package catalog holds the agency content models and their repositories.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/media"
)

// Collection names shared by the store, schemas and the slug backfill.
const (
	CollectionArtists    = "artists"
	CollectionRecordings = "recordings"
	CollectionNews       = "news"
	CollectionEmployees  = "employees"
	CollectionMedia      = "media"
)

// Body formats of a news post.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Artist is a musician or ensemble represented by the agency.
type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID         uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Name       string      `bun:"name,notnull" json:"name"`
	Slug       string      `bun:"slug,nullzero" json:"slug,omitempty"`
	Discipline locale.Text `bun:"discipline,type:jsonb" json:"discipline,omitempty"`
	Biography  locale.Text `bun:"biography,type:jsonb" json:"biography,omitempty"`
	PortraitID *uuid.UUID  `bun:"portrait_id,type:uuid" json:"portrait_id,omitempty"`
	Position   int         `bun:"position,notnull,default:0" json:"position"`
	Published  bool        `bun:"published,notnull,default:false" json:"published"`
	CreatedAt  time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Recording is a release (CD, album) by an artist.
type Recording struct {
	bun.BaseModel `bun:"table:recordings,alias:r"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	ArtistID    uuid.UUID   `bun:"artist_id,notnull,type:uuid" json:"artist_id"`
	Title       string      `bun:"title,notnull" json:"title"`
	Slug        string      `bun:"slug,nullzero" json:"slug,omitempty"`
	Label       string      `bun:"label" json:"label,omitempty"`
	ReleaseYear int         `bun:"release_year" json:"release_year,omitempty"`
	Description locale.Text `bun:"description,type:jsonb" json:"description,omitempty"`
	CoverID     *uuid.UUID  `bun:"cover_id,type:uuid" json:"cover_id,omitempty"`
	CreatedAt   time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewsPost is a single-language news article.
type NewsPost struct {
	bun.BaseModel `bun:"table:news,alias:n"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Locale      string    `bun:"locale,notnull" json:"locale"`
	Title       string    `bun:"title,notnull" json:"title"`
	Slug        string    `bun:"slug,notnull" json:"slug"`
	Excerpt     string    `bun:"excerpt" json:"excerpt,omitempty"`
	Body        string    `bun:"body,notnull" json:"body"`
	BodyFormat  string    `bun:"body_format,notnull,default:'markdown'" json:"body_format"`
	PublishedAt time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	Source      string    `bun:"source" json:"source,omitempty"`
	SourceID    string    `bun:"source_id" json:"source_id,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Employee is a member of the agency team.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	ID        uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Name      string      `bun:"name,notnull" json:"name"`
	Slug      string      `bun:"slug,nullzero" json:"slug,omitempty"`
	Role      locale.Text `bun:"role,type:jsonb" json:"role,omitempty"`
	Email     string      `bun:"email" json:"email,omitempty"`
	Phone     string      `bun:"phone" json:"phone,omitempty"`
	PhotoID   *uuid.UUID  `bun:"photo_id,type:uuid" json:"photo_id,omitempty"`
	Position  int         `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// MediaAsset is the stored form of an image or document. Width and
// Height are nullable; their presence decides the variant.
type MediaAsset struct {
	bun.BaseModel `bun:"table:media,alias:m"`

	ID        uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Filename  string      `bun:"filename,notnull" json:"filename"`
	URL       string      `bun:"url,notnull" json:"url"`
	MimeType  string      `bun:"mime_type" json:"mime_type,omitempty"`
	Filesize  int64       `bun:"filesize" json:"filesize,omitempty"`
	Width     *int        `bun:"width" json:"width,omitempty"`
	Height    *int        `bun:"height" json:"height,omitempty"`
	Alt       locale.Text `bun:"alt,type:jsonb" json:"alt,omitempty"`
	CreatedAt time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Attributes exposes the row as an untyped record for media.Parse.
func (m *MediaAsset) Attributes() media.Attributes {
	attrs := media.Attributes{
		"id":        m.ID.String(),
		"filename":  m.Filename,
		"url":       m.URL,
		"mime_type": m.MimeType,
		"filesize":  m.Filesize,
	}
	if len(m.Alt) > 0 {
		attrs["alt"] = m.Alt
	}
	if m.Width != nil {
		attrs[media.AttrWidth] = *m.Width
	}
	if m.Height != nil {
		attrs[media.AttrHeight] = *m.Height
	}
	return attrs
}
