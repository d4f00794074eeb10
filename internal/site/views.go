package site

import (
	"time"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/media"
)

// Envelope wraps every localized response with the labels and links a
// page template needs.
type Envelope struct {
	Locale     locale.Code       `json:"locale"`
	Labels     map[string]string `json:"labels"`
	Navigation []Link            `json:"navigation"`
	Alternates []Link            `json:"alternates,omitempty"`
	Data       any               `json:"data,omitempty"`
}

// ArtistView is an artist rendered in one language.
type ArtistView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Discipline string `json:"discipline,omitempty"`
	URL        string `json:"url,omitempty"`
}

// ArtistDetailView adds the biography, portrait and discography.
type ArtistDetailView struct {
	ArtistView
	Biography  string          `json:"biography,omitempty"`
	Portrait   *MediaView      `json:"portrait,omitempty"`
	Recordings []RecordingView `json:"recordings"`
}

// RecordingView is a discography entry.
type RecordingView struct {
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Label       string `json:"label,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
	Description string `json:"description,omitempty"`
}

// MediaView is a classified media asset. Images carry dimensions and
// render inline; documents render as a download link.
type MediaView struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Presentation string `json:"presentation"`
	URL          string `json:"url"`
	Filename     string `json:"filename,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Alt          string `json:"alt,omitempty"`
	Label        string `json:"label,omitempty"`
}

// NewsView is a news teaser.
type NewsView struct {
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt,omitempty"`
	PublishedAt    time.Time `json:"published_at,omitempty"`
	PublishedLabel string    `json:"published_label,omitempty"`
	URL            string    `json:"url,omitempty"`
}

// NewsDetailView carries the rendered HTML body.
type NewsDetailView struct {
	NewsView
	HTML string `json:"html"`
}

// NewsListView is one page of news.
type NewsListView struct {
	Items  []NewsView `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// EmployeeView is a team member.
type EmployeeView struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ErrorView is the body of every error response.
type ErrorView struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) artistView(code locale.Code, artist *catalog.Artist) ArtistView {
	view := ArtistView{
		ID:         artist.ID.String(),
		Name:       artist.Name,
		Slug:       artist.Slug,
		Discipline: artist.Discipline.In(code, h.set),
	}
	if artist.Slug != "" {
		view.URL = h.url(code, RouteArtist, map[string]string{"slug": artist.Slug})
	}
	return view
}

func (h *Handler) recordingView(code locale.Code, recording *catalog.Recording) RecordingView {
	return RecordingView{
		Title:       recording.Title,
		Slug:        recording.Slug,
		Label:       recording.Label,
		ReleaseYear: recording.ReleaseYear,
		Description: recording.Description.In(code, h.set),
	}
}

func (h *Handler) mediaView(code locale.Code, asset media.Asset) *MediaView {
	if asset == nil {
		return nil
	}
	meta := asset.Info()
	view := &MediaView{
		ID:           meta.ID,
		Kind:         string(asset.Kind()),
		Presentation: media.Presentation(asset),
		URL:          meta.URL,
		Filename:     meta.Filename,
		MimeType:     meta.MimeType,
		Alt:          meta.Alt.In(code, h.set),
	}
	switch v := asset.(type) {
	case media.Image:
		view.Width, view.Height = v.Width, v.Height
	case media.Document:
		view.Label = h.translator.Translate(code, "media.download")
	}
	return view
}

func (h *Handler) newsView(code locale.Code, post *catalog.NewsPost) NewsView {
	view := NewsView{
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		PublishedAt: post.PublishedAt,
		URL:         h.url(code, RouteNewsPost, map[string]string{"slug": post.Slug}),
	}
	if !post.PublishedAt.IsZero() {
		view.PublishedLabel = h.translator.Translate(code, "news.published", formatDate(code, post.PublishedAt))
	}
	return view
}

func (h *Handler) employeeView(code locale.Code, employee *catalog.Employee) EmployeeView {
	return EmployeeView{
		Name:  employee.Name,
		Role:  employee.Role.In(code, h.set),
		Email: employee.Email,
		Phone: employee.Phone,
	}
}

func formatDate(code locale.Code, t time.Time) string {
	if code == locale.German {
		return t.Format("2.1.2006")
	}
	return t.Format("January 2, 2006")
}
