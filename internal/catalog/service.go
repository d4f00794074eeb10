package catalog

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/media"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

// DefaultPageSize bounds list queries without an explicit limit.
const DefaultPageSize = 20

// Page selects a window of a list.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ArtistProfile is an artist with the records shown on its detail page.
type ArtistProfile struct {
	Artist     *Artist
	Portrait   media.Asset
	Recordings []*Recording
}

// Service answers the read queries of the public site.
type Service struct {
	repos  *Repositories
	logger interfaces.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for data integrity warnings.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// NewService builds a catalog service.
func NewService(repos *Repositories, opts ...ServiceOption) *Service {
	s := &Service{repos: repos, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Artists lists published artists in display order.
func (s *Service) Artists(ctx context.Context) ([]*Artist, error) {
	records, _, err := s.repos.Artists.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.published = ?", true).
				OrderExpr("?TableAlias.position ASC, ?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "artist", "")
	}
	return records, nil
}

// Artist returns a published artist with portrait and recordings.
func (s *Service) Artist(ctx context.Context, slug string) (*ArtistProfile, error) {
	slug = strings.TrimSpace(slug)
	artist, err := s.repos.Artists.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "artist", slug)
	}
	if !artist.Published {
		return nil, &NotFoundError{Resource: "artist", Key: slug}
	}

	recordings, err := s.Recordings(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	profile := &ArtistProfile{Artist: artist, Recordings: recordings}
	if artist.PortraitID != nil {
		portrait, err := s.Media(ctx, *artist.PortraitID)
		switch {
		case err == nil:
			profile.Portrait = portrait
		case errors.Is(err, media.ErrUnclassifiedMedia):
			logging.WithRecordContext(s.logger, CollectionArtists, artist.ID.String()).
				Warn("catalog.artist.portrait_unclassified", "media_id", artist.PortraitID.String())
		default:
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
			logging.WithRecordContext(s.logger, CollectionArtists, artist.ID.String()).
				Warn("catalog.artist.portrait_missing", "media_id", artist.PortraitID.String())
		}
	}
	return profile, nil
}

// Recordings lists an artist's recordings, newest first.
func (s *Service) Recordings(ctx context.Context, artistID uuid.UUID) ([]*Recording, error) {
	records, _, err := s.repos.Recordings.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.artist_id = ?", artistID).
				OrderExpr("?TableAlias.release_year DESC, ?TableAlias.title ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "recording", artistID.String())
	}
	return records, nil
}

// News lists posts written in code, newest first, and the total count.
func (s *Service) News(ctx context.Context, code locale.Code, page Page) ([]*NewsPost, int, error) {
	page = page.normalize()
	records, total, err := s.repos.News.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.locale = ?", string(code)).
				OrderExpr("?TableAlias.published_at DESC, ?TableAlias.slug ASC")
		}),
		repository.SelectPaginate(page.Limit, page.Offset),
	)
	if err != nil {
		return nil, 0, mapRepositoryError(err, "news", string(code))
	}
	return records, total, nil
}

// NewsPost returns the post with slug in locale code.
func (s *Service) NewsPost(ctx context.Context, code locale.Code, slug string) (*NewsPost, error) {
	slug = strings.TrimSpace(slug)
	records, _, err := s.repos.News.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.locale = ?", string(code)).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "news", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "news", Key: slug}
	}
	return records[0], nil
}

// Team lists the agency employees in display order.
func (s *Service) Team(ctx context.Context) ([]*Employee, error) {
	records, _, err := s.repos.Employees.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.position ASC, ?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "employee", "")
	}
	return records, nil
}

// Media loads an asset and classifies it. Rows that are neither image
// nor document yield media.ErrUnclassifiedMedia.
func (s *Service) Media(ctx context.Context, id uuid.UUID) (media.Asset, error) {
	record, err := s.repos.Media.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "media", id.String())
	}
	asset, err := media.Parse(record.Attributes())
	if err != nil {
		logging.WithRecordContext(s.logger, CollectionMedia, id.String()).
			Error("catalog.media.unclassified", "error", err)
		return nil, err
	}
	return asset, nil
}
