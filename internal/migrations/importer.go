package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/identity"
	"github.com/goliatone/go-agency/internal/locale"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/schema"
	"github.com/goliatone/go-agency/internal/slugs"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

// Status is the result of importing one entry.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reasons attached to skipped and failed outcomes.
const (
	ReasonDraft      = "draft"
	ReasonNoTitle    = "no_title"
	ReasonEmptySlug  = "empty_slug"
	ReasonExists     = "exists"
	ReasonCollision  = "collision"
	ReasonInvalid    = "invalid"
	ReasonStoreError = "store_error"
)

// ErrRepositoryRequired is returned when an Importer has no news repository.
var ErrRepositoryRequired = errors.New("migrations: news repository is required")

// Options tune a single import run.
type Options struct {
	DryRun        bool
	IncludeDrafts bool
}

// Outcome records what happened to a single entry.
type Outcome struct {
	SourceID string `json:"source_id"`
	ID       string `json:"id,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// Report summarises an import run.
type Report struct {
	Source   string    `json:"source"`
	DryRun   bool      `json:"dry_run"`
	Scanned  int       `json:"scanned"`
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// Succeeded is an alias for Created, matching the slug backfill report.
func (r Report) Succeeded() int { return r.Created }

func (r *Report) add(outcome Outcome) {
	if outcome.Err != nil {
		outcome.Error = outcome.Err.Error()
	}
	switch outcome.Status {
	case StatusCreated:
		r.Created++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Importer writes entries into the news collection.
type Importer struct {
	news       repository.Repository[*catalog.NewsPost]
	resolver   *locale.Resolver
	normalizer slugs.Normalizer
	validate   func(collection string, payload any) error
	logger     interfaces.Logger
	now        func() time.Time
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithResolver sets the locale resolver applied to entry locales.
func WithResolver(resolver *locale.Resolver) ImporterOption {
	return func(i *Importer) {
		if resolver != nil {
			i.resolver = resolver
		}
	}
}

// WithNormalizer sets the slug normalizer. Defaults to slugs.Strict().
func WithNormalizer(normalizer slugs.Normalizer) ImporterOption {
	return func(i *Importer) {
		if normalizer != nil {
			i.normalizer = normalizer
		}
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		i.logger = logging.Ensure(logger)
	}
}

// WithNow overrides the clock used for entries without a publish date.
func WithNow(now func() time.Time) ImporterOption {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewImporter builds an Importer writing through news.
func NewImporter(news repository.Repository[*catalog.NewsPost], opts ...ImporterOption) *Importer {
	i := &Importer{
		news:       news,
		resolver:   locale.NewResolver(locale.DefaultSet()),
		normalizer: slugs.Strict(),
		validate:   schema.Validate,
		logger:     logging.NoOp(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import writes every entry that is not yet present. Per-entry problems are
// recorded in the report; only a missing repository or a cancelled context
// abort the run.
func (i *Importer) Import(ctx context.Context, source string, entries []Entry, opts Options) (Report, error) {
	report := Report{Source: source, DryRun: opts.DryRun}
	if i == nil || i.news == nil {
		return report, ErrRepositoryRequired
	}

	logger := logging.WithFields(i.logger, map[string]any{
		"source":  source,
		"dry_run": opts.DryRun,
	})
	claimed := map[string]string{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++
		outcome := i.importEntry(ctx, entry, opts, claimed)
		if outcome.Status != StatusCreated {
			logging.WithRecordContext(logger, catalog.CollectionNews, outcome.SourceID).
				Warn("migrations.import.entry_"+string(outcome.Status), "reason", outcome.Reason, "error", outcome.Err)
		}
		report.add(outcome)
	}

	logger.Info("migrations.import.completed",
		"scanned", report.Scanned,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (i *Importer) importEntry(ctx context.Context, entry Entry, opts Options, claimed map[string]string) Outcome {
	outcome := Outcome{SourceID: entry.SourceID}

	if entry.Draft && !opts.IncludeDrafts {
		return skip(outcome, ReasonDraft)
	}

	code := i.resolver.Resolve(strings.TrimSpace(entry.Locale))
	outcome.Locale = string(code)

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return skip(outcome, ReasonNoTitle)
	}

	slugSource := entry.Slug
	if strings.TrimSpace(slugSource) == "" {
		slugSource = title
	}
	slug, err := i.normalizer.Normalize(slugSource)
	if err != nil || slug == "" {
		outcome.Err = err
		return skip(outcome, ReasonEmptySlug)
	}
	outcome.Slug = slug

	id := identity.NewsUUID(entry.Source, entry.SourceID, string(code))
	outcome.ID = id.String()

	if _, err := i.news.GetByID(ctx, id.String()); err == nil {
		return skip(outcome, ReasonExists)
	} else if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		outcome.Err = err
		return fail(outcome, ReasonStoreError)
	}

	key := string(code) + "/" + slug
	if owner, ok := claimed[key]; ok && owner != outcome.ID {
		return skip(outcome, ReasonCollision)
	}
	taken, err := i.slugTaken(ctx, code, slug)
	if err != nil {
		outcome.Err = err
		return fail(outcome, ReasonStoreError)
	}
	if taken {
		return skip(outcome, ReasonCollision)
	}

	format := entry.BodyFormat
	if format == "" {
		format = catalog.FormatMarkdown
	}
	published := entry.PublishedAt
	if published.IsZero() {
		published = i.now()
	}
	post := &catalog.NewsPost{
		ID:          id,
		Locale:      string(code),
		Title:       title,
		Slug:        slug,
		Excerpt:     strings.TrimSpace(entry.Excerpt),
		Body:        entry.Body,
		BodyFormat:  format,
		PublishedAt: published.UTC(),
		Source:      entry.Source,
		SourceID:    entry.SourceID,
	}
	if err := i.validate(catalog.CollectionNews, post); err != nil {
		outcome.Err = err
		return fail(outcome, ReasonInvalid)
	}

	claimed[key] = outcome.ID
	if opts.DryRun {
		outcome.Status = StatusCreated
		return outcome
	}
	if _, err := i.news.Create(ctx, post); err != nil {
		delete(claimed, key)
		outcome.Err = fmt.Errorf("create news %s: %w", outcome.ID, err)
		return fail(outcome, ReasonStoreError)
	}
	outcome.Status = StatusCreated
	return outcome
}

func (i *Importer) slugTaken(ctx context.Context, code locale.Code, slug string) (bool, error) {
	records, _, err := i.news.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.locale = ?", string(code)).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func skip(outcome Outcome, reason string) Outcome {
	outcome.Status = StatusSkipped
	outcome.Reason = reason
	return outcome
}

func fail(outcome Outcome, reason string) Outcome {
	outcome.Status = StatusFailed
	outcome.Reason = reason
	return outcome
}
