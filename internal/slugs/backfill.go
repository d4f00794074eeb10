package slugs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

const (
	defaultPageSize    = 100
	defaultSourceField = "name"
	defaultSlugField   = "slug"
)

// Status is the result of processing one record.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reasons attached to skipped and failed outcomes.
const (
	ReasonNoSource   = "no_source"
	ReasonEmptySlug  = "empty_slug"
	ReasonCollision  = "collision"
	ReasonStoreError = "store_error"
)

// ErrStoreRequired is returned when a Backfiller has no store.
var ErrStoreRequired = errors.New("slugs: content store is required")

// Request describes one backfill pass.
type Request struct {
	Collection  string
	SourceField string
	SlugField   string
	DryRun      bool
}

// Outcome records what happened to a single record.
type Outcome struct {
	ID     string `json:"id"`
	Source string `json:"source,omitempty"`
	Slug   string `json:"slug,omitempty"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
	// Error carries Err into the JSON report.
	Error string `json:"error,omitempty"`
}

// Report summarises a backfill pass. Records that already had a slug are
// counted in Scanned only.
type Report struct {
	Collection string    `json:"collection"`
	DryRun     bool      `json:"dry_run"`
	Scanned    int       `json:"scanned"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes,omitempty"`
}

// Succeeded is an alias for Updated, matching the migration reports.
func (r Report) Succeeded() int { return r.Updated }

func (r *Report) add(outcome Outcome) {
	if outcome.Err != nil {
		outcome.Error = outcome.Err.Error()
	}
	switch outcome.Status {
	case StatusUpdated:
		r.Updated++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Backfiller assigns slugs to records that lack one.
type Backfiller struct {
	store      interfaces.ContentStore
	normalizer Normalizer
	logger     interfaces.Logger
	pageSize   int
}

// BackfillOption customises a Backfiller.
type BackfillOption func(*Backfiller)

// WithNormalizer overrides the default strict normalizer.
func WithNormalizer(n Normalizer) BackfillOption {
	return func(b *Backfiller) {
		if n != nil {
			b.normalizer = n
		}
	}
}

// WithLogger sets the logger used for per-record warnings.
func WithLogger(logger interfaces.Logger) BackfillOption {
	return func(b *Backfiller) {
		b.logger = logging.Ensure(logger)
	}
}

// WithPageSize sets how many records are fetched per query.
func WithPageSize(size int) BackfillOption {
	return func(b *Backfiller) {
		if size > 0 {
			b.pageSize = size
		}
	}
}

// NewBackfiller builds a Backfiller over store.
func NewBackfiller(store interfaces.ContentStore, opts ...BackfillOption) *Backfiller {
	b := &Backfiller{
		store:      store,
		normalizer: Strict(),
		logger:     logging.NoOp(),
		pageSize:   defaultPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Run scans the whole collection first, then derives and writes slugs record
// by record. A failed write is recorded and the pass continues; only a failed
// scan or a cancelled context aborts the run. Records that already carry a
// slug are never touched, so a pass can be repeated after a crash.
func (b *Backfiller) Run(ctx context.Context, req Request) (Report, error) {
	if b.store == nil {
		return Report{}, ErrStoreRequired
	}
	req = req.withDefaults()
	report := Report{Collection: req.Collection, DryRun: req.DryRun}

	records, err := b.scan(ctx, req.Collection)
	if err != nil {
		return report, err
	}
	report.Scanned = len(records)

	taken := make(map[string]struct{}, len(records))
	for _, record := range records {
		if slug := fieldString(record.Fields, req.SlugField); slug != "" {
			taken[slug] = struct{}{}
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if fieldString(record.Fields, req.SlugField) != "" {
			continue
		}
		report.add(b.process(ctx, req, record, taken))
	}

	b.logger.Info("slugs.backfill.completed",
		"collection", report.Collection,
		"scanned", report.Scanned,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"dry_run", report.DryRun,
	)
	return report, nil
}

func (b *Backfiller) process(ctx context.Context, req Request, record interfaces.Record, taken map[string]struct{}) Outcome {
	logger := logging.WithRecordContext(b.logger, req.Collection, record.ID)
	source := fieldString(record.Fields, req.SourceField)
	outcome := Outcome{ID: record.ID, Source: source}

	if source == "" {
		logger.Warn("slugs.backfill.skipped", "reason", ReasonNoSource)
		outcome.Status, outcome.Reason = StatusSkipped, ReasonNoSource
		return outcome
	}

	slug, err := b.normalizer.Normalize(source)
	if err != nil || slug == "" {
		logger.Warn("slugs.backfill.skipped", "reason", ReasonEmptySlug, "source", source)
		outcome.Status, outcome.Reason, outcome.Err = StatusSkipped, ReasonEmptySlug, err
		return outcome
	}
	outcome.Slug = slug

	if _, exists := taken[slug]; exists {
		logger.Warn("slugs.backfill.skipped", "reason", ReasonCollision, "slug", slug)
		outcome.Status, outcome.Reason = StatusSkipped, ReasonCollision
		return outcome
	}

	if !req.DryRun {
		if err := b.store.Patch(ctx, req.Collection, record.ID, map[string]any{req.SlugField: slug}); err != nil {
			logger.Error("slugs.backfill.failed", "slug", slug, "error", err)
			outcome.Status, outcome.Reason, outcome.Err = StatusFailed, ReasonStoreError, err
			return outcome
		}
	}

	taken[slug] = struct{}{}
	logger.Debug("slugs.backfill.updated", "slug", slug, "dry_run", req.DryRun)
	outcome.Status = StatusUpdated
	return outcome
}

func (b *Backfiller) scan(ctx context.Context, collection string) ([]interfaces.Record, error) {
	var all []interfaces.Record
	for offset := 0; ; offset += b.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := b.store.Query(ctx, collection, interfaces.QueryOptions{
			Limit:  b.pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("slugs: query %s at offset %d: %w", collection, offset, err)
		}
		all = append(all, page...)
		if len(page) < b.pageSize {
			return all, nil
		}
	}
}

func (r Request) withDefaults() Request {
	r.Collection = strings.TrimSpace(r.Collection)
	if strings.TrimSpace(r.SourceField) == "" {
		r.SourceField = defaultSourceField
	}
	if strings.TrimSpace(r.SlugField) == "" {
		r.SlugField = defaultSlugField
	}
	return r
}

func fieldString(fields map[string]any, key string) string {
	switch value := fields[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case []byte:
		return strings.TrimSpace(string(value))
	default:
		return ""
	}
}
