// Package slugscmd exposes the slug backfill as a go-command handler.
package slugscmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-agency/internal/catalog"
	"github.com/goliatone/go-agency/internal/commands"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/slugs"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

const backfillOperation = "slugs.backfill"

var _ command.Commander[BackfillSlugsCommand] = (*BackfillHandler)(nil)

// ReportFunc receives the report of every completed run.
type ReportFunc func(slugs.Report)

// BackfillHandler runs a slugs.Backfiller through the shared handler foundation.
type BackfillHandler struct {
	inner *commands.Handler[BackfillSlugsCommand]
}

// NewBackfillHandler creates a handler bound to backfiller. onReport may be nil.
func NewBackfillHandler(backfiller *slugs.Backfiller, logger interfaces.Logger, onReport ReportFunc, opts ...commands.HandlerOption[BackfillSlugsCommand]) *BackfillHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg BackfillSlugsCommand) error {
		collection := strings.TrimSpace(msg.Collection)
		source := strings.TrimSpace(msg.SourceField)
		if source == "" {
			source = catalog.SourceField(collection)
		}

		report, err := backfiller.Run(ctx, slugs.Request{
			Collection:  collection,
			SourceField: source,
			SlugField:   strings.TrimSpace(msg.SlugField),
			DryRun:      msg.DryRun,
		})
		if onReport != nil {
			onReport(report)
		}
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"scanned_count": report.Scanned,
			"updated_count": report.Updated,
			"skipped_count": report.Skipped,
			"failed_count":  report.Failed,
			"dry_run":       msg.DryRun,
		}).Info("slugs.command.backfill.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BackfillSlugsCommand]{
		commands.WithLogger[BackfillSlugsCommand](baseLogger),
		commands.WithOperation[BackfillSlugsCommand](backfillOperation),
		commands.WithTimeout[BackfillSlugsCommand](0),
		commands.WithMessageFields(func(msg BackfillSlugsCommand) map[string]any {
			fields := map[string]any{"collection": msg.Collection}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithObserver(commands.LogObserver[BackfillSlugsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BackfillHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BackfillSlugsCommand].
func (h *BackfillHandler) Execute(ctx context.Context, msg BackfillSlugsCommand) error {
	return h.inner.Execute(ctx, msg)
}
