// Package migrationscmd exposes the legacy news import as a go-command handler.
package migrationscmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-agency/internal/commands"
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/internal/migrations"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

const importOperation = "migrations.news.import"

// ErrSourceNotConfigured is returned when no reader is registered for a source.
var ErrSourceNotConfigured = errors.New("migrations command: source reader not configured")

var _ command.Commander[ImportNewsCommand] = (*ImportNewsHandler)(nil)

// EntryReader loads the entries of an export at path.
type EntryReader func(ctx context.Context, path string) ([]migrations.Entry, error)

// ReportFunc receives the report of every completed import.
type ReportFunc func(migrations.Report)

// ImportNewsHandler reads an export and feeds it to a migrations.Importer.
type ImportNewsHandler struct {
	inner *commands.Handler[ImportNewsCommand]
}

// NewImportNewsHandler creates a handler. readers maps a source name to its
// reader; onReport may be nil.
func NewImportNewsHandler(importer *migrations.Importer, readers map[string]EntryReader, logger interfaces.Logger, onReport ReportFunc, opts ...commands.HandlerOption[ImportNewsCommand]) *ImportNewsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ImportNewsCommand) error {
		source := strings.TrimSpace(msg.Source)
		read, ok := readers[source]
		if !ok || read == nil {
			return fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)
		}

		entries, err := read(ctx, strings.TrimSpace(msg.Path))
		if err != nil {
			return err
		}

		report, err := importer.Import(ctx, source, entries, migrations.Options{
			DryRun:        msg.DryRun,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if onReport != nil {
			onReport(report)
		}
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"scanned_count": report.Scanned,
			"created_count": report.Created,
			"skipped_count": report.Skipped,
			"failed_count":  report.Failed,
			"dry_run":       msg.DryRun,
		}).Info("migrations.command.news_import.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportNewsCommand]{
		commands.WithLogger[ImportNewsCommand](baseLogger),
		commands.WithOperation[ImportNewsCommand](importOperation),
		commands.WithTimeout[ImportNewsCommand](0),
		commands.WithMessageFields(func(msg ImportNewsCommand) map[string]any {
			fields := map[string]any{
				"source": msg.Source,
				"path":   msg.Path,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithObserver(commands.LogObserver[ImportNewsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportNewsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportNewsCommand].
func (h *ImportNewsHandler) Execute(ctx context.Context, msg ImportNewsCommand) error {
	return h.inner.Execute(ctx, msg)
}
