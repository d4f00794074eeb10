package migrationscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-agency/internal/migrations"
)

const importNewsMessageType = "agency.migrations.news.import"

// ImportNewsCommand imports a legacy blog export into the news collection.
type ImportNewsCommand struct {
	// Source selects the export format: "wordpress" or "markdown".
	Source string `json:"source"`
	// Path is the WXR file or the Markdown export directory.
	Path string `json:"path"`
	// DryRun reports what would be imported without writing.
	DryRun bool `json:"dry_run,omitempty"`
	// IncludeDrafts imports unpublished posts as well.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

// Type implements command.Message.
func (ImportNewsCommand) Type() string { return importNewsMessageType }

// Validate ensures a known source and a path are given.
func (cmd ImportNewsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required,
			validation.In(migrations.SourceWordPress, migrations.SourceMarkdown).
				ErrorObject(validation.NewError("agency.migrations.news.import.source_unknown", "source must be wordpress or markdown"))),
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("agency.migrations.news.import.path_required", "path is required")
			}
			return nil
		})),
	)
}
