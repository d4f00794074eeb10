package slugscmd

import (
	"regexp"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-agency/internal/catalog"
)

const (
	backfillMessageType = "agency.slugs.backfill"
	defaultSlugField    = "slug"
)

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// BackfillSlugsCommand derives slugs for every record of Collection that
// does not have one yet.
type BackfillSlugsCommand struct {
	// Collection selects the content collection, e.g. "artists".
	Collection string `json:"collection"`
	// SourceField is the field the slug is derived from. Defaults per collection.
	SourceField string `json:"source_field,omitempty"`
	// SlugField is the field receiving the slug. Defaults to "slug".
	SlugField string `json:"slug_field,omitempty"`
	// DryRun reports what would change without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BackfillSlugsCommand) Type() string { return backfillMessageType }

// Validate ensures the collection is known and field names are plain
// columns of that collection. Collections without the slug column, such as
// media, cannot be backfilled.
func (cmd BackfillSlugsCommand) Validate() error {
	collection, known := catalog.LookupCollection(strings.TrimSpace(cmd.Collection))
	slugField := strings.TrimSpace(cmd.SlugField)
	if slugField == "" {
		slugField = defaultSlugField
	}
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required, validation.By(func(any) error {
			if !known {
				return validation.NewError("agency.slugs.backfill.collection_unknown", "collection is not known")
			}
			if !slices.Contains(collection.Columns, slugField) {
				return validation.NewError("agency.slugs.backfill.collection_unsluggable", "collection has no "+slugField+" column")
			}
			return nil
		})),
		validation.Field(&cmd.SourceField, validation.Match(columnPattern).
			ErrorObject(validation.NewError("agency.slugs.backfill.source_field_invalid", "source field must be a column name"))),
		validation.Field(&cmd.SlugField, validation.Match(columnPattern).
			ErrorObject(validation.NewError("agency.slugs.backfill.slug_field_invalid", "slug field must be a column name"))),
	)
}
