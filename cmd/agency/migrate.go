package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-agency"
	"github.com/goliatone/go-agency/internal/migrations"
)

// The migrate commands print their report and exit 0 once the run
// completes, even when single records were skipped or failed.
func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "One-off data migrations",
	}
	cmd.AddCommand(
		newMigrateSlugsCommand(opts),
		newMigrateNewsCommand(opts, migrations.SourceWordPress, "file", "Import news from a WordPress WXR export"),
		newMigrateNewsCommand(opts, migrations.SourceMarkdown, "dir", "Import news from a Markdown export directory"),
	)
	return cmd
}

func newMigrateSlugsCommand(opts *rootOptions) *cobra.Command {
	var msg agency.BackfillSlugsCommand

	cmd := &cobra.Command{
		Use:   "slugs",
		Short: "Derive missing slugs for a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.buildModule(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			report, err := module.BackfillSlugs(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&msg.Collection, "collection", "", "collection to backfill (artists, recordings, news, employees)")
	cmd.Flags().StringVar(&msg.SourceField, "source-field", "", "field the slug is derived from (defaults per collection)")
	cmd.Flags().StringVar(&msg.SlugField, "slug-field", "", "field the slug is written to")
	cmd.Flags().BoolVar(&msg.DryRun, "dry-run", false, "report without writing")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newMigrateNewsCommand(opts *rootOptions, source, pathFlag, short string) *cobra.Command {
	msg := agency.ImportNewsCommand{Source: source}

	cmd := &cobra.Command{
		Use:   source,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.buildModule(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			report, err := module.ImportNews(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&msg.Path, pathFlag, "", "export location")
	cmd.Flags().BoolVar(&msg.DryRun, "dry-run", false, "report without writing")
	cmd.Flags().BoolVar(&msg.IncludeDrafts, "include-drafts", false, "import unpublished posts as well")
	_ = cmd.MarkFlagRequired(pathFlag)
	return cmd
}
