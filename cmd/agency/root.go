package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-agency"
)

var moduleBuilder = agency.New

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "agency",
		Short: "Backend of the bilingual artist agency website",
		Long: `agency serves the public site and runs the one-off maintenance
tools: schema setup, slug backfill and legacy news imports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (AGENCY_* variables override it)")

	root.AddCommand(
		newServeCommand(opts),
		newSchemaCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// buildModule loads the configuration and assembles the runtime. Failures
// here are setup errors and end the process with a non-zero status.
func (o *rootOptions) buildModule(ctx context.Context) (*agency.Module, error) {
	cfg, err := agency.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

func printReport(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
