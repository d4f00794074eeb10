package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the catalog tables when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.buildModule(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			if err := module.CreateSchema(cmd.Context()); err != nil {
				return fmt.Errorf("schema init: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	})
	return cmd
}
