package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			module, err := opts.buildModule(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			cfg := module.Config()
			if address == "" {
				address = cfg.Site.Address
			}
			logger := module.Logger("agency.serve")

			server := &http.Server{
				Addr:              address,
				Handler:           module.Site().Routes(),
				ReadTimeout:       cfg.Site.ReadTimeout,
				ReadHeaderTimeout: cfg.Site.ReadTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("site.server.starting", "address", address)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("site.server.stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Site.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("serve: shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (defaults to site.address)")
	return cmd
}
