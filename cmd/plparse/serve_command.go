package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plparse/internal/daemon"
	"plparse/internal/history"
	"plparse/internal/logging"
	"plparse/internal/metrics"
	"plparse/internal/plparser"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and disc watcher in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.API.Bind = bind
			}
			if cmd.Flags().Changed("watch") {
				cfg.Disc.Watch = watch
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			parser, err := ctx.newParser(plparser.WithObserver(metrics.NewResolverObserver()))
			if err != nil {
				return err
			}

			var store *history.Store
			if cfg.History.Enabled {
				if store, err = ctx.historyStore(); err != nil {
					return err
				}
			}

			d, err := daemon.New(cfg, parser, store, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				if errors.Is(err, daemon.ErrAlreadyRunning) {
					return fmt.Errorf("%w (lock %s)", err, cfg.LockPath())
				}
				return err
			}
			defer d.Stop()

			status := d.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "plparse serving on http://%s (disc watch: %s)\n", status.APIAddress, yesNo(status.Watching))

			<-signalCtx.Done()
			logger.Info("plparse daemon shutting down", logging.EventType("daemon_shutdown"))
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the API bind address")
	cmd.Flags().BoolVar(&watch, "watch", false, "Resolve discs as they are inserted")
	return cmd
}
