package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/cli"
	"immimate-hq/polaris/pkg/evaluation/retention"
	"immimate-hq/polaris/pkg/grid/loader"
)

var watchFlags struct {
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the grid watcher, retention scheduler, and metrics endpoint",
	Long: `Run Polaris's background workers until interrupted.

Starts the grid directory watcher (when grids.watch is enabled), the
retention scheduler (when retention.enabled is set), and an HTTP metrics
endpoint. Grids are imported once at startup so the store reflects the
directory before watching begins.

Example:
  polaris watch --metrics-addr :9090`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()

	l := loader.NewLoader(a.logger.Slog())
	count, err := l.ImportDir(ctx, a.grids, a.cfg.Grids.Dir)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	a.logger.Info("grids imported at startup", "count", count, "dir", a.cfg.Grids.Dir)

	var watcher *loader.Watcher
	if a.cfg.Grids.Watch {
		watcher, err = loader.NewWatcher(l, a.grids, a.cfg.Grids)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				a.logger.Error("grid watcher exited", "error", err)
			}
		}()
		defer func() {
			if err := watcher.Stop(); err != nil {
				a.logger.Error("failed to stop grid watcher", "error", err)
			}
		}()
	}

	if a.cfg.Retention.Enabled {
		pruner := retention.NewPruner(a.evaluations, a.cfg.Retention)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
		if next := pruner.NextPruning(); next != nil {
			a.logger.Info("retention scheduler started", "next_run", next.Format(time.RFC3339))
		}
	}

	var metricsSrv *http.Server
	if watchFlags.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		metricsSrv = &http.Server{Addr: watchFlags.metricsAddr, Handler: mux}
		go func() {
			a.logger.Info("metrics endpoint listening", "addr", watchFlags.metricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	fmt.Println("Polaris watching; press Ctrl+C to stop")
	<-ctx.Done()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics endpoint shutdown failed", "error", err)
		}
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", ":9090", "metrics listen address (empty to disable)")
	rootCmd.AddCommand(watchCmd)
}
