package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/config"
	"immimate-hq/polaris/pkg/evaluation"
	evalstorage "immimate-hq/polaris/pkg/evaluation/storage"
	"immimate-hq/polaris/pkg/grid"
	gridstorage "immimate-hq/polaris/pkg/grid/storage"
	"immimate-hq/polaris/pkg/profile"
	profilestorage "immimate-hq/polaris/pkg/profile/storage"
	"immimate-hq/polaris/pkg/scoring"
	"immimate-hq/polaris/pkg/telemetry/logging"
	"immimate-hq/polaris/pkg/telemetry/metrics"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "polaris",
	Short: "Polaris - immigration eligibility scoring engine",
	Long: `Polaris evaluates applicant immigration profiles against versioned scoring
grids and persists fully explained score trees.

It provides:
  - Point-based eligibility scoring with per-field audit trails
  - A declarative expression language for grid scoring rules
  - Grid-defined caps with proportional score reduction
  - YAML grid definitions with live re-import on change
  - Scheduled retention pruning of old evaluations`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// app bundles the configured collaborators a command needs. Stores are opened
// lazily per command and must be closed with Close.
type app struct {
	cfg         *config.Config
	logger      *logging.Logger
	grids       grid.Store
	profiles    profile.Store
	evaluations evaluation.Store
	metrics     *metrics.Collector
}

// newApp loads configuration, installs the logger, and opens the stores.
func newApp() (*app, error) {
	cfg, err := config.LoadConfigOrDefaults(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger.SetAsDefault()

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}
	if err := a.openStores(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStores() error {
	switch a.cfg.Storage.Backend {
	case "memory":
		a.grids = gridstorage.NewMemoryStore()
		a.profiles = profilestorage.NewMemoryStore()
		a.evaluations = evalstorage.NewMemoryStore()
		return nil

	case "sqlite":
		grids, err := gridstorage.NewSQLiteStore(&gridstorage.SQLiteConfig{
			Path:        a.cfg.Storage.GridsPath,
			BusyTimeout: a.cfg.Storage.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("open grid store: %w", err)
		}
		a.grids = grids

		profiles, err := profilestorage.NewSQLiteStore(&profilestorage.SQLiteConfig{
			Path:        a.cfg.Storage.ProfilesPath,
			BusyTimeout: a.cfg.Storage.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("open profile store: %w", err)
		}
		a.profiles = profiles

		evaluations, err := evalstorage.NewSQLiteStore(&evalstorage.SQLiteConfig{
			Path:        a.cfg.Storage.EvaluationsPath,
			BusyTimeout: a.cfg.Storage.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("open evaluation store: %w", err)
		}
		a.evaluations = evaluations
		return nil

	default:
		return errors.New("unknown storage backend " + a.cfg.Storage.Backend)
	}
}

// newService wires the scoring engine and service over the open stores.
func (a *app) newService() (*scoring.Service, error) {
	engine, err := scoring.NewEngine(scoring.EngineConfig{
		Grids:       a.grids,
		Profiles:    a.profiles,
		Evaluations: a.evaluations,
		Metrics:     a.metrics,
	})
	if err != nil {
		return nil, err
	}
	return scoring.NewService(engine, a.evaluations)
}

// Close releases the stores. Close errors are logged, not returned; commands
// report their own failures.
func (a *app) Close() {
	for name, closer := range map[string]interface{ Close() error }{
		"grids":       a.grids,
		"profiles":    a.profiles,
		"evaluations": a.evaluations,
	} {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			a.logger.Error("failed to close store", "store", name, "error", err)
		}
	}
}
