package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/cli"
	"immimate-hq/polaris/pkg/evaluation/retention"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete evaluations past the retention window",
	Long: `Run one retention pass: delete evaluations older than the configured
maximum age, keeping at least the configured number of most recent
evaluations per application.

For scheduled pruning, run "polaris watch" with retention enabled.`,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	pruner := retention.NewPruner(a.evaluations, a.cfg.Retention)

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	fmt.Printf("Deleted %d evaluation(s)\n", deleted)
	return nil
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
