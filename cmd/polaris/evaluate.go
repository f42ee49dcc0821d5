package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/cli"
)

var evaluateFlags struct {
	application string
	grid        string
	format      string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an application against a grid",
	Long: `Run a full scoring evaluation of an applicant profile against a stored
grid and persist the explained result tree.

The command prints the evaluation summary; use "evaluations show" to
inspect the persisted category, subcategory, and field breakdown.

Examples:
  polaris evaluate --application 6a1f... --grid COMPREHENSIVE_RANKING
  polaris evaluate --application 6a1f... --grid COMPREHENSIVE_RANKING --format json`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	applicationID, err := uuid.Parse(evaluateFlags.application)
	if err != nil {
		return fmt.Errorf("invalid application ID %q: %w", evaluateFlags.application, err)
	}
	format, err := cli.ParseFormat(evaluateFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.newService()
	if err != nil {
		return err
	}

	eval, err := svc.CreateEvaluation(cmd.Context(), applicationID, evaluateFlags.grid)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	if format == cli.FormatJSON {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, eval)
	}

	fmt.Printf("Evaluation %s\n", eval.ID)
	fmt.Printf("Grid: %s\n", eval.GridName)
	fmt.Printf("Total Score: %d\n", eval.TotalScore)
	fmt.Printf("Status: %s\n", eval.Status)
	if eval.Notes != "" {
		fmt.Printf("\n%s\n", eval.Notes)
	}
	return nil
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateFlags.application, "application", "", "application ID")
	evaluateCmd.Flags().StringVar(&evaluateFlags.grid, "grid", "", "grid name")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format (text, json)")
	_ = evaluateCmd.MarkFlagRequired("application")
	_ = evaluateCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(evaluateCmd)
}
