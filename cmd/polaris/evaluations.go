package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"immimate-hq/polaris/pkg/cli"
)

var evaluationsFlags struct {
	application string
	format      string
	details     bool
}

var evaluationsCmd = &cobra.Command{
	Use:   "evaluations",
	Short: "Inspect stored evaluations",
	Long: `List and show persisted scoring evaluations.

Examples:
  # List an application's evaluations, newest first
  polaris evaluations list --application 6a1f...

  # Show one evaluation's full score breakdown
  polaris evaluations show 9c3e...

  # Include the detailed technical report
  polaris evaluations show 9c3e... --details`,
}

var evaluationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluations for an application",
	RunE:  runEvaluationsList,
}

var evaluationsShowCmd = &cobra.Command{
	Use:   "show <evaluation-id>",
	Short: "Show one evaluation's score breakdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluationsShow,
}

func runEvaluationsList(cmd *cobra.Command, args []string) error {
	applicationID, err := uuid.Parse(evaluationsFlags.application)
	if err != nil {
		return fmt.Errorf("invalid application ID %q: %w", evaluationsFlags.application, err)
	}
	format, err := cli.ParseFormat(evaluationsFlags.format)
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

	evals, err := svc.EvaluationsByApplication(cmd.Context(), applicationID)
	if err != nil {
		return cli.NewCommandError("evaluations list", err)
	}

	table := &cli.Table{
		Headers: []string{"ID", "GRID", "SCORE", "STATUS", "CREATED"},
	}
	for _, e := range evals {
		table.Rows = append(table.Rows, []string{
			e.ID.String(),
			e.GridName,
			strconv.Itoa(e.TotalScore),
			e.Status,
			e.CreatedAt.Format(time.RFC3339),
		})
	}

	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, table)
}

func runEvaluationsShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid evaluation ID %q: %w", args[0], err)
	}
	format, err := cli.ParseFormat(evaluationsFlags.format)
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

	eval, err := svc.EvaluationByID(cmd.Context(), id)
	if err != nil {
		return cli.NewCommandError("evaluations show", err)
	}

	if format == cli.FormatJSON {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, eval)
	}

	fmt.Printf("Evaluation %s\n", eval.ID)
	fmt.Printf("Application: %s\n", eval.ApplicationID)
	fmt.Printf("Grid: %s\n", eval.GridName)
	fmt.Printf("Total Score: %d\n", eval.TotalScore)
	fmt.Printf("Status: %s\n", eval.Status)
	fmt.Printf("Evaluated: %s\n", eval.EvaluatedAt.Format(time.RFC3339))
	fmt.Println()

	for _, c := range eval.Categories {
		fmt.Printf("%s: %d / %d\n", c.CategoryName, c.UserScore, c.MaxPossibleScore)
		for _, s := range c.Subcategories {
			fmt.Printf("  %s: %d / %d\n", s.SubcategoryName, s.UserScore, s.MaxPossibleScore)
			for _, f := range s.Fields {
				mark := " "
				if f.Qualifies {
					mark = "*"
				}
				fmt.Printf("    %s %s: %d (actual: %s)\n", mark, f.FieldName, f.PointsEarned, f.ActualValue)
			}
		}
	}

	if eval.Notes != "" {
		fmt.Printf("\n%s\n", eval.Notes)
	}
	if evaluationsFlags.details && eval.Details != "" {
		fmt.Printf("\n%s\n", eval.Details)
	}
	return nil
}

func init() {
	evaluationsListCmd.Flags().StringVar(&evaluationsFlags.application, "application", "", "application ID")
	_ = evaluationsListCmd.MarkFlagRequired("application")

	evaluationsCmd.PersistentFlags().StringVar(&evaluationsFlags.format, "format", "text", "output format (text, json, csv)")
	evaluationsShowCmd.Flags().BoolVar(&evaluationsFlags.details, "details", false, "include the detailed technical report")

	evaluationsCmd.AddCommand(evaluationsListCmd)
	evaluationsCmd.AddCommand(evaluationsShowCmd)
	rootCmd.AddCommand(evaluationsCmd)
}
