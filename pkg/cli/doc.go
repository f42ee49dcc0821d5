/*
Package cli provides command-line interface utilities for Polaris.

The cli package includes the output formatters and common helpers used by the
polaris command.

Output Formatting:

Command results render as text, JSON, or CSV. Tabular results use the Table
type so every format can carry them:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, result)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, cancel := cli.SetupSignalHandler(context.Background())
	defer cancel()
	// Use ctx for operations that should stop on shutdown
*/
package cli
