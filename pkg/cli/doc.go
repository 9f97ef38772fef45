/*
Package cli provides command-line interface utilities for minerva.

The cli package includes output formatters, command error types, and common
CLI helpers used by the minerva command.

Output Formatting:

The cli package supports text and JSON output formats for displaying
command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, plan); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
