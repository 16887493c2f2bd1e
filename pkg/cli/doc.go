/*
Package cli provides command-line helpers used by the mairchen command.

Output Formatting:

Commands print either aligned text tables or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, limits); err != nil {
		return err
	}

Values implementing Tabular are rendered as a table by the text formatter.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
