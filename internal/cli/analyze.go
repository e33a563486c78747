package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"tokenbench/internal/report"
)

// runAnalyze builds the handler for the analyze command.
func runAnalyze(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: auto-detect)")
		outputFlag := flags.String("output", "", "Report path (default: stdout)")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "analyze expects exactly one results log")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		records, err := report.LoadRecords(flags.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Analyze failed: %v\n", err)
			return ExitError
		}

		rendered := report.Render(records, reportOptions(cfg))
		if *outputFlag == "" {
			fmt.Fprint(stdout, rendered)
			return ExitOK
		}
		if err := os.WriteFile(*outputFlag, []byte(rendered), 0o644); err != nil {
			fmt.Fprintf(stderr, "Analyze failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report saved to: %s\n", *outputFlag)
		return ExitOK
	}
}
