package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"tokenbench/internal/config"
	"tokenbench/internal/runner"
	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
)

var retryBenchmark = runner.Retry

// runRetry builds the handler for the retry command.
func runRetry(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: auto-detect)")
		outputFlag := flags.String("output", "", "Retried log path (default: results/benchmark_<ts>_retry.jsonl)")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "retry expects exactly one results log")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		sourcePath := flags.Arg(0)

		_ = godotenv.Load()

		cfg, root, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		outputPath := *outputFlag
		if outputPath == "" {
			outputPath = runner.RetryOutputPath(config.ResultsDir(root, cfg.Harness.ResultsDir), time.Now().UTC())
		}

		modes := make(map[string]spec.ModeConfig, len(cfg.Modes))
		for _, mode := range cfg.Modes {
			modes[mode.ID] = mode
		}
		models := make(map[string]spec.ModelConfig, len(cfg.Models))
		for _, model := range cfg.Models {
			models[model.ID] = model
		}

		path, retried, err := retryBenchmark(context.Background(), runner.RetryParams{
			SourcePath:   sourcePath,
			OutputPath:   outputPath,
			Tasks:        tasks.ByID(tasks.FromConfig(cfg)),
			Modes:        modes,
			Models:       models,
			BudgetUSD:    cfg.Defaults.BudgetUSD,
			Timeout:      time.Duration(cfg.Defaults.TimeoutSeconds) * time.Second,
			SystemPrompt: cfg.Harness.SystemPrompt,
			ReposDir:     config.ReposDir(root, cfg.Harness.FixturesDir),
			SyntheticDir: config.SyntheticRepoDir(root, cfg.Harness.FixturesDir),
			Deps:         runner.Dependencies{Progress: stdout},
		})
		if err != nil {
			fmt.Fprintf(stderr, "Retry failed: %v\n", err)
			return ExitError
		}
		if retried == 0 {
			fmt.Fprintln(stdout, "No errored runs to retry.")
		} else {
			fmt.Fprintf(stdout, "Retried %d runs\n", retried)
		}
		fmt.Fprintf(stdout, "Results saved to: %s\n", path)
		return ExitOK
	}
}
