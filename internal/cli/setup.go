package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tokenbench/internal/config"
	"tokenbench/internal/fixtures"
)

// Seams for tests.
var (
	setupRepos     = fixtures.SetupRepos
	setupSynthetic = fixtures.SetupSynthetic
)

// runSetup builds the handler for the setup command.
func runSetup(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: auto-detect)")
		withRepos := flags.Bool("repos", false, "Clone fixture repos at pinned commits")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, root, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		deps := fixtures.Dependencies{Progress: stdout}

		syntheticDir := config.SyntheticRepoDir(root, cfg.Harness.FixturesDir)
		if err := setupSynthetic(ctx, syntheticDir, deps); err != nil {
			fmt.Fprintf(stderr, "Setup failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Synthetic repo ready at %s\n", syntheticDir)

		if *withRepos {
			reposDir := config.ReposDir(root, cfg.Harness.FixturesDir)
			if err := setupRepos(ctx, cfg.Repos, reposDir, deps); err != nil {
				fmt.Fprintf(stderr, "Setup failed: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Cloned %d repos under %s\n", len(cfg.Repos), reposDir)
		} else {
			fmt.Fprintln(stdout, "Skipping real-world repos (pass --repos to clone them).")
		}
		return ExitOK
	}
}
