// Package cli implements the tokenbench command line interface.
package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tokenbench <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"tokenbench <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .tokenbench/config.yml", []string{
		"tokenbench init [--config <path>]",
	}, runInit),
	command("setup", "Build fixture repos", []string{
		"tokenbench setup [--repos]",
	}, runSetup),
	command("run", "Execute benchmark runs", []string{
		"tokenbench run [--models a,b|all] [--tasks ...] [--modes ...] [--repos ...]",
		"               [--reps N] [--budget USD] [--timeout SECONDS]",
		"               [--output FILE] [--ui auto|live|plain] [--verbose]",
	}, runRun),
	command("retry", "Re-run errored records from a results log", []string{
		"tokenbench retry <results.jsonl>",
	}, runRetry),
	command("analyze", "Generate a Markdown report from a results log", []string{
		"tokenbench analyze <results.jsonl> [--output FILE]",
	}, runAnalyze),
	command("compare", "Compare two results logs", []string{
		"tokenbench compare <old.jsonl> <new.jsonl>",
	}, runCompare),
	command("ingest", "Load a results log into a DuckDB database", []string{
		"tokenbench ingest <results.jsonl> --db <path>",
	}, runIngest),
}
