package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"tokenbench/internal/metrics"
	"tokenbench/internal/report"
)

// runCompare builds the handler for the compare command.
func runCompare(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: auto-detect)")
		modeFlag := flags.String("mode", "", "Mode to compare (default: report.candidate_mode)")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if flags.NArg() != 2 {
			fmt.Fprintln(stderr, "compare expects an old and a new results log")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		mode := *modeFlag
		if mode == "" {
			mode = cfg.Report.CandidateMode
		}

		oldPath, newPath := flags.Arg(0), flags.Arg(1)
		oldRecords, err := report.LoadRecords(oldPath)
		if err != nil {
			fmt.Fprintf(stderr, "Compare failed: %v\n", err)
			return ExitError
		}
		newRecords, err := report.LoadRecords(newPath)
		if err != nil {
			fmt.Fprintf(stderr, "Compare failed: %v\n", err)
			return ExitError
		}

		fmt.Fprint(stdout, renderCompare(oldRecords, newRecords, oldPath, newPath, mode))
		return ExitOK
	}
}

// renderCompare builds the run-by-run comparison of two results logs for
// one mode.
func renderCompare(oldRecords, newRecords []metrics.RunRecord, oldPath, newPath, mode string) string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(&b, "%s\nOLD vs NEW COMPARISON\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Old file: %s\n", oldPath)
	fmt.Fprintf(&b, "New file: %s\n", newPath)

	oldRuns := modeRuns(oldRecords, mode)
	newRuns := modeRuns(newRecords, mode)

	fmt.Fprintf(&b, "\n%s\n%s MODE COMPARISON\n%s\n", rule, strings.ToUpper(mode), rule)

	for _, task := range sharedTasks(oldRuns, newRuns) {
		fmt.Fprintf(&b, "\n%s\nTask: %s\n%s\n", rule, task, rule)
		oldTask, newTask := oldRuns[task], newRuns[task]
		pairs := min(len(oldTask), len(newTask))
		for i := 0; i < pairs; i++ {
			oldRun, newRun := oldTask[i], newTask[i]
			writeRunBlock(&b, "OLD", oldRun)
			writeRunBlock(&b, "NEW", newRun)

			turnDelta := newRun.NumTurns - oldRun.NumTurns
			toolDelta := newRun.NumToolCalls - oldRun.NumToolCalls
			fmt.Fprintf(&b, "\nDELTA:\n")
			fmt.Fprintf(&b, "  Turns: %+d (%s)\n", turnDelta, deltaWord(turnDelta))
			fmt.Fprintf(&b, "  Tool calls: %+d (%s)\n", toolDelta, deltaWord(toolDelta))
			correctness := "same"
			if oldRun.Correct != newRun.Correct {
				correctness = "CHANGED"
			}
			fmt.Fprintf(&b, "  Correctness: %s\n", correctness)
		}
	}

	writeCompareSummary(&b, rule, flatten(oldRuns), flatten(newRuns))
	return b.String()
}

// writeRunBlock prints one run's headline numbers.
func writeRunBlock(b *strings.Builder, label string, record metrics.RunRecord) {
	fmt.Fprintf(b, "\n%s: rep %d (%s)\n", label, record.Repetition, record.Model)
	fmt.Fprintf(b, "  Turns: %d, Tool calls: %d\n", record.NumTurns, record.NumToolCalls)
	fmt.Fprintf(b, "  Tools: %s\n", formatToolMap(record.ToolCalls))
	fmt.Fprintf(b, "  Correct: %t\n", record.Correct)
}

// writeCompareSummary prints aggregate deltas over all compared runs.
func writeCompareSummary(b *strings.Builder, rule string, oldRuns, newRuns []metrics.RunRecord) {
	fmt.Fprintf(b, "\n%s\nSUMMARY STATISTICS\n%s\n\n", rule, rule)
	fmt.Fprintf(b, "%-30s %20s %20s %15s\n", "Metric", "Old", "New", "Delta")
	fmt.Fprintln(b, strings.Repeat("-", 90))

	for _, metric := range []struct {
		key   string
		label string
	}{
		{"num_turns", "Avg turns"},
		{"num_tool_calls", "Avg tool calls"},
	} {
		oldAvg := average(oldRuns, metric.key)
		newAvg := average(newRuns, metric.key)
		fmt.Fprintf(b, "%-30s %20.2f %20.2f %15.2f\n", metric.label, oldAvg, newAvg, newAvg-oldAvg)
	}

	oldCorrect := countCorrect(oldRuns)
	newCorrect := countCorrect(newRuns)
	fmt.Fprintf(b, "\n%-30s %17d/%d %17d/%d %15d\n", "Correctness",
		oldCorrect, len(oldRuns), newCorrect, len(newRuns), newCorrect-oldCorrect)

	fmt.Fprintf(b, "\n%s\nTOOL MIX ANALYSIS\n%s\n\n", rule, rule)
	oldTools := sumTools(oldRuns)
	newTools := sumTools(newRuns)
	fmt.Fprintf(b, "%-40s %15s %15s %15s\n", "Tool", "Old", "New", "Delta")
	fmt.Fprintln(b, strings.Repeat("-", 90))
	for _, tool := range sortedToolNames(oldTools, newTools) {
		fmt.Fprintf(b, "%-40s %15d %15d %15d\n", tool, oldTools[tool], newTools[tool], newTools[tool]-oldTools[tool])
	}
}

// modeRuns groups valid records of one mode by task, preserving order.
func modeRuns(records []metrics.RunRecord, mode string) map[string][]metrics.RunRecord {
	groups := make(map[string][]metrics.RunRecord)
	for _, record := range records {
		if !record.Valid() || record.Mode != mode {
			continue
		}
		groups[record.Task] = append(groups[record.Task], record)
	}
	return groups
}

// sharedTasks lists tasks present in both logs, sorted.
func sharedTasks(oldRuns, newRuns map[string][]metrics.RunRecord) []string {
	shared := make([]string, 0, len(oldRuns))
	for task := range oldRuns {
		if len(newRuns[task]) > 0 {
			shared = append(shared, task)
		}
	}
	sort.Strings(shared)
	return shared
}

func flatten(groups map[string][]metrics.RunRecord) []metrics.RunRecord {
	tasks := make([]string, 0, len(groups))
	for task := range groups {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	var out []metrics.RunRecord
	for _, task := range tasks {
		out = append(out, groups[task]...)
	}
	return out
}

func average(records []metrics.RunRecord, key string) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, record := range records {
		sum += record.Metric(key)
	}
	return sum / float64(len(records))
}

func countCorrect(records []metrics.RunRecord) int {
	count := 0
	for _, record := range records {
		if record.Correct {
			count++
		}
	}
	return count
}

func sumTools(records []metrics.RunRecord) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		for tool, count := range record.ToolCalls {
			counts[tool] += count
		}
	}
	return counts
}

func sortedToolNames(maps ...map[string]int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range maps {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func formatToolMap(tools map[string]int) string {
	if len(tools) == 0 {
		return "none"
	}
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, tools[name]))
	}
	return strings.Join(parts, ", ")
}

func deltaWord(delta int64) string {
	switch {
	case delta > 0:
		return "more"
	case delta < 0:
		return "fewer"
	default:
		return "same"
	}
}
