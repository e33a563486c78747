package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tokenbench/internal/metrics"
)

var now = time.Now

// Render produces the Markdown report for a results log. An all-error
// log yields a short failure report instead of statistics.
func Render(records []metrics.RunRecord, opts Options) string {
	valid := make([]metrics.RunRecord, 0, len(records))
	for _, record := range records {
		if record.Valid() {
			valid = append(valid, record)
		}
	}
	errorCount := len(records) - len(valid)

	if len(valid) == 0 {
		if len(records) == 0 {
			return "# Error\n\nNo valid results found.\n"
		}
		return fmt.Sprintf("# Error\n\nAll %d runs failed.\n", len(records))
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	linef := func(format string, args ...any) {
		line(fmt.Sprintf(format, args...))
	}

	reps := int64(0)
	for _, record := range valid {
		if int64(record.Repetition) > reps {
			reps = int64(record.Repetition)
		}
	}
	reps++

	line("# Benchmark Results")
	line("")
	linef("**Generated:** %s", now().Format("2006-01-02 15:04:05"))
	line("")
	runsLine := fmt.Sprintf("**Runs:** %d valid", len(valid))
	if errorCount > 0 {
		runsLine += fmt.Sprintf(" (%d errors)", errorCount)
	}
	line(runsLine)
	linef(" | **Models:** %s | **Repos:** %s | **Reps:** %d",
		strings.Join(distinct(valid, "model"), ", "),
		strings.Join(distinct(valid, "repo"), ", "),
		reps)
	line("")
	line("## Context Efficiency")
	line("")
	line("The primary metric. Context tokens (input + cached) represent the actual context processed each turn. This compounds because each turn re-sends conversation history.")
	line("")
	line("### Per-task comparison")
	line("")

	byTask := make(map[string][]metrics.RunRecord)
	for _, record := range valid {
		byTask[record.Task] = append(byTask[record.Task], record)
	}

	width := len(opts.BaselineMode)
	if len(opts.CandidateMode) > width {
		width = len(opts.CandidateMode)
	}
	width++

	for _, taskName := range distinct(valid, "task") {
		taskRecords := byTask[taskName]

		linef("#### %s", taskName)
		line("")

		if repo := taskRecords[0].RepoLabel(); repo != metrics.RepoSynthetic {
			linef("*Repo: %s*", repo)
			line("")
		}

		byMode := make(map[string][]metrics.RunRecord)
		for _, record := range taskRecords {
			byMode[record.Mode] = append(byMode[record.Mode], record)
		}
		baseRuns, hasBase := byMode[opts.BaselineMode]
		candRuns, hasCand := byMode[opts.CandidateMode]

		if hasBase && hasCand {
			renderComparison(line, linef, baseRuns, candRuns, opts, width)
		} else {
			for _, modeName := range distinct(taskRecords, "mode") {
				renderSingleMode(line, linef, modeName, byMode[modeName])
			}
		}
		line("")
	}

	renderSummary(line, linef, valid, opts)

	return b.String()
}

func renderComparison(line func(string), linef func(string, ...any), baseRuns, candRuns []metrics.RunRecord, opts Options, width int) {
	linef("| Metric | %s | %s | delta |", opts.BaselineMode, opts.CandidateMode)
	line("|--------|----------|-------|-------|")
	for _, col := range tableMetrics {
		baseStats := metrics.Compute(metricValues(baseRuns, col.Key))
		candStats := metrics.Compute(metricValues(candRuns, col.Key))
		linef("| %s (median) | %s | %s | %s |",
			col.Label,
			formatMetric(col.Key, baseStats.Median),
			formatMetric(col.Key, candStats.Median),
			metrics.FormatDelta(baseStats.Median, candStats.Median))
	}
	linef("| Correctness | %.0f%% | %.0f%% | %s |",
		metrics.CorrectPercent(baseRuns),
		metrics.CorrectPercent(candRuns),
		metrics.NoData)
	line("")

	baseRun, _ := metrics.FindMedianRun(baseRuns, "total_cost_usd")
	candRun, _ := metrics.FindMedianRun(candRuns, "total_cost_usd")
	baseCosts := metrics.Breakdown(baseRun, opts.Pricing)
	candCosts := metrics.Breakdown(candRun, opts.Pricing)

	line("**Cost breakdown (median run):**")
	line("")
	linef("  %-*s %d turns, $%.2f, %s", width, opts.BaselineMode+":",
		baseRun.NumTurns, baseRun.TotalCostUSD, verdict(baseRun.Correct))
	line(formatCostBreakdown(baseCosts))
	linef("  %-*s %d turns, $%.2f, %s", width, opts.CandidateMode+":",
		candRun.NumTurns, candRun.TotalCostUSD, verdict(candRun.Correct))
	line(formatCostBreakdown(candCosts))
	linef("  %-*s %+d turns, %+.2f", width, "delta:",
		candRun.NumTurns-baseRun.NumTurns, candRun.TotalCostUSD-baseRun.TotalCostUSD)
	line(formatCostDelta(baseCosts, candCosts))
	line("")

	baseCtx, _ := metrics.FindMedianRun(baseRuns, "context_tokens")
	candCtx, _ := metrics.FindMedianRun(candRuns, "context_tokens")
	if len(baseCtx.PerTurnContextTokens) > 0 && len(candCtx.PerTurnContextTokens) > 0 {
		line("**Per-turn context tokens (median run):**")
		line("")
		renderSparkline(linef, opts.BaselineMode, baseCtx.PerTurnContextTokens, width)
		renderSparkline(linef, opts.CandidateMode, candCtx.PerTurnContextTokens, width)
		line("")
	}

	baseTools := metrics.MergeToolCalls(baseRuns)
	candTools := metrics.MergeToolCalls(candRuns)
	if len(baseTools) > 0 || len(candTools) > 0 {
		line("**Tool breakdown (median counts):**")
		line("")
		if len(baseTools) > 0 {
			linef("  %-*s %s", width, opts.BaselineMode+":", formatToolCounts(baseTools))
		}
		if len(candTools) > 0 {
			linef("  %-*s %s", width, opts.CandidateMode+":", formatToolCounts(candTools))
		}
		line("")
	}

	baseCategories := opts.Classifier.CategoryCounts(baseTools)
	candCategories := opts.Classifier.CategoryCounts(candTools)
	if len(baseCategories) > 0 || len(candCategories) > 0 {
		line("**Tool categories (median counts):**")
		line("")
		if len(baseCategories) > 0 {
			linef("  %-*s %s", width, opts.BaselineMode+":", formatToolCounts(baseCategories))
		}
		if len(candCategories) > 0 {
			linef("  %-*s %s", width, opts.CandidateMode+":", formatToolCounts(candCategories))
		}
		line("")
	}
}

func renderSingleMode(line func(string), linef func(string, ...any), modeName string, runs []metrics.RunRecord) {
	linef("**Mode: %s**", modeName)
	line("")
	line("| Metric | Median |")
	line("|--------|--------|")
	for _, col := range tableMetrics {
		stats := metrics.Compute(metricValues(runs, col.Key))
		linef("| %s | %s |", col.Label, formatMetric(col.Key, stats.Median))
	}
	linef("| Correctness | %.0f%% |", metrics.CorrectPercent(runs))
	line("")
}

func renderSparkline(linef func(string, ...any), modeName string, series []int64, width int) {
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	linef("  %-*s %s (%s → %s)", width, modeName+":",
		metrics.Sparkline(series), formatTokens(lo), formatTokens(hi))
}

// renderSummary collapses each task to its per-task median before
// taking the cross-task median, so one outlier task cannot swamp the
// comparison.
func renderSummary(line func(string), linef func(string, ...any), valid []metrics.RunRecord, opts Options) {
	var baselineAll, candidateAll []metrics.RunRecord
	for _, record := range valid {
		switch record.Mode {
		case opts.BaselineMode:
			baselineAll = append(baselineAll, record)
		case opts.CandidateMode:
			candidateAll = append(candidateAll, record)
		}
	}
	if len(baselineAll) == 0 || len(candidateAll) == 0 {
		return
	}

	line("## Summary")
	line("")
	line("Averaged across all tasks (median of medians):")
	line("")
	linef("| Metric | %s | %s | Improvement |", opts.BaselineMode, opts.CandidateMode)
	line("|--------|----------|-------|-------------|")

	for _, col := range summaryMetrics {
		baseMedians := perTaskMedians(baselineAll, col.Key)
		candMedians := perTaskMedians(candidateAll, col.Key)
		if len(baseMedians) == 0 || len(candMedians) == 0 {
			continue
		}
		baseValue := metrics.Compute(baseMedians).Median
		candValue := metrics.Compute(candMedians).Median
		linef("| %s | %s | %s | %s |",
			col.Label,
			formatMetric(col.Key, baseValue),
			formatMetric(col.Key, candValue),
			metrics.FormatDelta(baseValue, candValue))
	}
	line("")
}

func perTaskMedians(records []metrics.RunRecord, key string) []float64 {
	medians := make([]float64, 0)
	for _, group := range metrics.GroupBy(records, "task") {
		medians = append(medians, metrics.Compute(group.Values(key)).Median)
	}
	return medians
}

func metricValues(records []metrics.RunRecord, key string) []float64 {
	values := make([]float64, 0, len(records))
	for _, record := range records {
		values = append(values, record.Metric(key))
	}
	return values
}

func distinct(records []metrics.RunRecord, label string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, record := range records {
		value := record.Label(label)
		if !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}
