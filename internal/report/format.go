package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"tokenbench/internal/metrics"
)

func formatMetric(key string, value float64) string {
	switch key {
	case "total_cost_usd":
		return fmt.Sprintf("$%.4f", value)
	case "context_tokens", "output_tokens", "input_tokens",
		"cache_creation_tokens", "cache_read_tokens":
		return humanize.Comma(int64(math.Round(value)))
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

func formatTokens(value int64) string {
	return humanize.Comma(value)
}

func formatCostBreakdown(c metrics.CostBreakdown) string {
	return fmt.Sprintf("  cache_create=$%.3f cache_read=$%.3f output=$%.3f input=$%.3f",
		c.CacheCreationCost, c.CacheReadCost, c.OutputCost, c.InputCost)
}

func formatCostDelta(baseline, candidate metrics.CostBreakdown) string {
	return fmt.Sprintf("  Δcache_create=%+.3f Δcache_read=%+.3f Δoutput=%+.3f Δinput=%+.3f",
		candidate.CacheCreationCost-baseline.CacheCreationCost,
		candidate.CacheReadCost-baseline.CacheReadCost,
		candidate.OutputCost-baseline.OutputCost,
		candidate.InputCost-baseline.InputCost)
}

func formatToolCounts(tools map[string]float64) string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.0f", name, tools[name]))
	}
	return strings.Join(parts, ", ")
}

func verdict(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
