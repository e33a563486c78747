// Package report renders Markdown benchmark reports from results logs.
package report

import "tokenbench/internal/metrics"

// Options carries the configuration a report depends on. Mode names,
// pricing and tool categories come from the benchmark config rather
// than being baked in here.
type Options struct {
	BaselineMode  string
	CandidateMode string
	Pricing       metrics.Pricing
	Classifier    metrics.Classifier
}

type metricColumn struct {
	Label string
	Key   string
}

var tableMetrics = []metricColumn{
	{"Context tokens", "context_tokens"},
	{"Output tokens", "output_tokens"},
	{"Turns", "num_turns"},
	{"Tool calls", "num_tool_calls"},
	{"Cost USD", "total_cost_usd"},
	{"Duration ms", "duration_ms"},
}

var summaryMetrics = []metricColumn{
	{"Context tokens", "context_tokens"},
	{"Turns", "num_turns"},
	{"Tool calls", "num_tool_calls"},
	{"Cost USD", "total_cost_usd"},
}
