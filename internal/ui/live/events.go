package live

import "tokenbench/internal/runner"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventBenchStart signals the start of a benchmark.
	EventBenchStart EventKind = iota
	// EventRun delivers a run cell status update.
	EventRun
	// EventBenchEnd signals benchmark completion.
	EventBenchEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	RunID      string
	TotalRuns  int
	Run        runner.RunEvent
	OutputPath string
}
