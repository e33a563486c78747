package live

import (
	"time"

	"tokenbench/internal/runner"
)

// RunRow holds UI state for a single benchmark cell.
type RunRow struct {
	Task          string
	Mode          string
	Model         string
	Repetition    int
	Status        runner.RunEventType
	NumTurns      int64
	ContextTokens int64
	CostUSD       float64
	Reason        string
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued    int
	Running   int
	Done      int
	Correct   int
	Incorrect int
	Errored   int
}

// State captures the live UI state for a benchmark.
type State struct {
	RunID      string
	TotalRuns  int
	OutputPath string
	StartedAt  time.Time
	LastEvent  string
	Rows       []RunRow
	Counts     StatusCounts
}
