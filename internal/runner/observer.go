package runner

import "time"

// RunEventType identifies a benchmark run status update for observers.
type RunEventType string

const (
	// RunQueued marks a run planned but not yet started.
	RunQueued RunEventType = "queued"
	// RunStarted marks an active agent invocation.
	RunStarted RunEventType = "running"
	// RunCorrect marks a completed run that passed its checks.
	RunCorrect RunEventType = "correct"
	// RunIncorrect marks a completed run that failed its checks.
	RunIncorrect RunEventType = "incorrect"
	// RunErrored marks a run whose invocation or parsing failed.
	RunErrored RunEventType = "error"
)

// RunEvent carries a single status update for one (task, mode, model,
// repetition) cell.
type RunEvent struct {
	Task          string
	Mode          string
	Model         string
	Repetition    int
	Type          RunEventType
	NumTurns      int64
	ContextTokens int64
	OutputTokens  int64
	DurationMS    int64
	CostUSD       float64
	Reason        string
	Error         string
	EmittedAt     time.Time
}

// Observer receives run lifecycle events for UI or logging.
type Observer interface {
	// OnBenchStart signals the start of a benchmark with its run count.
	OnBenchStart(runID string, totalRuns int)
	// OnRunEvent delivers a run status update.
	OnRunEvent(event RunEvent)
	// OnBenchEnd signals benchmark completion with the results path.
	OnBenchEnd(outputPath string)
}
