// Package runner drives the benchmark: it invokes the agent CLI once
// per (task, mode, model, repetition) cell, reduces each transcript to
// a record and appends it to a results log.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"tokenbench/internal/metrics"
	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
	"tokenbench/internal/vcs"
)

// Dependencies holds the runner's injectable collaborators.
type Dependencies struct {
	Invoke   AgentInvoker
	Reset    func(ctx context.Context, dir string) error
	Check    tasks.Checker
	RunID    func() (string, error)
	Observer Observer
	Progress io.Writer
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Invoke == nil {
		d.Invoke = execInvoke
	}
	if d.Reset == nil {
		d.Reset = vcs.Reset
	}
	if d.Check.Diff == nil {
		d.Check = tasks.NewChecker()
	}
	if d.RunID == nil {
		d.RunID = NewRunID
	}
	if d.Progress == nil {
		d.Progress = io.Discard
	}
	return d
}

// Params selects what to benchmark and where outputs go. Tasks, modes
// and models are already resolved from config by the caller.
type Params struct {
	Tasks        []tasks.Task
	Modes        []spec.ModeConfig
	Models       []spec.ModelConfig
	Reps         int
	BudgetUSD    float64
	Timeout      time.Duration
	SystemPrompt string
	ReposDir     string
	SyntheticDir string
	OutputPath   string
	Deps         Dependencies
}

// repoDir resolves the working directory for a task's fixture repo.
func (p Params) repoDir(task tasks.Task) string {
	if task.Repo == "" || task.Repo == metrics.RepoSynthetic {
		return p.SyntheticDir
	}
	return filepath.Join(p.ReposDir, task.Repo)
}

// Run executes the full benchmark grid and returns the results path.
func Run(ctx context.Context, params Params) (string, error) {
	deps := params.Deps.withDefaults()
	if params.Reps <= 0 {
		params.Reps = 1
	}
	if len(params.Tasks) == 0 {
		return "", fmt.Errorf("no tasks selected")
	}
	if len(params.Modes) == 0 || len(params.Models) == 0 {
		return "", fmt.Errorf("no modes or models selected")
	}

	runID, err := deps.RunID()
	if err != nil {
		return "", err
	}
	writer, err := CreateResultsLog(params.OutputPath)
	if err != nil {
		return "", err
	}
	defer writer.Close()

	totalRuns := len(params.Tasks) * len(params.Modes) * len(params.Models) * params.Reps
	if deps.Observer != nil {
		deps.Observer.OnBenchStart(runID, totalRuns)
	}

	currentRun := 0
	prevTask, prevMode := "", ""
	for _, task := range params.Tasks {
		for _, mode := range params.Modes {
			for _, model := range params.Models {
				for rep := 0; rep < params.Reps; rep++ {
					currentRun++
					repoDir := params.repoDir(task)

					// Edit tasks mutate the tree, so they get a clean
					// tree before every repetition. Read tasks only
					// need one when the mode changes.
					needsReset := false
					if task.Expect.File != "" {
						if rep > 0 || prevMode != mode.ID || prevTask != task.ID {
							needsReset = true
						}
					} else if prevMode != mode.ID {
						needsReset = true
					}
					if needsReset {
						if err := deps.Reset(ctx, repoDir); err != nil {
							return "", fmt.Errorf("reset %s: %w", task.Repo, err)
						}
					}
					prevTask, prevMode = task.ID, mode.ID

					fmt.Fprintf(deps.Progress, "[%d/%d] %s/%s/%s/rep%d\n",
						currentRun, totalRuns, task.ID, mode.ID, model.ID, rep)
					emit(deps.Observer, RunEvent{
						Task: task.ID, Mode: mode.ID, Model: model.ID,
						Repetition: rep, Type: RunStarted,
					})

					if err := executeCell(ctx, deps, params, writer, task, mode, model, rep, repoDir); err != nil {
						return "", err
					}
				}
			}
		}
	}

	if deps.Observer != nil {
		deps.Observer.OnBenchEnd(writer.Path())
	}
	fmt.Fprintf(deps.Progress, "\nResults saved to: %s\n", writer.Path())
	return writer.Path(), nil
}

// executeCell runs one grid cell and appends its record. Run failures
// become error records; only I/O on the results log aborts the bench.
func executeCell(ctx context.Context, deps Dependencies, params Params, writer *ResultsWriter, task tasks.Task, mode spec.ModeConfig, model spec.ModelConfig, rep int, repoDir string) error {
	record, err := runSingle(ctx, deps, params, task, mode, model, rep, repoDir)
	if err != nil {
		if isTimeout(err) {
			fmt.Fprintf(deps.Progress, "  ✗ TIMEOUT (>%s)\n", params.Timeout)
		} else {
			fmt.Fprintf(deps.Progress, "  ✗ ERROR: %v\n", err)
		}
		record = errorRecord(task.ID, mode.ID, model.ID, rep, err)
		emit(deps.Observer, RunEvent{
			Task: task.ID, Mode: mode.ID, Model: model.ID,
			Repetition: rep, Type: RunErrored, Error: record.Error,
		})
		return writer.Append(record)
	}

	status, eventType := "✗", RunIncorrect
	if record.Correct {
		status, eventType = "✓", RunCorrect
	}
	fmt.Fprintf(deps.Progress, "  %s %dt %dctx %dout %dms\n",
		status, record.NumTurns, record.ContextTokens, record.OutputTokens, record.DurationMS)
	if !record.Correct {
		fmt.Fprintf(deps.Progress, "  → %s\n", record.CorrectnessReason)
	}
	emit(deps.Observer, RunEvent{
		Task: task.ID, Mode: mode.ID, Model: model.ID,
		Repetition: rep, Type: eventType,
		NumTurns: record.NumTurns, ContextTokens: record.ContextTokens,
		OutputTokens: record.OutputTokens, DurationMS: record.DurationMS,
		CostUSD: record.TotalCostUSD, Reason: record.CorrectnessReason,
	})
	return writer.Append(record)
}

func emit(observer Observer, event RunEvent) {
	if observer == nil {
		return
	}
	event.EmittedAt = time.Now()
	observer.OnRunEvent(event)
}
