package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"tokenbench/internal/metrics"
	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
)

// RetryParams selects which earlier log to retry and the config-derived
// lookups needed to re-run its errored cells.
type RetryParams struct {
	SourcePath string
	OutputPath string
	Tasks      map[string]tasks.Task
	Modes      map[string]spec.ModeConfig
	Models     map[string]spec.ModelConfig

	BudgetUSD    float64
	Timeout      time.Duration
	SystemPrompt string
	ReposDir     string
	SyntheticDir string
	Deps         Dependencies
}

// retrySpec identifies one errored run extracted from a previous log.
type retrySpec struct {
	task  string
	mode  string
	model string
	rep   int
}

// Retry copies the intact records of a previous log to a new one, then
// re-runs only the errored cells and appends fresh records for them.
func Retry(ctx context.Context, params RetryParams) (string, int, error) {
	deps := params.Deps.withDefaults()

	goodLines, retries, err := splitRetryLog(params.SourcePath)
	if err != nil {
		return "", 0, err
	}
	if len(retries) == 0 {
		return "", 0, nil
	}
	for _, item := range retries {
		if _, ok := params.Tasks[item.task]; !ok {
			return "", 0, fmt.Errorf("unknown task %q in %s", item.task, params.SourcePath)
		}
		if _, ok := params.Modes[item.mode]; !ok {
			return "", 0, fmt.Errorf("unknown mode %q in %s", item.mode, params.SourcePath)
		}
		if _, ok := params.Models[item.model]; !ok {
			return "", 0, fmt.Errorf("unknown model %q in %s", item.model, params.SourcePath)
		}
	}

	writer, err := CreateResultsLog(params.OutputPath)
	if err != nil {
		return "", 0, err
	}
	defer writer.Close()
	for _, line := range goodLines {
		if err := writer.AppendRaw(line); err != nil {
			return "", 0, err
		}
	}

	runParams := params.runParams()
	for i, item := range retries {
		task := params.Tasks[item.task]
		mode := params.Modes[item.mode]
		model := params.Models[item.model]
		repoDir := runParams.repoDir(task)

		// Retried cells always start from a clean tree.
		if err := deps.Reset(ctx, repoDir); err != nil {
			return "", 0, fmt.Errorf("reset %s: %w", task.Repo, err)
		}
		fmt.Fprintf(deps.Progress, "[%d/%d] %s/%s/%s/rep%d\n",
			i+1, len(retries), item.task, item.mode, item.model, item.rep)

		if err := executeCell(ctx, deps, runParams, writer, task, mode, model, item.rep, repoDir); err != nil {
			return "", 0, err
		}
	}

	return writer.Path(), len(retries), nil
}

func (p RetryParams) runParams() Params {
	return Params{
		BudgetUSD:    p.BudgetUSD,
		Timeout:      p.Timeout,
		SystemPrompt: p.SystemPrompt,
		ReposDir:     p.ReposDir,
		SyntheticDir: p.SyntheticDir,
		Deps:         p.Deps,
	}
}

// splitRetryLog partitions a results log into intact lines and the
// specs of errored runs.
func splitRetryLog(path string) ([]string, []retrySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var goodLines []string
	var retries []retrySpec
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var record metrics.RunRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, lineNo+1, err)
		}
		if record.Error != "" {
			retries = append(retries, retrySpec{
				task:  record.Task,
				mode:  record.Mode,
				model: record.Model,
				rep:   record.Repetition,
			})
			continue
		}
		goodLines = append(goodLines, line)
	}
	return goodLines, retries, nil
}
