package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"tokenbench/internal/metrics"
	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
	"tokenbench/internal/transcript"
)

const resultTextLimit = 5000

// runSingle executes one agent invocation and reduces it to a record.
// Invocation failures and malformed transcripts return an error; the
// caller logs them as error-marked records.
func runSingle(ctx context.Context, deps Dependencies, p Params, task tasks.Task, mode spec.ModeConfig, model spec.ModelConfig, rep int, repoDir string) (metrics.RunRecord, error) {
	args := agentArgs(task, mode, model.APIID, p.SystemPrompt, p.BudgetUSD)

	runCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := deps.Invoke(runCtx, repoDir, args)
	elapsedMS := time.Since(start).Milliseconds()
	if err != nil {
		return metrics.RunRecord{}, err
	}

	result, err := transcript.Reduce(raw)
	if err != nil {
		return metrics.RunRecord{}, fmt.Errorf("parse transcript: %w", err)
	}
	if result.DurationMS == 0 {
		result.DurationMS = elapsedMS
	}

	correct, reason := deps.Check.Check(ctx, task, result.ResultText, repoDir)

	toolCounts := result.ToolCallCounts()
	perTurn := result.PerTurnContextTokens()
	var contextTokens, numToolCalls int64
	for _, tokens := range perTurn {
		contextTokens += tokens
	}
	for _, count := range toolCounts {
		numToolCalls += int64(count)
	}

	return metrics.RunRecord{
		Task:                 task.ID,
		Repo:                 task.Repo,
		Mode:                 mode.ID,
		Model:                model.ID,
		Repetition:           rep,
		SessionID:            result.SessionID,
		NumTurns:             result.NumTurns,
		NumToolCalls:         numToolCalls,
		ToolCalls:            toolCounts,
		TotalCostUSD:         result.TotalCostUSD,
		DurationMS:           result.DurationMS,
		DurationAPIMS:        result.DurationAPIMS,
		ContextTokens:        contextTokens,
		OutputTokens:         result.TotalOutputTokens,
		InputTokens:          result.TotalInputTokens,
		CacheCreationTokens:  result.TotalCacheCreationTokens,
		CacheReadTokens:      result.TotalCacheReadTokens,
		PerTurnContextTokens: perTurn,
		Correct:              correct,
		CorrectnessReason:    reason,
		ResultText:           truncateUTF8(result.ResultText, resultTextLimit),
		ToolSequence:         compactToolSequence(result),
	}, nil
}

// compactArgKeys are the tool inputs worth keeping in the stored
// sequence, with per-key truncation limits.
var compactArgKeys = map[string]int{
	"pattern": 60,
	"query":   60,
	"path":    60,
	"scope":   60,
	"kind":    60,
	"section": 60,
	"expand":  60,
	"command": 80,
}

// compactToolSequence flattens the ordered tool calls into short
// entries for qualitative inspection, keeping only identifying args.
func compactToolSequence(result transcript.RunResult) []metrics.ToolSequenceEntry {
	var seq []metrics.ToolSequenceEntry
	for _, turn := range result.Turns {
		for _, call := range turn.ToolCalls {
			entry := metrics.ToolSequenceEntry{Name: call.Name}
			args := make(map[string]string)
			for key, value := range call.Input {
				text, ok := value.(string)
				if !ok {
					continue
				}
				if key == "file_path" {
					args[key] = filepath.Base(text)
					continue
				}
				if limit, ok := compactArgKeys[key]; ok {
					args[key] = truncateUTF8(text, limit)
				}
			}
			if len(args) > 0 {
				entry.Args = args
			}
			seq = append(seq, entry)
		}
	}
	return seq
}

// truncateUTF8 cuts a string to at most limit bytes without splitting
// a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// errorRecord marks a failed run so it is counted but never aggregated.
func errorRecord(task, mode, model string, rep int, err error) metrics.RunRecord {
	msg := err.Error()
	return metrics.RunRecord{
		Task:              task,
		Mode:              mode,
		Model:             model,
		Repetition:        rep,
		Error:             msg,
		Correct:           false,
		CorrectnessReason: "Exception: " + msg,
	}
}

// isTimeout reports whether a run failure was the per-run deadline.
func isTimeout(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "timeout")
}
