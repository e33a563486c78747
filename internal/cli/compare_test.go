package cli

import (
	"strings"
	"testing"

	"tokenbench/internal/metrics"
)

func compareRecord(task, mode string, rep int, turns, tools int64, correct bool) metrics.RunRecord {
	return metrics.RunRecord{
		Task:         task,
		Mode:         mode,
		Model:        "sonnet",
		Repetition:   rep,
		NumTurns:     turns,
		NumToolCalls: tools,
		ToolCalls:    map[string]int{"Read": int(tools)},
		Correct:      correct,
	}
}

// TestRenderComparePairsRuns verifies per-task deltas and the summary.
func TestRenderComparePairsRuns(t *testing.T) {
	oldRecords := []metrics.RunRecord{
		compareRecord("find-auth", "candidate", 0, 10, 12, false),
		compareRecord("find-auth", "baseline", 0, 9, 11, true),
	}
	newRecords := []metrics.RunRecord{
		compareRecord("find-auth", "candidate", 0, 6, 7, true),
	}

	output := renderCompare(oldRecords, newRecords, "old.jsonl", "new.jsonl", "candidate")

	for _, want := range []string{
		"OLD vs NEW COMPARISON",
		"Old file: old.jsonl",
		"CANDIDATE MODE COMPARISON",
		"Task: find-auth",
		"Turns: -4 (fewer)",
		"Tool calls: -5 (fewer)",
		"Correctness: CHANGED",
		"SUMMARY STATISTICS",
		"Avg turns",
		"TOOL MIX ANALYSIS",
		"Read",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "baseline") {
		t.Fatalf("baseline runs should be excluded:\n%s", output)
	}
}

// TestRenderCompareSkipsErrorRecords verifies only valid runs compare.
func TestRenderCompareSkipsErrorRecords(t *testing.T) {
	errored := compareRecord("find-auth", "candidate", 0, 0, 0, false)
	errored.Error = "timeout"
	oldRecords := []metrics.RunRecord{errored}
	newRecords := []metrics.RunRecord{compareRecord("find-auth", "candidate", 0, 6, 7, true)}

	output := renderCompare(oldRecords, newRecords, "old.jsonl", "new.jsonl", "candidate")
	if strings.Contains(output, "Task: find-auth") {
		t.Fatalf("expected no per-task section without old runs:\n%s", output)
	}
	if !strings.Contains(output, "Correctness") {
		t.Fatalf("expected summary correctness row:\n%s", output)
	}
}
