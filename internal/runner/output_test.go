package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tokenbench/internal/metrics"
)

func TestResultsWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "bench.jsonl")
	writer, err := CreateResultsLog(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := writer.Append(metrics.RunRecord{Task: "t1", Mode: "baseline", Model: "m"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := writer.AppendRaw(`{"task":"t2","mode":"baseline","model":"m"}`); err != nil {
		t.Fatalf("append raw: %v", err)
	}

	// Records must be durable before Close.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	path := DefaultOutputPath("/results", "20260301T120000Z-abc", []string{"sonnet"})
	if path != "/results/benchmark_20260301T120000Z-abc_sonnet.jsonl" {
		t.Fatalf("unexpected path: %s", path)
	}
	multi := DefaultOutputPath("/results", "id", []string{"sonnet", "opus"})
	if multi != "/results/benchmark_id.jsonl" {
		t.Fatalf("unexpected path: %s", multi)
	}
}

func TestRetryOutputPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := RetryOutputPath("/results", now)
	if path != "/results/benchmark_20260301T120000Z_retry.jsonl" {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestParseList(t *testing.T) {
	valid := []string{"find-auth", "add-retry", "trace-flow"}

	got, err := ParseList("find-auth, trace-flow", valid, "tasks")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0] != "find-auth" || got[1] != "trace-flow" {
		t.Fatalf("unexpected selection: %v", got)
	}

	all, err := ParseList("ALL", valid, "tasks")
	if err != nil {
		t.Fatalf("parse all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all options, got %v", all)
	}

	if _, err := ParseList("find-auth,ghost", valid, "tasks"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}
