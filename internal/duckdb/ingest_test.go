package duckdb_test

import (
	"testing"

	"tokenbench/internal/duckdb"
	duckdbtesting "tokenbench/internal/duckdb/testing"
	"tokenbench/internal/metrics"
	"tokenbench/internal/testutil"
)

func sampleRecords() []metrics.RunRecord {
	return []metrics.RunRecord{
		{
			Task: "find-auth", Mode: "baseline", Model: "sonnet", Repetition: 0,
			SessionID: "sess-1", NumTurns: 10, NumToolCalls: 12,
			TotalCostUSD: 0.10, DurationMS: 60000,
			ContextTokens: 50000, OutputTokens: 2000, InputTokens: 400,
			CacheCreationTokens: 30000, CacheReadTokens: 19600,
			PerTurnContextTokens: []int64{1000, 2000, 4000},
			ToolCalls:            map[string]int{"Read": 8, "Grep": 4},
			Correct:              true, CorrectnessReason: "All checks passed",
		},
		{
			Task: "find-auth", Mode: "candidate", Model: "sonnet", Repetition: 0,
			Error: "claude failed", CorrectnessReason: "Exception: claude failed",
		},
	}
}

func TestIngestRecords(t *testing.T) {
	ctx := testutil.Context(t, 0)
	db := duckdbtesting.Open(t, "")
	duckdbtesting.ApplySchema(t, db)

	result, err := duckdb.IngestRecords(ctx, db, sampleRecords(), "bench.jsonl")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Inserted != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var runs, toolRows, turnRows int
	if err := db.QueryRow("SELECT count(*) FROM runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if err := db.QueryRow("SELECT count(*) FROM run_tool_calls").Scan(&toolRows); err != nil {
		t.Fatalf("count tool calls: %v", err)
	}
	if err := db.QueryRow("SELECT count(*) FROM run_turns").Scan(&turnRows); err != nil {
		t.Fatalf("count turns: %v", err)
	}
	if runs != 2 || toolRows != 2 || turnRows != 3 {
		t.Fatalf("unexpected row counts: runs=%d tools=%d turns=%d", runs, toolRows, turnRows)
	}

	var repo string
	if err := db.QueryRow("SELECT repo FROM runs WHERE mode = 'candidate'").Scan(&repo); err != nil {
		t.Fatalf("select repo: %v", err)
	}
	if repo != metrics.RepoSynthetic {
		t.Fatalf("expected synthetic repo label, got %q", repo)
	}
}

func TestIngestRecordsIsIdempotent(t *testing.T) {
	ctx := testutil.Context(t, 0)
	db := duckdbtesting.Open(t, "")
	duckdbtesting.ApplySchema(t, db)

	if _, err := duckdb.IngestRecords(ctx, db, sampleRecords(), "bench.jsonl"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	result, err := duckdb.IngestRecords(ctx, db, sampleRecords(), "bench.jsonl")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if result.Inserted != 0 || result.Skipped != 2 {
		t.Fatalf("expected full dedupe, got %+v", result)
	}

	var runs int
	if err := db.QueryRow("SELECT count(*) FROM runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 2 {
		t.Fatalf("expected 2 runs after re-ingest, got %d", runs)
	}
}

func TestFingerprintJSONIsDeterministic(t *testing.T) {
	records := sampleRecords()
	first, err := duckdb.FingerprintJSON(records[0])
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	second, err := duckdb.FingerprintJSON(records[0])
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprints differ: %s vs %s", first, second)
	}
	other, err := duckdb.FingerprintJSON(records[1])
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if first == other {
		t.Fatalf("distinct records share a fingerprint")
	}
}
