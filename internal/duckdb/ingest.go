// Package duckdb persists benchmark results into a DuckDB database so
// runs from many logs can be queried together.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tokenbench/internal/metrics"
)

// IngestResult reports what one ingestion pass did.
type IngestResult struct {
	Inserted int
	Skipped  int
}

// IngestRecords inserts run records, deduplicating by the fingerprint
// of the full record. Re-ingesting the same log is a no-op.
func IngestRecords(ctx context.Context, db *sql.DB, records []metrics.RunRecord, sourceFile string) (IngestResult, error) {
	if db == nil {
		return IngestResult{}, errors.New("duckdb: db is nil")
	}
	var result IngestResult
	for _, record := range records {
		inserted, err := ingestRecord(ctx, db, record, sourceFile)
		if err != nil {
			return result, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func ingestRecord(ctx context.Context, db *sql.DB, record metrics.RunRecord, sourceFile string) (bool, error) {
	key, err := FingerprintJSON(record)
	if err != nil {
		return false, fmt.Errorf("fingerprint record: %w", err)
	}

	var existing string
	err = db.QueryRowContext(ctx,
		"SELECT CAST(run_id AS VARCHAR) FROM runs WHERE run_key = ?", key).Scan(&existing)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup run: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
		  run_id, run_key, task, repo, mode, model, repetition, session_id,
		  num_turns, num_tool_calls, total_cost_usd, duration_ms, duration_api_ms,
		  context_tokens, output_tokens, input_tokens,
		  cache_creation_tokens, cache_read_tokens,
		  correct, correctness_reason, error, source_file, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, key, record.Task, record.RepoLabel(), record.Mode, record.Model,
		record.Repetition, record.SessionID,
		record.NumTurns, record.NumToolCalls, record.TotalCostUSD,
		record.DurationMS, record.DurationAPIMS,
		record.ContextTokens, record.OutputTokens, record.InputTokens,
		record.CacheCreationTokens, record.CacheReadTokens,
		record.Correct, record.CorrectnessReason, record.Error,
		sourceFile, time.Now().UTC(),
	); err != nil {
		return false, fmt.Errorf("insert run: %w", err)
	}

	for name, count := range record.ToolCalls {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_tool_calls (run_id, tool_name, call_count) VALUES (?, ?, ?)",
			id, name, count,
		); err != nil {
			return false, fmt.Errorf("insert tool call: %w", err)
		}
	}
	for turn, tokens := range record.PerTurnContextTokens {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_turns (run_id, turn_index, context_tokens) VALUES (?, ?, ?)",
			id, turn, tokens,
		); err != nil {
			return false, fmt.Errorf("insert turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit ingest: %w", err)
	}
	return true, nil
}
