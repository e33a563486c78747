package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tokenbench/internal/metrics"
)

// ResultsWriter appends records to a JSON Lines results log, flushing
// after every record so partial progress survives a crash.
type ResultsWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// CreateResultsLog creates (or truncates) a results log, making parent
// directories as needed.
func CreateResultsLog(path string) (*ResultsWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results log: %w", err)
	}
	return &ResultsWriter{path: path, file: file, buf: bufio.NewWriter(file)}, nil
}

// Path returns the log location.
func (w *ResultsWriter) Path() string {
	return w.path
}

// Append writes one record as a JSON line and flushes.
func (w *ResultsWriter) Append(record metrics.RunRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return w.AppendRaw(string(line))
}

// AppendRaw writes an already-encoded JSON line and flushes.
func (w *ResultsWriter) AppendRaw(line string) error {
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Close flushes and closes the log.
func (w *ResultsWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// DefaultOutputPath names a results log after the run ID, with a model
// suffix when the benchmark covers a single model.
func DefaultOutputPath(resultsDir, runID string, modelIDs []string) string {
	name := "benchmark_" + runID
	if len(modelIDs) == 1 {
		name += "_" + modelIDs[0]
	}
	return filepath.Join(resultsDir, name+".jsonl")
}

// RetryOutputPath names the log produced by retrying an earlier one.
func RetryOutputPath(resultsDir string, now time.Time) string {
	return filepath.Join(resultsDir, "benchmark_"+now.Format("20060102T150405Z")+"_retry.jsonl")
}
