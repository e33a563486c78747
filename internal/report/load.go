package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"tokenbench/internal/metrics"
)

// InputError reports a results log that cannot feed a report: missing,
// unreadable, or holding no records at all. An all-error log is not an
// InputError; it renders as a minimal report instead.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("results log %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("results log %s: no records", e.Path)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// LoadRecords reads a JSON Lines results log. Blank and unparseable
// lines are skipped; logs written by interrupted drivers end with a
// truncated line and the intact records before it are still worth
// reporting on.
func LoadRecords(path string) ([]metrics.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	var records []metrics.RunRecord
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var record metrics.RunRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, &InputError{Path: path}
	}
	return records, nil
}
