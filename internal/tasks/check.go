package tasks

import (
	"context"
	"fmt"
	"strings"

	"tokenbench/internal/vcs"
)

// Checker scores a run's result text against a task's ground truth.
// Diff is injectable so tests can run without a git binary.
type Checker struct {
	Diff func(ctx context.Context, dir, path string) (string, error)
}

// NewChecker returns a checker backed by the system git binary.
func NewChecker() Checker {
	return Checker{Diff: vcs.Diff}
}

// Check validates result text and, for edit tasks, the working tree
// diff of the target file. The reason string names the first failed
// check; string matching is case-insensitive, diff matching is exact.
func (c Checker) Check(ctx context.Context, task Task, resultText, repoDir string) (bool, string) {
	textLower := strings.ToLower(resultText)

	for _, required := range task.Expect.RequiredStrings {
		if !strings.Contains(textLower, strings.ToLower(required)) {
			return false, fmt.Sprintf("Missing: %s", required)
		}
	}
	for _, forbidden := range task.Expect.ForbiddenStrings {
		if strings.Contains(textLower, strings.ToLower(forbidden)) {
			return false, fmt.Sprintf("Contains forbidden: %s", forbidden)
		}
	}

	if task.IsEdit() && task.Expect.File != "" {
		diff, err := c.Diff(ctx, repoDir, task.Expect.File)
		if err != nil {
			return false, fmt.Sprintf("git diff failed: %v", err)
		}
		if diff == "" {
			return false, "No changes in target file"
		}
		for _, pattern := range task.Expect.DiffContains {
			if !strings.Contains(diff, pattern) {
				return false, fmt.Sprintf("Diff missing: %s", pattern)
			}
		}
	}

	return true, "All checks passed"
}
