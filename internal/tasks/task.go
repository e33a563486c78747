// Package tasks defines benchmark tasks and their correctness checks.
package tasks

import (
	"tokenbench/internal/spec"
)

// Task is one benchmark prompt plus the ground truth used to score the
// agent's answer.
type Task struct {
	ID     string
	Repo   string
	Type   string
	Prompt string
	Expect Expect
}

// Expect holds the ground truth for a task. ForbiddenStrings default to
// common refusal phrases during config normalization.
type Expect struct {
	RequiredStrings  []string
	ForbiddenStrings []string
	File             string
	DiffContains     []string
}

// IsEdit reports whether the task mutates the fixture repo.
func (t Task) IsEdit() bool {
	return t.Type == "edit"
}

// FromConfig maps configured tasks into runnable tasks, preserving
// config order.
func FromConfig(cfg spec.Config) []Task {
	out := make([]Task, 0, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		out = append(out, Task{
			ID:     tc.ID,
			Repo:   tc.Repo,
			Type:   tc.Type,
			Prompt: tc.Prompt,
			Expect: Expect{
				RequiredStrings:  tc.Expect.RequiredStrings,
				ForbiddenStrings: tc.Expect.ForbiddenStrings,
				File:             tc.Expect.File,
				DiffContains:     tc.Expect.DiffContains,
			},
		})
	}
	return out
}

// ByID indexes tasks for filter resolution.
func ByID(all []Task) map[string]Task {
	index := make(map[string]Task, len(all))
	for _, task := range all {
		index[task.ID] = task
	}
	return index
}
