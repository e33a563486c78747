package config

import (
	"fmt"
	"strings"

	"tokenbench/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a config for structural correctness.
func Validate(cfg *spec.Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	modelIDs := map[string]struct{}{}
	if len(cfg.Models) == 0 {
		add("models", "at least one model is required")
	}
	for i, model := range cfg.Models {
		prefix := fmt.Sprintf("models[%d]", i)
		id := strings.TrimSpace(model.ID)
		if id == "" {
			add(prefix+".id", "is required")
		} else if _, exists := modelIDs[id]; exists {
			add("models.id", fmt.Sprintf("duplicate id %q", id))
		} else {
			modelIDs[id] = struct{}{}
		}
		if strings.TrimSpace(model.APIID) == "" {
			add(prefix+".api_id", "is required")
		}
	}

	if cfg.Defaults.Model != "" {
		if _, ok := modelIDs[cfg.Defaults.Model]; !ok {
			add("defaults.model", fmt.Sprintf("unknown model %q", cfg.Defaults.Model))
		}
	}

	modeIDs := map[string]struct{}{}
	if len(cfg.Modes) == 0 {
		add("modes", "at least one mode is required")
	}
	for i, mode := range cfg.Modes {
		prefix := fmt.Sprintf("modes[%d]", i)
		id := strings.TrimSpace(mode.ID)
		if id == "" {
			add(prefix+".id", "is required")
		} else if _, exists := modeIDs[id]; exists {
			add("modes.id", fmt.Sprintf("duplicate id %q", id))
		} else {
			modeIDs[id] = struct{}{}
		}
	}

	repoNames := map[string]struct{}{}
	for i, repo := range cfg.Repos {
		prefix := fmt.Sprintf("repos[%d]", i)
		name := strings.TrimSpace(repo.Name)
		if name == "" {
			add(prefix+".name", "is required")
		} else if _, exists := repoNames[name]; exists {
			add("repos.name", fmt.Sprintf("duplicate name %q", name))
		} else {
			repoNames[name] = struct{}{}
		}
		if strings.TrimSpace(repo.URL) == "" {
			add(prefix+".url", "is required")
		}
		if strings.TrimSpace(repo.Commit) == "" {
			add(prefix+".commit", "is required")
		}
	}

	taskIDs := map[string]struct{}{}
	if len(cfg.Tasks) == 0 {
		add("tasks", "at least one task is required")
	}
	for i, task := range cfg.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		id := strings.TrimSpace(task.ID)
		if id == "" {
			add(prefix+".id", "is required")
		} else if _, exists := taskIDs[id]; exists {
			add("tasks.id", fmt.Sprintf("duplicate id %q", id))
		} else {
			taskIDs[id] = struct{}{}
		}
		if strings.TrimSpace(task.Prompt) == "" {
			add(prefix+".prompt", "is required")
		}
		switch task.Type {
		case "read", "edit":
		default:
			add(prefix+".type", fmt.Sprintf("unsupported type %q (expected read|edit)", task.Type))
		}
		if task.Type == "edit" && strings.TrimSpace(task.Expect.File) == "" {
			add(prefix+".expect.file", "is required for edit tasks")
		}
		if task.Repo != "" {
			if _, ok := repoNames[task.Repo]; !ok {
				add(prefix+".repo", fmt.Sprintf("unknown repo %q", task.Repo))
			}
		}
	}

	if cfg.Pricing.CacheCreationPerMTok < 0 || cfg.Pricing.CacheReadPerMTok < 0 ||
		cfg.Pricing.OutputPerMTok < 0 || cfg.Pricing.InputPerMTok < 0 {
		add("pricing", "rates must be >= 0")
	}

	if cfg.Report.BaselineMode != "" {
		if _, ok := modeIDs[cfg.Report.BaselineMode]; !ok {
			add("report.baseline_mode", fmt.Sprintf("unknown mode %q", cfg.Report.BaselineMode))
		}
	}
	if cfg.Report.CandidateMode != "" {
		if _, ok := modeIDs[cfg.Report.CandidateMode]; !ok {
			add("report.candidate_mode", fmt.Sprintf("unknown mode %q", cfg.Report.CandidateMode))
		}
	}
	for i, category := range cfg.Report.ToolCategories {
		prefix := fmt.Sprintf("report.tool_categories[%d]", i)
		if strings.TrimSpace(category.Name) == "" {
			add(prefix+".name", "is required")
		}
		if len(category.Substrings) == 0 {
			add(prefix+".substrings", "at least one substring is required")
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
