package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tokenbench/internal/spec"
)

func validConfig() spec.Config {
	return spec.Config{
		Version: 1,
		Models: []spec.ModelConfig{
			{ID: "sonnet", APIID: "claude-sonnet-4-5"},
		},
		Modes: []spec.ModeConfig{
			{ID: "baseline", Tools: []string{"Read", "Grep"}},
			{ID: "candidate", Tools: []string{"Read"}},
		},
		Repos: []spec.RepoConfig{
			{Name: "ripgrep", URL: "https://example.com/ripgrep.git", Commit: "abc123"},
		},
		Tasks: []spec.TaskConfig{
			{ID: "task1", Repo: "ripgrep", Type: "read", Prompt: "hello"},
		},
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := validConfig()

	Normalize(&cfg)

	if cfg.Defaults.Model != "sonnet" {
		t.Fatalf("expected default model from single entry, got %q", cfg.Defaults.Model)
	}
	if cfg.Defaults.Reps != 5 {
		t.Fatalf("expected default reps 5, got %d", cfg.Defaults.Reps)
	}
	if cfg.Pricing.CacheCreationPerMTok != 3.75 {
		t.Fatalf("expected default pricing, got %+v", cfg.Pricing)
	}
	if cfg.Report.BaselineMode != "baseline" || cfg.Report.CandidateMode != "candidate" {
		t.Fatalf("expected default report modes, got %+v", cfg.Report)
	}
	if len(cfg.Tasks[0].Expect.ForbiddenStrings) == 0 {
		t.Fatalf("expected default forbidden strings")
	}
	if len(cfg.Report.ToolCategories) == 0 {
		t.Fatalf("expected default tool categories")
	}
}

func TestNormalizeKeepsExplicitPricing(t *testing.T) {
	cfg := validConfig()
	cfg.Pricing = spec.PricingConfig{CacheCreationPerMTok: 1, CacheReadPerMTok: 1, OutputPerMTok: 1, InputPerMTok: 1}

	Normalize(&cfg)

	if cfg.Pricing.OutputPerMTok != 1 {
		t.Fatalf("explicit pricing was overwritten: %+v", cfg.Pricing)
	}
}

func TestValidateDetectsDuplicateModeIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Modes = append(cfg.Modes, cfg.Modes[0])

	err := Validate(&cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Issues) == 0 {
		t.Fatalf("expected issues, got none")
	}
}

func TestValidateUnknownTaskRepo(t *testing.T) {
	cfg := validConfig()
	cfg.Tasks[0].Repo = "nope"

	err := Validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), `unknown repo "nope"`) {
		t.Fatalf("expected unknown repo error, got %v", err)
	}
}

func TestValidateEditTaskRequiresFile(t *testing.T) {
	cfg := validConfig()
	cfg.Tasks[0].Type = "edit"

	err := Validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), "expect.file") {
		t.Fatalf("expected expect.file error, got %v", err)
	}
}

func TestValidateUnknownReportMode(t *testing.T) {
	cfg := validConfig()
	cfg.Report.BaselineMode = "missing"

	err := Validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), "report.baseline_mode") {
		t.Fatalf("expected report mode error, got %v", err)
	}
}

func TestLoadScaffoldedConfig(t *testing.T) {
	root := t.TempDir()
	configPath := ConfigPath(root)
	if err := Scaffold(configPath); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Modes) != 2 {
		t.Fatalf("expected 2 modes in scaffolded config, got %d", len(cfg.Modes))
	}
	if cfg.Defaults.TimeoutSeconds != 300 {
		t.Fatalf("expected timeout default, got %d", cfg.Defaults.TimeoutSeconds)
	}
}

func TestScaffoldRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	configPath := ConfigPath(root)
	if err := Scaffold(configPath); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if err := Scaffold(configPath); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
}

func TestFindConfigPathSearchesUpward(t *testing.T) {
	root := t.TempDir()
	configPath := ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	resolvedFound, err := filepath.EvalSymlinks(found)
	if err != nil {
		t.Fatalf("eval found: %v", err)
	}
	resolvedWant, err := filepath.EvalSymlinks(configPath)
	if err != nil {
		t.Fatalf("eval want: %v", err)
	}
	if resolvedFound != resolvedWant {
		t.Fatalf("expected %s, got %s", resolvedWant, resolvedFound)
	}
}

func TestRootFromConfigPath(t *testing.T) {
	if got := RootFromConfigPath("/x/y/.tokenbench/config.yml"); got != "/x/y" {
		t.Fatalf("unexpected root: %s", got)
	}
	if got := RootFromConfigPath("/x/y/config.yml"); got != "/x/y" {
		t.Fatalf("unexpected root for bare path: %s", got)
	}
}
