//go:build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
)

const validConfigYAML = `version: 1

harness:
  fixtures_dir: fixtures
  results_dir: results
  system_prompt: "Answer questions about the codebase."

defaults:
  model: sonnet
  reps: 1
  budget_usd: 1.0
  timeout_seconds: 60

models:
  - id: sonnet
    api_id: claude-sonnet-4-5

modes:
  - id: baseline
    tools: [Read, Grep, Glob]
  - id: candidate
    tools: [Read]

tasks:
  - id: find-auth
    prompt: "Where is token validation implemented?"
    expect:
      required_strings: ["tokens.py"]
`

const resultsLogJSONL = `{"task":"find-auth","mode":"baseline","model":"sonnet","repetition":0,"num_turns":10,"num_tool_calls":12,"tool_calls":{"Grep":4,"Read":8},"total_cost_usd":0.10,"duration_ms":60000,"context_tokens":50000,"output_tokens":900,"input_tokens":200,"cache_creation_tokens":40000,"cache_read_tokens":9000,"correct":true}
{"task":"find-auth","mode":"candidate","model":"sonnet","repetition":0,"num_turns":6,"num_tool_calls":7,"tool_calls":{"Read":7},"total_cost_usd":0.05,"duration_ms":30000,"context_tokens":20000,"output_tokens":500,"input_tokens":100,"cache_creation_tokens":15000,"cache_read_tokens":4000,"correct":true}
`

// aHarnessWithValidConfig sets up a temp harness root with a config.
func (s *featureState) aHarnessWithValidConfig() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "tokenbench-feature-*")
	if err != nil {
		return fmt.Errorf("create temp harness: %w", err)
	}
	s.harnessDir = dir
	s.configPath = filepath.Join(dir, ".tokenbench", "config.yml")
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.configPath, []byte(validConfigYAML), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

// aResultsLogWithBothModes writes a two-record results log.
func (s *featureState) aResultsLogWithBothModes() error {
	s.logPath = filepath.Join(s.harnessDir, "results.jsonl")
	if err := os.WriteFile(s.logPath, []byte(resultsLogJSONL), 0o644); err != nil {
		return fmt.Errorf("write results log: %w", err)
	}
	return nil
}

// theConfigIsInvalid replaces the config with a bad version field.
func (s *featureState) theConfigIsInvalid() error {
	bad := "version: 99\nmodels: []\nmodes: []\ntasks: []\n"
	if err := os.WriteFile(s.configPath, []byte(bad), 0o644); err != nil {
		return fmt.Errorf("write invalid config: %w", err)
	}
	return nil
}
