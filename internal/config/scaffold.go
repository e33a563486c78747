package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

harness:
  fixtures_dir: fixtures
  results_dir: results
  system_prompt: >
    You are a code assistant. Answer the user's question about the codebase
    in the current directory. Use the tools available to you to explore and
    understand the code. Be precise and show relevant code when asked.

defaults:
  model: sonnet
  reps: 5
  budget_usd: 1.0
  timeout_seconds: 300

models:
  - id: sonnet
    api_id: claude-sonnet-4-5

modes:
  - id: baseline
    tools: [Read, Edit, Grep, Glob, Bash]
    description: "built-in tools only"
  - id: candidate
    tools: [Read, Edit]
    mcp_config: fixtures/mcp.json
    description: "augmented tool set via MCP"

repos:
  - name: ripgrep
    url: https://github.com/BurntSushi/ripgrep.git
    commit: 0a88cccd5188074de96f54a4b6b44a63971ac157
    language: rust
    description: "line-oriented search tool"

tasks:
  - id: rg-default-filter
    repo: ripgrep
    type: read
    prompt: "How does ripgrep decide which files to ignore by default?"
    expect:
      required_strings: ["gitignore"]

pricing:
  cache_creation_per_mtok: 3.75
  cache_read_per_mtok: 0.30
  output_per_mtok: 15.00
  input_per_mtok: 3.00

report:
  baseline_mode: baseline
  candidate_mode: candidate
`

// Scaffold writes a starter config file, refusing to overwrite.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
