package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `version: 1

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
  - id: haiku
    api_id: claude-haiku-4

modes:
  - id: baseline
    tools: [Read, Grep, Glob]
  - id: candidate
    tools: [Read]
    mcp_config: fixtures/mcp.json

repos:
  - name: ripgrep
    url: https://example.com/ripgrep.git
    commit: 0a88cccd5188074de96f54a4b6b44a63971ac157

tasks:
  - id: find-auth
    prompt: "Where is token validation implemented?"
    expect:
      required_strings: ["tokens.py"]
  - id: rg-ignore
    repo: ripgrep
    prompt: "How are ignore rules applied?"
    expect:
      required_strings: ["gitignore"]
`

// writeTestConfig scaffolds a config under a temp harness root.
func writeTestConfig(t *testing.T) (configPath, root string) {
	t.Helper()
	root = t.TempDir()
	dir := filepath.Join(root, ".tokenbench")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configPath = filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte(testConfigYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, root
}
