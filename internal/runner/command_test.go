package runner

import (
	"strings"
	"testing"

	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
)

func TestAgentArgs(t *testing.T) {
	task := tasks.Task{ID: "find-auth", Prompt: "Where is auth?"}
	mode := spec.ModeConfig{ID: "baseline", Tools: []string{"Read", "Grep"}}

	args := agentArgs(task, mode, "claude-sonnet-4", "Be brief.", 0.5)
	joined := strings.Join(args, " ")

	if args[0] != "claude" || args[1] != "-p" {
		t.Fatalf("unexpected prefix: %v", args[:2])
	}
	for _, want := range []string{
		"--output-format stream-json",
		"--model claude-sonnet-4",
		"--max-budget-usd 0.5",
		"--no-session-persistence",
		"--dangerously-skip-permissions",
		"--strict-mcp-config",
		"--system-prompt Be brief.",
		"--tools Read,Grep",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, args)
		}
	}
	if strings.Contains(joined, "--mcp-config") {
		t.Fatalf("unexpected mcp config: %v", args)
	}
	if args[len(args)-2] != "--" || args[len(args)-1] != "Where is auth?" {
		t.Fatalf("prompt must follow --: %v", args)
	}
}

func TestAgentArgsMCPConfig(t *testing.T) {
	mode := spec.ModeConfig{ID: "candidate", MCPConfig: "/fixtures/mcp.json"}
	args := agentArgs(tasks.Task{Prompt: "p"}, mode, "m", "s", 1)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--mcp-config /fixtures/mcp.json") {
		t.Fatalf("args missing mcp config: %v", args)
	}
	if strings.Contains(joined, "--tools") {
		t.Fatalf("unexpected tools flag: %v", args)
	}
}

func TestScrubEnv(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"CLAUDECODE=1",
		"ANTHROPIC_API_KEY=sk-test",
		"HOME=/root",
	}
	scrubbed := scrubEnv(env)
	if len(scrubbed) != 2 {
		t.Fatalf("expected 2 vars, got %v", scrubbed)
	}
	for _, kv := range scrubbed {
		if strings.HasPrefix(kv, "CLAUDECODE=") || strings.HasPrefix(kv, "ANTHROPIC_API_KEY=") {
			t.Fatalf("scrub leaked %q", kv)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	if got := truncateUTF8("hello", 10); got != "hello" {
		t.Fatalf("short string changed: %q", got)
	}
	long := strings.Repeat("é", 100)
	got := truncateUTF8(long, 5)
	if len(got) > 5 {
		t.Fatalf("got %d bytes", len(got))
	}
	// é is two bytes; the cut must land on a rune boundary.
	if len(got)%2 != 0 {
		t.Fatalf("split a rune: %q", got)
	}
}
