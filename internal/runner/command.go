package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
)

// AgentInvoker runs the agent CLI in a directory and returns its
// stdout. Injectable so tests never spawn a real agent.
type AgentInvoker func(ctx context.Context, dir string, args []string) (string, error)

// scrubbedEnvVars are dropped from the agent's environment. CLAUDECODE
// trips the nested-session check; ANTHROPIC_API_KEY forces API billing
// instead of subscription auth.
var scrubbedEnvVars = []string{"CLAUDECODE", "ANTHROPIC_API_KEY"}

// execInvoke spawns the agent binary and captures its output.
func execInvoke(ctx context.Context, dir string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Env = scrubEnv(os.Environ())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timeout: %w", args[0], ctx.Err())
		}
		head := stdout.String()
		if len(head) > 500 {
			head = head[:500]
		}
		return "", fmt.Errorf("%s failed: %w\nstderr: %s\nstdout: %s",
			args[0], err, strings.TrimSpace(stderr.String()), head)
	}
	return stdout.String(), nil
}

func scrubEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		scrubbed := false
		for _, drop := range scrubbedEnvVars {
			if name == drop {
				scrubbed = true
				break
			}
		}
		if !scrubbed {
			out = append(out, kv)
		}
	}
	return out
}

// agentArgs builds the agent CLI invocation for one run.
func agentArgs(task tasks.Task, mode spec.ModeConfig, apiModelID, systemPrompt string, budgetUSD float64) []string {
	args := []string{
		"claude",
		"-p",
		"--output-format", "stream-json",
		"--verbose",
		"--model", apiModelID,
		"--max-budget-usd", strconv.FormatFloat(budgetUSD, 'f', -1, 64),
		"--no-session-persistence",
		"--dangerously-skip-permissions",
		"--strict-mcp-config",
		"--system-prompt", systemPrompt,
	}
	if len(mode.Tools) > 0 {
		args = append(args, "--tools", strings.Join(mode.Tools, ","))
	}
	if mode.MCPConfig != "" {
		args = append(args, "--mcp-config", mode.MCPConfig)
	}
	args = append(args, "--", task.Prompt)
	return args
}
