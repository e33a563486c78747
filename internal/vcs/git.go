package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// gitRunner executes git commands for repository operations.
type gitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// execGitRunner invokes git via the system binary.
type execGitRunner struct{}

// Run executes a git command and returns trimmed stdout.
func (execGitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return "", fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client coordinates git operations and allows dependency injection.
type Client struct {
	runner gitRunner
}

// NewClient constructs a git client with an optional runner override.
func NewClient(runner gitRunner) Client {
	if runner == nil {
		runner = execGitRunner{}
	}
	return Client{runner: runner}
}

var defaultClient = NewClient(nil)

// CloneAt clones a repository and pins it to a commit.
func CloneAt(ctx context.Context, url, dir, commit string) error {
	return defaultClient.CloneAt(ctx, url, dir, commit)
}

// Reset discards working tree edits and untracked files.
func Reset(ctx context.Context, dir string) error {
	return defaultClient.Reset(ctx, dir)
}

// Diff returns the working tree diff for one path.
func Diff(ctx context.Context, dir, path string) (string, error) {
	return defaultClient.Diff(ctx, dir, path)
}

// HeadCommit resolves the commit a repository is checked out at.
func HeadCommit(ctx context.Context, dir string) (string, error) {
	return defaultClient.HeadCommit(ctx, dir)
}

// InitCommit turns a directory into a git repo with one commit of its
// current contents.
func InitCommit(ctx context.Context, dir, message string) error {
	return defaultClient.InitCommit(ctx, dir, message)
}

// CloneAt clones a repository and pins it to a commit. The clone skips
// the default checkout so the pinned commit is the only tree ever
// materialized.
func (c Client) CloneAt(ctx context.Context, url, dir, commit string) error {
	if strings.TrimSpace(commit) == "" {
		return fmt.Errorf("clone %s: commit is required", url)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("create clone parent: %w", err)
	}
	if _, err := c.runner.Run(ctx, filepath.Dir(dir), "clone", "--no-checkout", url, dir); err != nil {
		return err
	}
	if _, err := c.runner.Run(ctx, dir, "checkout", commit); err != nil {
		return err
	}
	return nil
}

// Reset discards working tree edits and untracked files.
func (c Client) Reset(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, "checkout", "--", "."); err != nil {
		return err
	}
	if _, err := c.runner.Run(ctx, dir, "clean", "-fd"); err != nil {
		return err
	}
	return nil
}

// Diff returns the working tree diff for one path.
func (c Client) Diff(ctx context.Context, dir, path string) (string, error) {
	return c.runner.Run(ctx, dir, "diff", "--", path)
}

// HeadCommit resolves the commit a repository is checked out at.
func (c Client) HeadCommit(ctx context.Context, dir string) (string, error) {
	commit, err := c.runner.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return commit, nil
}

// InitCommit turns a directory into a git repo with one commit.
func (c Client) InitCommit(ctx context.Context, dir, message string) error {
	for _, args := range [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", message},
	} {
		if _, err := c.runner.Run(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}
