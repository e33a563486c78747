// Package fixtures materializes the repositories benchmark tasks run
// against: pinned clones of real projects and a generated synthetic
// project.
package fixtures

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tokenbench/internal/spec"
	"tokenbench/internal/vcs"
)

//go:embed all:synthetic
var syntheticFS embed.FS

// Dependencies holds the injectable git operations.
type Dependencies struct {
	CloneAt    func(ctx context.Context, url, dir, commit string) error
	HeadCommit func(ctx context.Context, dir string) (string, error)
	InitCommit func(ctx context.Context, dir, message string) error
	Progress   io.Writer
}

func (d Dependencies) withDefaults() Dependencies {
	if d.CloneAt == nil {
		d.CloneAt = vcs.CloneAt
	}
	if d.HeadCommit == nil {
		d.HeadCommit = vcs.HeadCommit
	}
	if d.InitCommit == nil {
		d.InitCommit = vcs.InitCommit
	}
	if d.Progress == nil {
		d.Progress = io.Discard
	}
	return d
}

// SetupRepos clones every configured repo at its pinned commit. A repo
// already at the right commit is left alone; anything else is
// re-cloned from scratch.
func SetupRepos(ctx context.Context, repos []spec.RepoConfig, reposDir string, deps Dependencies) error {
	deps = deps.withDefaults()
	if err := os.MkdirAll(reposDir, 0o755); err != nil {
		return fmt.Errorf("create repos directory: %w", err)
	}
	for _, repo := range repos {
		dir := filepath.Join(reposDir, repo.Name)
		if _, err := os.Stat(dir); err == nil {
			head, err := deps.HeadCommit(ctx, dir)
			if err == nil && head == repo.Commit {
				fmt.Fprintf(deps.Progress, "  %s: already at %s\n", repo.Name, shortCommit(repo.Commit))
				continue
			}
			fmt.Fprintf(deps.Progress, "  %s: at %s, need %s, re-cloning\n",
				repo.Name, shortCommit(head), shortCommit(repo.Commit))
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("remove stale clone %s: %w", dir, err)
			}
		}
		fmt.Fprintf(deps.Progress, "  %s: cloning from %s\n", repo.Name, repo.URL)
		if err := deps.CloneAt(ctx, repo.URL, dir, repo.Commit); err != nil {
			return fmt.Errorf("clone %s: %w", repo.Name, err)
		}
		fmt.Fprintf(deps.Progress, "  %s: checked out %s\n", repo.Name, shortCommit(repo.Commit))
	}
	return nil
}

// SetupSynthetic writes the generated fixture project to dir and turns
// it into a one-commit git repo, replacing any previous copy.
func SetupSynthetic(ctx context.Context, dir string, deps Dependencies) error {
	deps = deps.withDefaults()
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove previous synthetic repo: %w", err)
		}
	}
	files := 0
	err := fs.WalkDir(syntheticFS, "synthetic", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("synthetic", path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := syntheticFS.ReadFile(path)
		if err != nil {
			return err
		}
		files++
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return fmt.Errorf("write synthetic repo: %w", err)
	}
	if err := deps.InitCommit(ctx, dir, "Initial commit"); err != nil {
		return fmt.Errorf("init synthetic repo: %w", err)
	}
	fmt.Fprintf(deps.Progress, "  synthetic: %d files at %s\n", files, dir)
	return nil
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
