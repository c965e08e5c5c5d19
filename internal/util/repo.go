package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotInRepo is returned when no .git directory can be found by walking
// upward from the starting directory.
var ErrNotInRepo = fmt.Errorf("not inside a git repository")

// FindRepoRoot walks upward from startDir looking for a .git entry,
// mirroring the original pit's project-root discovery: the repository
// root is wherever .git lives, not necessarily the current directory.
func FindRepoRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		gitPath := filepath.Join(dir, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			// A .git directory (normal repo) or a .git file (worktrees and
			// submodules point back at the real git dir via "gitdir:") both
			// mark a repository root.
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInRepo
		}
		dir = parent
	}
}

// FindRepoRootFromCwd is a convenience wrapper around FindRepoRoot using
// the process's current working directory.
func FindRepoRootFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRepoRoot(cwd)
}

// PitDir returns the <repo>/.pit directory path for a given repo root.
func PitDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".pit")
}

// DBPath returns the <repo>/.pit/pit.db path for a given repo root.
func DBPath(repoRoot string) string {
	return filepath.Join(PitDir(repoRoot), "pit.db")
}

// WorktreesDir returns the <repo>/.pit/worktrees directory for a given repo root.
func WorktreesDir(repoRoot string) string {
	return filepath.Join(PitDir(repoRoot), "worktrees")
}

// WorktreePath returns the canonical worktree path for a task name.
func WorktreePath(repoRoot, taskName string) string {
	return filepath.Join(WorktreesDir(repoRoot), taskName)
}

// IsInitialized reports whether <repo>/.pit has already been created.
func IsInitialized(repoRoot string) bool {
	info, err := os.Stat(PitDir(repoRoot))
	return err == nil && info.IsDir()
}

// DataDir returns the platform data directory used for pit's process-wide
// config (as opposed to per-repo state under <repo>/.pit). On all the
// platforms pit targets this is $XDG_DATA_HOME/pit or ~/.local/share/pit.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "pit"), nil
}
