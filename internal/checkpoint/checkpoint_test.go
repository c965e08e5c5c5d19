package checkpoint

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iaptsiauri/pit/internal/vcs"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func skipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// setupRepoWithWorktree builds a bare-ish repo with a "main" default branch
// and a task branch checked out into its own worktree, mirroring how the
// Task Manager lays things out.
func setupRepoWithWorktree(t *testing.T) (repo, worktree string) {
	t.Helper()
	repo = t.TempDir()
	runGit(t, repo, "init", "-b", "main")
	if err := os.WriteFile(filepath.Join(repo, "README.md"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, repo, "add", "-A")
	runGit(t, repo, "commit", "-m", "initial")

	runGit(t, repo, "branch", "pit/demo")
	worktree = filepath.Join(t.TempDir(), "demo")
	runGit(t, repo, "worktree", "add", worktree, "pit/demo")
	return repo, worktree
}

func TestCreateFirstCheckpoint(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("agent work\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cp, err := eng.Create("demo", "pit/demo", worktree, "building the feature\n$ echo done\ndone")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cp.Index != 1 {
		t.Errorf("Index = %d, want 1", cp.Index)
	}
	if !strings.Contains(cp.Annotation, "[pit checkpoint] demo") {
		t.Errorf("annotation missing header: %q", cp.Annotation)
	}
	if !strings.Contains(cp.Annotation, "## Agent Context") {
		t.Errorf("annotation missing agent context: %q", cp.Annotation)
	}
	if strings.Contains(cp.Annotation, "$ echo done") {
		t.Errorf("shell-prompt line should be filtered: %q", cp.Annotation)
	}
}

func TestCheckpointIndicesAscend(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.Create("demo", "pit/demo", worktree, ""); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	cps, err := eng.List("demo")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cps) != 3 {
		t.Fatalf("len(cps) = %d, want 3", len(cps))
	}
	for i, cp := range cps {
		if cp.Index != i+1 {
			t.Errorf("cps[%d].Index = %d, want %d", i, cp.Index, i+1)
		}
	}
}

func TestCreateLeavesWorktreeClean(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	if err := os.WriteFile(filepath.Join(worktree, "dirty.txt"), []byte("uncommitted\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Create("demo", "pit/demo", worktree, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := runGit(t, worktree, "status", "--porcelain")
	if status != "" {
		t.Errorf("worktree not clean after checkpoint: %q", status)
	}
}

func TestListPopulatesAge(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Create("demo", "pit/demo", worktree, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cps, err := eng.List("demo")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cps) != 1 {
		t.Fatalf("len(cps) = %d, want 1", len(cps))
	}
	if cps[0].Age == "" {
		t.Error("Age is empty, want a relative-age string like \"2 seconds ago\"")
	}
}

func TestRollbackToExplicitIndex(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cp1, err := eng.Create("demo", "pit/demo", worktree, "")
	if err != nil {
		t.Fatalf("Create #1: %v", err)
	}

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Create("demo", "pit/demo", worktree, ""); err != nil {
		t.Fatalf("Create #2: %v", err)
	}

	gotIndex, err := eng.Rollback("demo", worktree, cp1.Index)
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if gotIndex != cp1.Index {
		t.Errorf("rolled back to %d, want %d", gotIndex, cp1.Index)
	}

	head := runGit(t, worktree, "rev-parse", "HEAD")
	if head != cp1.Commit {
		t.Errorf("HEAD = %s, want %s", head, cp1.Commit)
	}

	safetyTag := runGit(t, repo, "tag", "-l", "pit/pre-rollback/demo")
	if safetyTag == "" {
		t.Error("expected pre-rollback safety tag to exist")
	}
}

func TestRollbackNoCheckpointsFails(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	_, err := eng.Rollback("demo", worktree, 0)
	if err == nil {
		t.Fatal("expected error rolling back with no checkpoints")
	}
}

func TestHasNewCommitsWithoutCheckpoint(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	has, err := eng.HasNewCommits("demo", "pit/demo")
	if err != nil {
		t.Fatalf("HasNewCommits: %v", err)
	}
	if has {
		t.Error("expected no new commits before any work")
	}

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, worktree, "add", "-A")
	runGit(t, worktree, "commit", "-m", "agent work")

	has, err = eng.HasNewCommits("demo", "pit/demo")
	if err != nil {
		t.Fatalf("HasNewCommits: %v", err)
	}
	if !has {
		t.Error("expected new commits after agent work")
	}
}

func TestHasNewCommitsAfterCheckpointIsFalse(t *testing.T) {
	skipIfNoGit(t)
	repo, worktree := setupRepoWithWorktree(t)
	eng := New(repo, vcs.New(), "main")

	if err := os.WriteFile(filepath.Join(worktree, "work.txt"), []byte("v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Create("demo", "pit/demo", worktree, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	has, err := eng.HasNewCommits("demo", "pit/demo")
	if err != nil {
		t.Fatalf("HasNewCommits: %v", err)
	}
	if has {
		t.Error("expected no new commits immediately after checkpoint")
	}
}
