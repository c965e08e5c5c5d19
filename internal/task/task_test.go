package task

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/vcs"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "-A")
	run("commit", "-m", "initial")
	return dir
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	repo := initRepo(t)
	st, err := store.Open(filepath.Join(repo, ".pit", "pit.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(repo, st, vcs.New())
}

func TestCreateInvariants(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	m := newTestManager(t)

	tk, err := m.Create("brave-fox", "desc", "prompt", "", "claude")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tk.Branch != "pit/brave-fox" {
		t.Errorf("Branch = %q", tk.Branch)
	}
	if tk.Status != store.StatusIdle {
		t.Errorf("Status = %q, want idle", tk.Status)
	}
	if _, err := os.Stat(tk.Worktree); err != nil {
		t.Errorf("worktree missing: %v", err)
	}

	rows, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
}

func TestCreateInvalidName(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	m := newTestManager(t)
	_, err := m.Create("has a space", "", "", "", "claude")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Create = %v, want ErrInvalidName", err)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	m := newTestManager(t)
	if _, err := m.Create("dup", "", "", "", "claude"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := m.Create("dup", "", "", "", "claude")
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("Create duplicate = %v, want ErrAlreadyExists", err)
	}
}

func TestDeleteRemovesRowBranchWorktree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	m := newTestManager(t)
	tk, err := m.Create("to-delete", "", "", "", "claude")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := m.Delete(tk.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := os.Stat(tk.Worktree); !os.IsNotExist(err) {
		t.Errorf("worktree still exists")
	}
	if m.VCS.BranchExists(m.RepoRoot, tk.Branch) {
		t.Errorf("branch still exists")
	}
	_, err = m.Lookup(tk.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Lookup after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteRunningTaskFails(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	m := newTestManager(t)
	tk, err := m.Create("busy", "", "", "", "claude")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.SetRunning(tk.ID, "pit-busy", 1, "sess"); err != nil {
		t.Fatalf("SetRunning: %v", err)
	}

	err = m.Delete(tk.ID)
	if !errors.Is(err, ErrRunning) {
		t.Fatalf("Delete running task = %v, want ErrRunning", err)
	}

	if _, lookErr := m.Lookup(tk.ID); lookErr != nil {
		t.Errorf("task should still exist after failed delete: %v", lookErr)
	}
}
