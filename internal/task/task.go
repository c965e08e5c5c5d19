// Package task implements the task lifecycle: creation (branch + worktree
// + row), deletion, status transitions, and lookup.
package task

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/iaptsiauri/pit/internal/lock"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/util"
	"github.com/iaptsiauri/pit/internal/vcs"
)

// Errors surfaced by the Task Manager beyond what the Store already reports.
var (
	ErrInvalidName = errors.New("invalid task name")
	ErrRunning     = errors.New("task is running")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// Task is the Task Manager's view of a unit of work.
type Task = store.Task

// Manager owns task creation, deletion, lookup, and status transitions.
type Manager struct {
	RepoRoot string
	Store    *store.Store
	VCS      *vcs.Git
}

// New returns a Manager operating against repoRoot.
func New(repoRoot string, st *store.Store, git *vcs.Git) *Manager {
	return &Manager{RepoRoot: repoRoot, Store: st, VCS: git}
}

func (m *Manager) lockPath() string {
	return util.PitDir(m.RepoRoot) + "/manager.lock"
}

// Create validates name, creates a branch and worktree, and inserts the
// task row last so a partially-failed create never leaves a Store entry
// with no corresponding branch/worktree.
func (m *Manager) Create(name, description, prompt, issueURL, agent string) (Task, error) {
	if !nameRe.MatchString(name) {
		return Task{}, fmt.Errorf("%w: %q must match %s", ErrInvalidName, name, nameRe.String())
	}

	release, err := lock.Acquire(m.lockPath())
	if err != nil {
		return Task{}, err
	}
	defer release()

	if _, err := m.Store.GetByName(name); err == nil {
		return Task{}, fmt.Errorf("task %q: %w", name, store.ErrAlreadyExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return Task{}, err
	}

	branch := "pit/" + name
	worktree := util.WorktreePath(m.RepoRoot, name)

	defaultBranch := m.VCS.DefaultBranch(m.RepoRoot)
	if err := m.VCS.CreateBranch(m.RepoRoot, branch, defaultBranch); err != nil {
		return Task{}, err
	}

	if err := m.VCS.AddWorktree(m.RepoRoot, worktree, branch); err != nil {
		// Restore invariants: no orphaned branch without a worktree.
		_ = m.VCS.DeleteBranch(m.RepoRoot, branch)
		return Task{}, err
	}

	t := Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Prompt:      prompt,
		IssueURL:    issueURL,
		Agent:       agent,
		Branch:      branch,
		Worktree:    worktree,
		Status:      store.StatusIdle,
	}
	if err := m.Store.Create(t); err != nil {
		_ = m.VCS.RemoveWorktree(m.RepoRoot, worktree)
		_ = m.VCS.DeleteBranch(m.RepoRoot, branch)
		return Task{}, err
	}
	return t, nil
}

// List returns tasks ordered by creation time ascending.
func (m *Manager) List() ([]Task, error) {
	return m.Store.List()
}

// Lookup finds a task by id or by name.
func (m *Manager) Lookup(idOrName string) (Task, error) {
	if t, err := m.Store.GetByID(idOrName); err == nil {
		return t, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return Task{}, err
	}
	return m.Store.GetByName(idOrName)
}

// Delete refuses running tasks; otherwise removes the worktree, branch,
// and row in that order. The Store is authoritative: a worktree or branch
// already missing on disk does not fail the delete.
func (m *Manager) Delete(idOrName string) error {
	release, err := lock.Acquire(m.lockPath())
	if err != nil {
		return err
	}
	defer release()

	t, err := m.Lookup(idOrName)
	if err != nil {
		return err
	}
	if t.Status == store.StatusRunning {
		return fmt.Errorf("task %q: %w", t.Name, ErrRunning)
	}

	if err := m.VCS.RemoveWorktree(m.RepoRoot, t.Worktree); err != nil {
		var vcsErr *vcs.Error
		if !errors.As(err, &vcsErr) {
			return err
		}
	}
	if err := m.VCS.DeleteBranch(m.RepoRoot, t.Branch); err != nil {
		var vcsErr *vcs.Error
		if !errors.As(err, &vcsErr) {
			return err
		}
	}
	return m.Store.Delete(t.ID)
}

// SetStatus unconditionally sets a task's status.
func (m *Manager) SetStatus(id, status string) error {
	return m.Store.SetStatus(id, status)
}

// SetRunning transitions a task into the running state and records the
// liveness identity the Reaper and Agent Launcher need.
func (m *Manager) SetRunning(id, muxSession string, pid int64, sessionID string) error {
	return m.Store.SetRunning(id, muxSession, pid, sessionID)
}
