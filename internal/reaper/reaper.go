// Package reaper reconciles recorded task state with observed multiplexer
// session liveness, opportunistically snapshotting work before marking a
// task idle again.
package reaper

import (
	"github.com/iaptsiauri/pit/internal/checkpoint"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/tmux"
)

// taskStore is the slice of *store.Store the Reaper depends on.
type taskStore interface {
	List() ([]store.Task, error)
	SetStatus(id, status string) error
}

// sessionChecker is the slice of *tmux.Tmux the Reaper depends on.
type sessionChecker interface {
	SessionExists(name string) (bool, error)
}

// snapshotter is the slice of *checkpoint.Engine the Reaper depends on.
type snapshotter interface {
	HasNewCommits(task, branch string) (bool, error)
	Create(task, branch, worktree, agentTail string) (checkpoint.Checkpoint, error)
}

// Reaper runs a single reconciliation pass over every running task. The
// collaborator fields are narrow interfaces, not *store.Store/*tmux.Tmux
// directly, so a reconciliation pass can be exercised against fakes that
// force the failures the "must not fail a foreground command" contract is
// supposed to swallow.
type Reaper struct {
	Store      taskStore
	Tmux       sessionChecker
	Checkpoint snapshotter
}

// New returns a Reaper wired to its collaborators.
func New(st *store.Store, mux *tmux.Tmux, eng *checkpoint.Engine) *Reaper {
	return &Reaper{Store: st, Tmux: mux, Checkpoint: eng}
}

// Run is invoked on every externally-triggered refresh. For each task
// recorded as running whose multiplexer session has ended, it opportunistically
// checkpoints any new work and transitions the task to idle. Every
// sub-operation's error is swallowed — reaping must never fail a foreground
// command — except the initial Store.List, whose failure means there is
// nothing to reconcile at all. Returns the number of tasks reaped.
func (r *Reaper) Run() (int, error) {
	tasks, err := r.Store.List()
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, t := range tasks {
		if t.Status != store.StatusRunning {
			continue
		}

		live, err := r.sessionLive(t.MuxSession)
		if err != nil {
			continue
		}
		if live {
			continue
		}

		if hasNew, err := r.Checkpoint.HasNewCommits(t.Name, t.Branch); err == nil && hasNew {
			_, _ = r.Checkpoint.Create(t.Name, t.Branch, t.Worktree, "")
		}

		if err := r.Store.SetStatus(t.ID, store.StatusIdle); err != nil {
			continue
		}
		reaped++
	}
	return reaped, nil
}

func (r *Reaper) sessionLive(name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	return r.Tmux.SessionExists(name)
}
