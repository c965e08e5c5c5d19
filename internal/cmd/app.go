package cmd

import (
	"errors"
	"fmt"

	"github.com/iaptsiauri/pit/internal/checkpoint"
	"github.com/iaptsiauri/pit/internal/reaper"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/task"
	"github.com/iaptsiauri/pit/internal/tmux"
	"github.com/iaptsiauri/pit/internal/util"
	"github.com/iaptsiauri/pit/internal/vcs"
)

// ErrNotInitialized is returned by openApp when the repository has no
// .pit directory yet.
var ErrNotInitialized = errors.New("pit has not been initialized in this repository; run 'pit init'")

// app bundles every collaborator a command handler needs, opened once per
// invocation.
type app struct {
	RepoRoot string
	Store    *store.Store
	Git      *vcs.Git
	Tmux     *tmux.Tmux
	Tasks    *task.Manager
	Check    *checkpoint.Engine
	Reaper   *reaper.Reaper
}

// openApp discovers the repository root, requires .pit to already exist,
// and wires up every collaborator.
func openApp() (*app, error) {
	root, err := util.FindRepoRootFromCwd()
	if err != nil {
		return nil, err
	}
	if !util.IsInitialized(root) {
		return nil, ErrNotInitialized
	}
	return buildApp(root)
}

// openOrInitApp is like openApp but does not require .pit to already exist
// (used by the init command itself).
func openOrInitApp() (*app, error) {
	root, err := util.FindRepoRootFromCwd()
	if err != nil {
		return nil, err
	}
	return buildApp(root)
}

func buildApp(root string) (*app, error) {
	st, err := store.Open(util.DBPath(root))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	git := vcs.New()
	dataDir, err := util.DataDir()
	if err != nil {
		st.Close()
		return nil, err
	}
	mux := tmux.New(dataDir)
	tasks := task.New(root, st, git)
	defaultBranch := git.DefaultBranch(root)
	check := checkpoint.New(root, git, defaultBranch)
	rp := reaper.New(st, mux, check)

	return &app{
		RepoRoot: root,
		Store:    st,
		Git:      git,
		Tmux:     mux,
		Tasks:    tasks,
		Check:    check,
		Reaper:   rp,
	}, nil
}

func (a *app) Close() {
	a.Store.Close()
}
