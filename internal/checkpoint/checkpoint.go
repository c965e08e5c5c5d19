// Package checkpoint implements the checkpoint engine: annotated
// commit-tagged snapshots of a task's worktree, listable and rollback-able,
// with new-commit detection relative to the last snapshot.
package checkpoint

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iaptsiauri/pit/internal/vcs"
)

// ErrNoCheckpoints is returned by Rollback when the task has no checkpoints.
var ErrNoCheckpoints = errors.New("no checkpoints exist for this task")

// Checkpoint is one annotated snapshot of a task's branch.
type Checkpoint struct {
	Index      int
	Tag        string
	Commit     string
	ShortHash  string
	Subject    string
	Age        string
	Annotation string
}

// Engine creates, lists, and rolls back checkpoints for tasks in a
// repository.
type Engine struct {
	RepoRoot      string
	VCS           *vcs.Git
	DefaultBranch string
}

// New returns an Engine rooted at repoRoot. defaultBranch is used as the
// base of the commit range when a task has no prior checkpoint.
func New(repoRoot string, git *vcs.Git, defaultBranch string) *Engine {
	return &Engine{RepoRoot: repoRoot, VCS: git, DefaultBranch: defaultBranch}
}

func tagPrefix(task string) string {
	return fmt.Sprintf("pit/checkpoint/%s/", task)
}

func tagName(task string, index int) string {
	return fmt.Sprintf("pit/checkpoint/%s/%d", task, index)
}

func preRollbackTag(task string) string {
	return "pit/pre-rollback/" + task
}

// List enumerates a task's checkpoints sorted by index ascending. Tags with
// a malformed trailing index collapse to 0 and sort first.
func (e *Engine) List(task string) ([]Checkpoint, error) {
	tags, err := e.VCS.ListTagsByPrefix(e.RepoRoot, tagPrefix(task))
	if err != nil {
		return nil, err
	}

	out := make([]Checkpoint, 0, len(tags))
	for _, tag := range tags {
		idx := parseIndex(tag, tagPrefix(task))

		commit, err := e.VCS.ResolveTag(e.RepoRoot, tag)
		if err != nil {
			return nil, err
		}
		annotation, err := e.VCS.TagAnnotation(e.RepoRoot, tag)
		if err != nil {
			return nil, err
		}
		entries, err := e.VCS.History(e.RepoRoot, commit+"~1", commit)
		subject := ""
		shortHash := commit
		age := ""
		if err == nil && len(entries) > 0 {
			subject = entries[0].Subject
			shortHash = entries[0].Hash
			age = entries[0].Age
		}

		out = append(out, Checkpoint{
			Index:      idx,
			Tag:        tag,
			Commit:     commit,
			ShortHash:  shortHash,
			Subject:    firstAnnotationLine(annotation, subject),
			Age:        age,
			Annotation: annotation,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func parseIndex(tag, prefix string) int {
	idx, err := strconv.Atoi(strings.TrimPrefix(tag, prefix))
	if err != nil {
		return 0
	}
	return idx
}

func firstAnnotationLine(annotation, fallback string) string {
	lines := strings.SplitN(annotation, "\n", 2)
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		return lines[0]
	}
	return fallback
}

// lastCheckpointCommit returns the commit of the highest-index checkpoint,
// or "" if none exist.
func (e *Engine) lastCheckpointCommit(task string) (string, error) {
	cps, err := e.List(task)
	if err != nil {
		return "", err
	}
	if len(cps) == 0 {
		return "", nil
	}
	return cps[len(cps)-1].Commit, nil
}

// HasNewCommits reports whether the task's branch has any commits beyond
// its last checkpoint, or beyond the default branch if no checkpoint
// exists yet.
func (e *Engine) HasNewCommits(task, branch string) (bool, error) {
	base, err := e.lastCheckpointCommit(task)
	if err != nil {
		return false, err
	}
	if base == "" {
		base = e.DefaultBranch
	}

	head, err := e.VCS.ResolveRef(e.RepoRoot, branch)
	if err != nil {
		return false, err
	}
	entries, err := e.VCS.History(e.RepoRoot, base, head)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// meaningfulLines filters out blank lines and shell-prompt lines from a
// terminal buffer tail, preserving original order, and caps the result at
// 20 lines.
func meaningfulLines(tail string) []string {
	if tail == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(tail, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "$") || strings.HasPrefix(trimmed, "%") ||
			strings.HasPrefix(trimmed, "~/") || strings.HasPrefix(trimmed, "❯") {
			continue
		}
		out = append(out, line)
	}
	if len(out) > 20 {
		out = out[len(out)-20:]
	}
	return out
}

// buildAnnotation assembles the multi-section checkpoint annotation body.
// Empty sections are omitted.
func buildAnnotation(task string, doneSubjects []string, agentTail string, stats []vcs.DiffStat, totalIns, totalDel int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[pit checkpoint] %s\n", task)

	if len(doneSubjects) > 0 {
		b.WriteString("\n## Done\n")
		for _, s := range doneSubjects {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	if lines := meaningfulLines(agentTail); len(lines) > 0 {
		b.WriteString("\n## Agent Context\n")
		for _, l := range lines {
			fmt.Fprintf(&b, "%s\n", l)
		}
	}

	if len(stats) > 0 {
		b.WriteString("\n## Files Changed\n")
		for _, s := range stats {
			fmt.Fprintf(&b, "%s | +%d -%d\n", s.Path, s.Insertions, s.Deletions)
		}
		fmt.Fprintf(&b, "%d files changed, +%d -%d\n", len(stats), totalIns, totalDel)
	}

	return b.String()
}

// filterCheckpointSubjects drops commit subjects that are themselves
// checkpoint markers, so a checkpoint's "## Done" section only lists the
// agent's own work. entries arrive newest-first from History; the result
// is reversed back to chronological order.
func filterCheckpointSubjects(entries []vcs.HistoryEntry) []string {
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Subject, "[pit checkpoint]") {
			continue
		}
		out = append(out, e.Subject)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Create auto-commits any dirty worktree state, computes the next index,
// builds the annotation, and tags the branch's HEAD.
func (e *Engine) Create(task, branch, worktree, agentTail string) (Checkpoint, error) {
	commitMsg := fmt.Sprintf("[pit checkpoint] auto-save for %s", task)
	if _, err := e.VCS.AutoCommitIfDirty(worktree, commitMsg); err != nil {
		return Checkpoint{}, fmt.Errorf("auto-committing before checkpoint: %w", err)
	}

	existing, err := e.List(task)
	if err != nil {
		return Checkpoint{}, err
	}
	nextIndex := 1
	base := e.DefaultBranch
	if len(existing) > 0 {
		nextIndex = existing[len(existing)-1].Index + 1
		base = existing[len(existing)-1].Commit
	}

	head, err := e.VCS.ResolveRef(e.RepoRoot, branch)
	if err != nil {
		return Checkpoint{}, err
	}

	entries, err := e.VCS.History(e.RepoRoot, base, head)
	if err != nil {
		return Checkpoint{}, err
	}
	doneSubjects := filterCheckpointSubjects(entries)

	stats, totalIns, totalDel, err := e.VCS.DiffSummary(e.RepoRoot, base, head)
	if err != nil {
		return Checkpoint{}, err
	}

	annotation := buildAnnotation(task, doneSubjects, agentTail, stats, totalIns, totalDel)

	tag := tagName(task, nextIndex)
	if err := e.VCS.CreateAnnotatedTag(e.RepoRoot, tag, head, annotation); err != nil {
		return Checkpoint{}, err
	}

	return Checkpoint{
		Index:      nextIndex,
		Tag:        tag,
		Commit:     head,
		Annotation: annotation,
	}, nil
}

// Rollback resets the task's worktree to the target checkpoint (explicit
// index, or the last checkpoint if index is 0), first auto-committing any
// dirty state and writing a pre-rollback safety tag.
func (e *Engine) Rollback(task, worktree string, index int) (int, error) {
	cps, err := e.List(task)
	if err != nil {
		return 0, err
	}
	if len(cps) == 0 {
		return 0, ErrNoCheckpoints
	}

	target := cps[len(cps)-1]
	if index != 0 {
		found := false
		for _, cp := range cps {
			if cp.Index == index {
				target = cp
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("checkpoint %d: %w", index, ErrNoCheckpoints)
		}
	}

	commitMsg := fmt.Sprintf("[pit checkpoint] auto-save for %s", task)
	if _, err := e.VCS.AutoCommitIfDirty(worktree, commitMsg); err != nil {
		return 0, fmt.Errorf("auto-committing before rollback: %w", err)
	}

	if head, err := e.VCS.ResolveHead(worktree); err == nil {
		// Best-effort: a failed safety tag must not block the rollback itself.
		_ = e.writeSafetyTag(task, head)
	}

	if err := e.VCS.ResetHard(worktree, target.Commit); err != nil {
		return 0, err
	}
	return target.Index, nil
}

func (e *Engine) writeSafetyTag(task, commit string) error {
	name := preRollbackTag(task)
	_ = e.VCS.DeleteTag(e.RepoRoot, name)
	return e.VCS.CreateLightweightTag(e.RepoRoot, name, commit)
}
