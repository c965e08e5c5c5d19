// Package vcs wraps version-control subprocess invocations: branch and
// worktree lifecycle, tags, history, and diffs. Every operation runs an
// explicit working directory and never inherits the caller's cwd; failures
// surface the subprocess's trimmed stderr verbatim.
package vcs

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Error wraps a failed subprocess invocation with its trimmed stderr.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Git wraps git operations, always run against an explicit working directory.
type Git struct {
	// Bin overrides the git binary name, mostly for tests. Empty means "git".
	Bin string
}

// New returns a Git adapter using the system git binary.
func New() *Git {
	return &Git{Bin: "git"}
}

func (g *Git) bin() string {
	if g.Bin == "" {
		return "git"
	}
	return g.Bin
}

// run executes git in dir and returns trimmed stdout.
func (g *Git) run(dir string, args ...string) (string, error) {
	cmd := exec.Command(g.bin(), args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runRaw is like run but preserves stdout without trimming (diff/patch output
// where leading/trailing whitespace inside hunks is significant).
func (g *Git) runRaw(dir string, args ...string) (string, error) {
	cmd := exec.Command(g.bin(), args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

// --- Default-branch detection ---------------------------------------------

// DefaultBranch resolves the repository's default branch, cascading through
// the remote's symbolic HEAD, the common names main/master/develop, the
// first locally listed branch, and finally the literal "main".
func (g *Git) DefaultBranch(dir string) string {
	if ref, err := g.run(dir, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		if name := strings.TrimPrefix(ref, "refs/remotes/origin/"); name != ref {
			return name
		}
	}

	for _, name := range []string{"main", "master", "develop"} {
		if _, err := g.run(dir, "show-ref", "--verify", "--quiet", "refs/heads/"+name); err == nil {
			return name
		}
	}

	if out, err := g.run(dir, "branch", "--list", "--format=%(refname:short)"); err == nil && out != "" {
		lines := strings.Split(out, "\n")
		if len(lines) > 0 && lines[0] != "" {
			return lines[0]
		}
	}

	return "main"
}

// --- Branch lifecycle -------------------------------------------------------

// CreateBranch creates branch name from startPoint (a ref, typically HEAD or
// the default branch).
func (g *Git) CreateBranch(dir, name, startPoint string) error {
	_, err := g.run(dir, "branch", name, startPoint)
	return err
}

// DeleteBranch force-deletes a local branch. Idempotent in the sense that the
// caller decides whether "branch not found" is fatal; this always forwards
// git's own error.
func (g *Git) DeleteBranch(dir, name string) error {
	_, err := g.run(dir, "branch", "-D", name)
	return err
}

// BranchExists reports whether a local branch exists.
func (g *Git) BranchExists(dir, name string) bool {
	_, err := g.run(dir, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// --- Worktree lifecycle ------------------------------------------------------

// AddWorktree adds a worktree at path checked out to branch.
func (g *Git) AddWorktree(dir, path, branch string) error {
	_, err := g.run(dir, "worktree", "add", path, branch)
	return err
}

// RemoveWorktree force-removes a worktree.
func (g *Git) RemoveWorktree(dir, path string) error {
	_, err := g.run(dir, "worktree", "remove", "--force", path)
	return err
}

// --- Tags ---------------------------------------------------------------

// CreateLightweightTag creates a lightweight tag at target.
func (g *Git) CreateLightweightTag(dir, name, target string) error {
	_, err := g.run(dir, "tag", name, target)
	return err
}

// CreateAnnotatedTag creates an annotated tag at target. message may be
// multi-line; git preserves it verbatim in the tag object, so the "##"
// section headers the Checkpoint Engine writes survive intact.
func (g *Git) CreateAnnotatedTag(dir, name, target, message string) error {
	_, err := g.run(dir, "tag", "-a", name, target, "-m", message)
	return err
}

// DeleteTag removes a tag. Missing tags are not treated specially here; the
// caller decides.
func (g *Git) DeleteTag(dir, name string) error {
	_, err := g.run(dir, "tag", "-d", name)
	return err
}

// ListTagsByPrefix lists tag names starting with prefix.
func (g *Git) ListTagsByPrefix(dir, prefix string) ([]string, error) {
	out, err := g.run(dir, "tag", "--list", prefix+"*")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// ResolveTag resolves a tag name to the commit hash it points at (for
// annotated tags, this dereferences to the tagged commit, not the tag
// object).
func (g *Git) ResolveTag(dir, name string) (string, error) {
	return g.run(dir, "rev-list", "-n", "1", name)
}

// TagAnnotation returns the full annotation body of an annotated tag.
func (g *Git) TagAnnotation(dir, name string) (string, error) {
	out, err := g.runRaw(dir, "tag", "-l", "--format=%(contents)", name)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// --- History and diff ---------------------------------------------------

// HistoryEntry is one line of compact commit history.
type HistoryEntry struct {
	Hash    string
	Subject string
	Age     string
}

// History returns up to 20 commits reachable from `to` but not from `from`,
// newest first, in compact hash/subject/relative-age form.
func (g *Git) History(dir, from, to string) ([]HistoryEntry, error) {
	rangeSpec := to
	if from != "" {
		rangeSpec = from + ".." + to
	}
	out, err := g.run(dir, "log", rangeSpec, "--max-count=20", "--format=%h\t%s\t%cr")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var entries []HistoryEntry
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		entries = append(entries, HistoryEntry{Hash: parts[0], Subject: parts[1], Age: parts[2]})
	}
	return entries, nil
}

// DiffStat is one file's numeric insertions/deletions from a --numstat diff.
type DiffStat struct {
	Path       string
	Insertions int
	Deletions  int
}

// DiffSummary returns the numeric --numstat diff between two refs, plus
// totals.
func (g *Git) DiffSummary(dir, from, to string) (stats []DiffStat, totalIns, totalDel int, err error) {
	out, err := g.run(dir, "diff", "--numstat", from, to)
	if err != nil {
		return nil, 0, 0, err
	}
	if out == "" {
		return nil, 0, 0, nil
	}

	for _, line := range strings.Split(out, "\n") {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		ins, _ := strconv.Atoi(fields[0])
		del, _ := strconv.Atoi(fields[1])
		stats = append(stats, DiffStat{Path: fields[2], Insertions: ins, Deletions: del})
		totalIns += ins
		totalDel += del
	}
	return stats, totalIns, totalDel, nil
}

// diffHeaderPrefixes are the leading lines FileDiff strips so the result is
// a lazy sequence of hunk and content lines.
var diffHeaderPrefixes = []string{
	"diff --git ", "index ", "--- ", "+++ ",
	"old mode ", "new mode ", "deleted file mode ", "new file mode ",
	"similarity index ", "rename from ", "rename to ",
	"copy from ", "copy to ", "Binary files ",
}

// FileDiff returns the per-file textual diff between two refs with leading
// header lines stripped, combined with the worktree's own uncommitted diff
// when worktreeDir is non-empty: diff reads from the branch, optionally
// layering in live worktree state.
func (g *Git) FileDiff(dir, from, to, worktreeDir string) ([]string, error) {
	out, err := g.runRaw(dir, "diff", from, to)
	if err != nil {
		return nil, err
	}
	lines := stripDiffHeaders(out)

	if worktreeDir != "" {
		wtOut, err := g.runRaw(worktreeDir, "diff", "HEAD")
		if err == nil && strings.TrimSpace(wtOut) != "" {
			lines = append(lines, stripDiffHeaders(wtOut)...)
		}
	}
	return lines, nil
}

func stripDiffHeaders(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		skip := false
		for _, prefix := range diffHeaderPrefixes {
			if strings.HasPrefix(line, prefix) {
				skip = true
				break
			}
		}
		if !skip {
			lines = append(lines, line)
		}
	}
	return lines
}

// --- Worktree-local operations -------------------------------------------

// StageAll runs `git add -A` in the worktree.
func (g *Git) StageAll(worktreeDir string) error {
	_, err := g.run(worktreeDir, "add", "-A")
	return err
}

// CachedDiffEmpty reports whether the index has no staged changes relative
// to HEAD.
func (g *Git) CachedDiffEmpty(worktreeDir string) (bool, error) {
	_, err := g.run(worktreeDir, "diff", "--cached", "--quiet")
	if err == nil {
		return true, nil
	}
	var vErr *Error
	if ok := asExitError(err, &vErr); ok {
		// git diff --quiet exits 1 when there are differences, which is not
		// a real failure for our purposes.
		return false, nil
	}
	return false, err
}

func asExitError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if exitErr, ok := e.Err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		*target = e
		return true
	}
	return false
}

// CommitWithMessage commits the currently staged changes.
func (g *Git) CommitWithMessage(worktreeDir, message string) error {
	_, err := g.run(worktreeDir, "commit", "-m", message)
	return err
}

// ResetHard resets the worktree to ref, discarding local changes.
func (g *Git) ResetHard(worktreeDir, ref string) error {
	_, err := g.run(worktreeDir, "reset", "--hard", ref)
	return err
}

// ResolveHead returns the worktree's current HEAD commit hash.
func (g *Git) ResolveHead(worktreeDir string) (string, error) {
	return g.run(worktreeDir, "rev-parse", "HEAD")
}

// ResolveRef resolves an arbitrary ref (branch, tag, or commit-ish) to a
// commit hash.
func (g *Git) ResolveRef(dir, ref string) (string, error) {
	return g.run(dir, "rev-parse", ref)
}

// AutoCommitIfDirty stages everything and commits with message if the
// worktree has uncommitted changes. Returns false if nothing changed.
func (g *Git) AutoCommitIfDirty(worktreeDir, message string) (bool, error) {
	if err := g.StageAll(worktreeDir); err != nil {
		return false, err
	}
	clean, err := g.CachedDiffEmpty(worktreeDir)
	if err != nil {
		return false, err
	}
	if clean {
		return false, nil
	}
	if err := g.CommitWithMessage(worktreeDir, message); err != nil {
		return false, err
	}
	return true, nil
}

// --- Misc -----------------------------------------------------------------

// RelativeAge formats a duration since t the way `git log --date=relative`
// would (approximate, human-readable), for contexts that already have a
// parsed time.Time rather than asking git again.
func RelativeAge(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d / time.Minute)
		return pluralize(m, "minute") + " ago"
	case d < 24*time.Hour:
		h := int(d / time.Hour)
		return pluralize(h, "hour") + " ago"
	case d < 30*24*time.Hour:
		days := int(d / (24 * time.Hour))
		return pluralize(days, "day") + " ago"
	case d < 365*24*time.Hour:
		months := int(d / (30 * 24 * time.Hour))
		return pluralize(months, "month") + " ago"
	default:
		years := int(d / (365 * 24 * time.Hour))
		return pluralize(years, "year") + " ago"
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
