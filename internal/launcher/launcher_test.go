package launcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildClaudeFirstLaunchWithPrompt(t *testing.T) {
	worktree := t.TempDir()
	l, err := Build("claude", worktree, "implement the feature", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.IsResume {
		t.Error("expected first launch, not resume")
	}
	if !strings.Contains(l.CommandLine, "--session-id "+l.SessionID) {
		t.Errorf("command missing session id: %q", l.CommandLine)
	}
	if !strings.Contains(l.CommandLine, "$(cat '") {
		t.Errorf("command missing prompt file substitution: %q", l.CommandLine)
	}

	promptPath := filepath.Join(worktree, PromptFileName)
	data, err := os.ReadFile(promptPath)
	if err != nil {
		t.Fatalf("reading prompt file: %v", err)
	}
	if string(data) != "implement the feature" {
		t.Errorf("prompt file contents = %q", data)
	}
}

func TestBuildClaudeResume(t *testing.T) {
	l, err := Build("claude", t.TempDir(), "", "sess-123")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !l.IsResume {
		t.Error("expected resume")
	}
	if l.SessionID != "sess-123" {
		t.Errorf("SessionID = %q, want sess-123", l.SessionID)
	}
	if l.CommandLine != "claude -r sess-123" {
		t.Errorf("CommandLine = %q", l.CommandLine)
	}
}

func TestBuildClaudeNoPromptFirstLaunch(t *testing.T) {
	l, err := Build("claude", t.TempDir(), "", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "claude --session-id " + l.SessionID
	if l.CommandLine != want {
		t.Errorf("CommandLine = %q, want %q", l.CommandLine, want)
	}
}

func TestBuildCodexHasNoResumeForm(t *testing.T) {
	l, err := Build("codex", t.TempDir(), "fix the bug", "sess-abc")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(l.CommandLine, "codex ") {
		t.Errorf("CommandLine = %q, want codex with prompt (no resume form)", l.CommandLine)
	}
}

func TestBuildCustomUsesPromptAsCommand(t *testing.T) {
	l, err := Build("custom", t.TempDir(), "./run-my-agent.sh", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.CommandLine != "./run-my-agent.sh" {
		t.Errorf("CommandLine = %q", l.CommandLine)
	}
}

func TestBuildUnknownAgentFallsBackToClaude(t *testing.T) {
	l, err := Build("some-future-agent", t.TempDir(), "", "sess-xyz")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.CommandLine != "claude -r sess-xyz" {
		t.Errorf("CommandLine = %q, want claude resume form", l.CommandLine)
	}
}

func TestBuildNeverInterpolatesRawPrompt(t *testing.T) {
	dangerous := "'; rm -rf /; echo \"$(whoami)\" `id` "
	worktree := t.TempDir()
	l, err := Build("claude", worktree, dangerous, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(l.CommandLine, dangerous) {
		t.Errorf("raw prompt text leaked into command line: %q", l.CommandLine)
	}
}

func TestBuildSessionIDStableAcrossRelaunch(t *testing.T) {
	l1, err := Build("claude", t.TempDir(), "hello", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l2, err := Build("claude", t.TempDir(), "", l1.SessionID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l2.SessionID != l1.SessionID {
		t.Errorf("SessionID changed across relaunch: %q vs %q", l1.SessionID, l2.SessionID)
	}
	if !l2.IsResume {
		t.Error("second launch should be a resume")
	}
}
