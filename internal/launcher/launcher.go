// Package launcher maps a task's configured agent to a concrete shell
// command line and a stable session identity, keeping prompt text out of
// the command string itself (except for the "custom" agent, whose prompt
// is the command).
package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PromptFileName is the worktree-relative file the Launcher writes a
// task's prompt to before referencing it via shell substitution. The
// repository's ignore rules must exclude it.
const PromptFileName = ".pit-prompt"

// Launch describes a command to run in a task's session and the session
// identity it carries.
type Launch struct {
	CommandLine string
	SessionID   string
	IsResume    bool
}

// Build produces a Launch for the given agent kind, worktree, prompt, and
// the task's previously recorded session id (empty if never launched).
func Build(agent, worktree, prompt, priorSessionID string) (Launch, error) {
	isResume := priorSessionID != ""
	sessionID := priorSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var promptRef string
	if prompt != "" {
		path := filepath.Join(worktree, PromptFileName)
		if err := os.WriteFile(path, []byte(prompt), 0o600); err != nil {
			return Launch{}, fmt.Errorf("writing prompt file: %w", err)
		}
		promptRef = fmt.Sprintf("$(cat '%s')", path)
	}

	cmd := commandFor(agent, sessionID, isResume, promptRef, prompt)
	return Launch{CommandLine: cmd, SessionID: sessionID, IsResume: isResume}, nil
}

func commandFor(agent, sessionID string, isResume bool, promptRef, prompt string) string {
	switch agent {
	case "claude":
		return claudeCommand(sessionID, isResume, promptRef)
	case "pi":
		if isResume {
			return "pi --continue"
		}
		if promptRef == "" {
			return "pi"
		}
		return fmt.Sprintf("pi %s", shellArg(promptRef))
	case "codex":
		if promptRef == "" {
			return "codex"
		}
		return fmt.Sprintf("codex %s", shellArg(promptRef))
	case "aider":
		if promptRef == "" {
			return "aider"
		}
		return fmt.Sprintf("aider --message %s", shellArg(promptRef))
	case "amp":
		if promptRef == "" {
			return "amp"
		}
		return fmt.Sprintf("amp --prompt %s", shellArg(promptRef))
	case "goose":
		if promptRef == "" {
			return "goose"
		}
		return fmt.Sprintf("goose %s", shellArg(promptRef))
	case "custom":
		if prompt == "" {
			return "echo 'no command configured for custom agent'"
		}
		return prompt
	default:
		// Any unrecognized agent name falls back to claude's launch form.
		return claudeCommand(sessionID, isResume, promptRef)
	}
}

func claudeCommand(sessionID string, isResume bool, promptRef string) string {
	if isResume {
		return fmt.Sprintf("claude -r %s", sessionID)
	}
	if promptRef == "" {
		return fmt.Sprintf("claude --session-id %s", sessionID)
	}
	return fmt.Sprintf("claude --session-id %s %s", sessionID, shellArg(promptRef))
}

// shellArg wraps a $(cat '...') substitution in double quotes so the
// substitution still runs but its result is taken as a single shell word.
func shellArg(substitution string) string {
	return `"` + substitution + `"`
}
