package cmd

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/tmux"
)

var shellCmd = &cobra.Command{
	Use:     "shell <name>",
	Short:   "Open a shell in the task's worktree",
	GroupID: GroupTasks,
	Args:    cobra.ExactArgs(1),
	RunE:    runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}

	sessionName := tmux.SessionName(t.Name) + "-shell"
	exists, err := a.Tmux.SessionExists(sessionName)
	if err != nil {
		return err
	}
	if !exists {
		shellBin := "/bin/sh"
		if path, err := exec.LookPath("bash"); err == nil {
			shellBin = path
		}
		if err := a.Tmux.CreateSessionWithCmd(sessionName, t.Worktree, shellBin); err != nil {
			return err
		}
	}

	fmt.Println("attaching to shell for", t.Name)
	return a.Tmux.Attach(sessionName)
}
