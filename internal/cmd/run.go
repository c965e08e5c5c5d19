package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/launcher"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/style"
	"github.com/iaptsiauri/pit/internal/tmux"
)

var runCmd = &cobra.Command{
	Use:     "run <name>",
	Short:   "Launch the agent for a task in the background",
	GroupID: GroupTasks,
	Args:    cobra.ExactArgs(1),
	RunE:    runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}
	if t.Status == store.StatusRunning {
		return fmt.Errorf("task %q is already running", t.Name)
	}

	launch, err := launcher.Build(t.Agent, t.Worktree, t.Prompt, t.SessionID)
	if err != nil {
		return err
	}

	sessionName := tmux.SessionName(t.Name)
	if err := a.Tmux.CreateSessionWithCmd(sessionName, t.Worktree, launch.CommandLine); err != nil {
		return err
	}

	if err := a.Tasks.SetRunning(t.ID, sessionName, 0, launch.SessionID); err != nil {
		return err
	}

	verb := "launched"
	if launch.IsResume {
		verb = "resumed"
	}
	fmt.Printf("%s %s %s (%s)\n", style.Success.Render("✓"), verb, style.Bold.Render(t.Name), t.Agent)
	return nil
}
