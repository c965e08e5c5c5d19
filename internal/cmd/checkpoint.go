package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/style"
)

const capturePaneLines = 200

var checkpointCmd = &cobra.Command{
	Use:     "checkpoint <name>",
	Short:   "Create a checkpoint, including a tail of the agent's output",
	GroupID: GroupVCS,
	Args:    cobra.ExactArgs(1),
	RunE:    runCheckpoint,
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
}

func runCheckpoint(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}

	var tail string
	if t.MuxSession != "" {
		tail, _ = a.Tmux.CapturePane(t.MuxSession, capturePaneLines)
	}

	cp, err := a.Check.Create(t.Name, t.Branch, t.Worktree, tail)
	if err != nil {
		return err
	}

	fmt.Printf("%s created checkpoint %s (%s)\n", style.Success.Render("✓"), style.Bold.Render(fmt.Sprintf("#%d", cp.Index)), cp.Tag)
	return nil
}
