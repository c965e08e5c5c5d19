package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/style"
)

var stopCmd = &cobra.Command{
	Use:     "stop <name>",
	Short:   "Kill the task's multiplexer session and mark it idle",
	GroupID: GroupTasks,
	Args:    cobra.ExactArgs(1),
	RunE:    runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}

	if t.MuxSession != "" {
		if err := a.Tmux.KillSession(t.MuxSession); err != nil {
			return err
		}
	}
	if err := a.Tasks.SetStatus(t.ID, store.StatusIdle); err != nil {
		return err
	}

	fmt.Printf("%s stopped %s\n", style.Success.Render("✓"), style.Bold.Render(t.Name))
	return nil
}
