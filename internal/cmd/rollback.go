package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/style"
)

var rollbackTo int

var rollbackCmd = &cobra.Command{
	Use:     "rollback <name>",
	Short:   "Rollback to a checkpoint (or the last one), requires the task to be stopped",
	GroupID: GroupVCS,
	Args:    cobra.ExactArgs(1),
	RunE:    runRollback,
}

func init() {
	rollbackCmd.Flags().IntVar(&rollbackTo, "to", 0, "checkpoint index to roll back to (default: last)")
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("task %q is running; stop it first", t.Name)
	}

	index, err := a.Check.Rollback(t.Name, t.Worktree, rollbackTo)
	if err != nil {
		return err
	}

	fmt.Printf("%s rolled back %s to checkpoint #%d\n", style.Success.Render("✓"), style.Bold.Render(t.Name), index)
	return nil
}
