package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/checkpoint"
	"github.com/iaptsiauri/pit/internal/style"
)

var checkpointsCmd = &cobra.Command{
	Use:     "checkpoints <name>",
	Short:   "List a task's checkpoints",
	GroupID: GroupVCS,
	Args:    cobra.ExactArgs(1),
	RunE:    runCheckpoints,
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
}

func runCheckpoints(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}

	cps, err := a.Check.List(t.Name)
	if err != nil {
		return err
	}
	if len(cps) == 0 {
		fmt.Println(style.Dim.Render("no checkpoints yet for " + t.Name))
		return nil
	}

	printCheckpointTable(cps)
	return nil
}

func printCheckpointTable(cps []checkpoint.Checkpoint) {
	table := style.NewTable(
		style.Column{Name: "#", Width: 4},
		style.Column{Name: "HASH", Width: 10},
		style.Column{Name: "SUBJECT", Width: 40},
		style.Column{Name: "AGE", Width: 16},
	)
	for _, cp := range cps {
		table.AddRow(fmt.Sprintf("%d", cp.Index), cp.ShortHash, cp.Subject, cp.Age)
	}
	fmt.Print(table.Render())
}
