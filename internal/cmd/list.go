package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/store"
	"github.com/iaptsiauri/pit/internal/style"
	"github.com/iaptsiauri/pit/internal/vcs"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Enumerate tasks",
	GroupID: GroupTasks,
	RunE:    runList,
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Enumerate tasks with per-task status icons",
	GroupID: GroupTasks,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Reaper.Run(); err != nil {
		return fmt.Errorf("reaping: %w", err)
	}

	tasks, err := a.Tasks.List()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println(style.Dim.Render("no tasks yet. Create one with 'pit new <name>'."))
		return nil
	}

	printTaskTable(tasks)
	return nil
}

func printTaskTable(tasks []store.Task) {
	table := style.NewTable(
		style.Column{Name: "", Width: 1},
		style.Column{Name: "NAME", Width: 24},
		style.Column{Name: "AGENT", Width: 10},
		style.Column{Name: "STATUS", Width: 8},
		style.Column{Name: "BRANCH", Width: 28},
		style.Column{Name: "AGE", Width: 16},
	)
	now := time.Now()
	for _, t := range tasks {
		age := vcs.RelativeAge(t.UpdatedAt, now)
		table.AddRow(style.StatusIcon(t.Status), t.Name, t.Agent, t.Status, t.Branch, age)
	}
	fmt.Print(table.Render())
}
