package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchLines int

var watchCmd = &cobra.Command{
	Use:     "watch <name>",
	Short:   "Live-tail the agent buffer until the session ends or Ctrl-C",
	GroupID: GroupTasks,
	Args:    cobra.ExactArgs(1),
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchLines, "lines", "n", 40, "number of buffer lines to show")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}
	if t.MuxSession == "" {
		return fmt.Errorf("task %q is not running", t.Name)
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		live, err := a.Tmux.SessionExists(t.MuxSession)
		if err != nil {
			return err
		}
		if !live {
			if _, err := a.Reaper.Run(); err != nil {
				return err
			}
			return nil
		}

		out, err := a.Tmux.CapturePane(t.MuxSession, watchLines)
		if err != nil {
			return err
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(out)
	}
	return nil
}
