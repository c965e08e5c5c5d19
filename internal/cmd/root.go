// Package cmd provides the pit command-line surface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Command groups, mirroring how the CLI's help output is organized.
const (
	GroupTasks  = "tasks"
	GroupVCS    = "vcs"
	GroupConfig = "config"
)

var rootCmd = &cobra.Command{
	Use:           "pit",
	Short:         "Orchestrate concurrent coding-agent sessions against a git repository",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          requireSubcommand,
}

// requireSubcommand is the RunE for parent commands that exist only to
// group subcommands and do nothing when invoked bare.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupTasks, Title: "Task commands:"},
		&cobra.Group{ID: GroupVCS, Title: "Version control commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration commands:"},
	)
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pit:", err)
		return 1
	}
	return 0
}
