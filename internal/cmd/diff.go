package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/style"
)

var diffCmd = &cobra.Command{
	Use:     "diff <name>",
	Short:   "Show the stat and full diff between the default branch and the task branch",
	GroupID: GroupVCS,
	Args:    cobra.ExactArgs(1),
	RunE:    runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Tasks.Lookup(args[0])
	if err != nil {
		return err
	}

	defaultBranch := a.Git.DefaultBranch(a.RepoRoot)
	stats, totalIns, totalDel, err := a.Git.DiffSummary(a.RepoRoot, defaultBranch, t.Branch)
	if err != nil {
		return err
	}

	fmt.Println(style.Bold.Render(fmt.Sprintf("%s vs %s", t.Branch, defaultBranch)))
	for _, s := range stats {
		fmt.Printf("  %s | +%d -%d\n", s.Path, s.Insertions, s.Deletions)
	}
	fmt.Printf("  %d files changed, +%d -%d\n\n", len(stats), totalIns, totalDel)

	lines, err := a.Git.FileDiff(a.RepoRoot, defaultBranch, t.Branch, t.Worktree)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(lines, "\n"))
	return nil
}
