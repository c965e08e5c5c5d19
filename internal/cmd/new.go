package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/issue"
	"github.com/iaptsiauri/pit/internal/names"
	"github.com/iaptsiauri/pit/internal/style"
)

var (
	newDescription string
	newPrompt      string
	newIssueURL    string
	newAgent       string
)

var newCmd = &cobra.Command{
	Use:     "new [name]",
	Short:   "Create a task",
	GroupID: GroupTasks,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "task description")
	newCmd.Flags().StringVarP(&newPrompt, "prompt", "p", "", "prompt for the agent")
	newCmd.Flags().StringVarP(&newIssueURL, "issue", "i", "", "issue URL or pre-fetched issue text")
	newCmd.Flags().StringVarP(&newAgent, "agent", "a", "claude", "agent kind")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		name, err = generateName(a)
		if err != nil {
			return err
		}
	}

	prompt := newPrompt
	if prompt == "" && newIssueURL != "" {
		// The Issue Adapter only ever sees pre-fetched text; -i already
		// carries either a URL (stored verbatim) or the issue body itself.
		prompt, err = (issue.Static{Text: newIssueURL}).Fetch(newIssueURL)
		if err != nil {
			return err
		}
	}

	t, err := a.Tasks.Create(name, newDescription, prompt, newIssueURL, newAgent)
	if err != nil {
		return err
	}

	fmt.Printf("%s created task %s (%s)\n", style.Success.Render("✓"), style.Bold.Render(t.Name), t.Branch)
	return nil
}

func generateName(a *app) (string, error) {
	existing, err := a.Tasks.List()
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		taken[t.Name] = true
	}
	return names.Generate(taken), nil
}
