package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/style"
	"github.com/iaptsiauri/pit/internal/util"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Create .pit/ and its database in the current repository",
	GroupID: GroupTasks,
	RunE:    runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := openOrInitApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := os.MkdirAll(util.WorktreesDir(a.RepoRoot), 0o755); err != nil {
		return fmt.Errorf("creating .pit directories: %w", err)
	}
	if err := ensureGitignore(a.RepoRoot); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}

	fmt.Println(style.Success.Render("✓") + " initialized pit in " + a.RepoRoot)
	return nil
}

// ensureGitignore appends ".pit" and ".pit-prompt" to the repository's
// .gitignore if they aren't already listed.
func ensureGitignore(repoRoot string) error {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}

	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		f.Close()
	} else if !os.IsNotExist(err) {
		return err
	}

	var toAdd []string
	for _, entry := range []string{".pit", ".pit-prompt"} {
		if !existing[entry] {
			toAdd = append(toAdd, entry)
		}
	}
	if len(toAdd) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, entry := range toAdd {
		if _, err := fmt.Fprintln(f, entry); err != nil {
			return err
		}
	}
	return nil
}
