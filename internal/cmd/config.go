package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/iaptsiauri/pit/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage pit's process-wide configuration",
	GroupID: GroupConfig,
	RunE:    requireSubcommand,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recognized configuration key",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file's location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configUnsetCmd, configListCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	s, err := config.Open()
	if err != nil {
		return err
	}
	return s.Set(args[0], args[1])
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	s, err := config.Open()
	if err != nil {
		return err
	}
	value, ok, err := s.Get(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	fmt.Println(value)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	s, err := config.Open()
	if err != nil {
		return err
	}
	return s.Unset(args[0])
}

func runConfigList(cmd *cobra.Command, args []string) error {
	s, err := config.Open()
	if err != nil {
		return err
	}
	all, err := s.List()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %s\n", k, all[k])
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	s, err := config.Open()
	if err != nil {
		return err
	}
	fmt.Println(s.Path())
	return nil
}
