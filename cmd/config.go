package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
	"github.com/relloyd/starpipe/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file of default settings",
	Long: fmt.Sprintf(`Manage the YAML file holding default settings (~/%v/%v unless --config is used).
Keys match the long flag names: %v.
Flags take precedence over values in the file.`, config.MainDir, config.MainFileFullName, strings.Join(config.Keys(), ", ")),
}

var configFileCfg = actions.ConfigFileConfig{}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file skeleton with example values",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configFileCfg.Out = cmd.OutOrStdout()
		if configFileCfg.File, err = getConfigFile(); err != nil {
			return err
		}
		return actions.RunConfigInit(&configFileCfg)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings after applying the config file and flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunConfigShow(cmd.OutOrStdout(), settings)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [<value>]",
	Short: "Save a setting in the config file, or remove it if no value is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if configFileCfg.File, err = getConfigFile(); err != nil {
			return err
		}
		configFileCfg.Key = args[0]
		configFileCfg.Value = ""
		if len(args) == 2 {
			configFileCfg.Value = args[1]
		}
		return actions.RunConfigSet(&configFileCfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	switches.addFlag(configInitCmd.Flags(), &configFileCfg.Force, "force", "false", "")
	configSetCmd.SilenceUsage = true
}
