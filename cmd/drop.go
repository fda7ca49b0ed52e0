package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop warehouse objects",
}

var dropTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Drop the staging, fact and dimension tables if they exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunDropTables(newPipelineConfig(cmd))
	},
}

var dropStageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Drop the Snowflake external STAGE",
	Long: `Drop the Snowflake external STAGE named by the stage setting.
The DDL is printed unless --execute-ddl is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateStage(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
	dropTablesCmd.SilenceUsage = true
	dropCmd.AddCommand(dropTablesCmd)
	dropCmd.AddCommand(dropStageCmd)
	switches.addFlag(dropStageCmd.Flags(), &createStageCfg.ExecuteDDL, "execute-ddl", "false", "")
}
