package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create warehouse objects",
	Long: `Create the following:

- the staging, fact and dimension tables
- a Snowflake external STAGE over the source bucket
`,
}

var createTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Create the staging, fact and dimension tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunCreateTables(newPipelineConfig(cmd))
	},
}

var createStageCfg = actions.CreateStageConfig{}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Create a Snowflake external STAGE compatible with this tool and pointing to AWS S3",
	Long: `Create a Snowflake external STAGE compatible with this tool and pointing to AWS S3.
The stage name is taken from the stage setting. The DDL is printed unless --execute-ddl is set.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateStage(cmd, false)
	},
}

func runCreateStage(cmd *cobra.Command, drop bool) error {
	ctx, cfg := newPipelineConfig(cmd)
	createStageCfg.PipelineConfig = *cfg
	createStageCfg.Drop = drop
	return actions.RunCreateStage(ctx, &createStageCfg)
}

func init() {
	rootCmd.AddCommand(createCmd)
	createTablesCmd.SilenceUsage = true
	createCmd.AddCommand(createTablesCmd)
	createCmd.AddCommand(stageCmd)
	stageCmd.Flags().SortFlags = false
	switches.addFlag(stageCmd.Flags(), &createStageCfg.S3Url, "s3-url", "", "")
	switches.addFlag(stageCmd.Flags(), &createStageCfg.StorageIntegration, "storage-integration", "", "")
	switches.addFlag(stageCmd.Flags(), &createStageCfg.S3Key, "s3-key", "", "")
	switches.addFlag(stageCmd.Flags(), &createStageCfg.S3Secret, "s3-secret", "", "")
	switches.addFlag(stageCmd.Flags(), &createStageCfg.ExecuteDDL, "execute-ddl", "false", "")
	_ = stageCmd.MarkFlagRequired("s3-url")
}
