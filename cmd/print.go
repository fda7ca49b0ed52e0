package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

var printStages string

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the SQL statements of a run without executing them",
	Long: `Print the SQL statements that 'run' would execute, each terminated by ';'.
Use --stages to print a subset. The warehouse is not contacted, but the JSONPaths
document is fetched when the dialect needs it to build the load statements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg := newPipelineConfig(cmd)
		cfg.Stages = getStagesFromCsv(printStages)
		return actions.RunPrint(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.SilenceUsage = true
	switches.addFlag(printCmd.Flags(), &printStages, "stages", "", "")
}
