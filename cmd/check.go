package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the load settings without touching the warehouse",
	Long: `Fetch the JSONPaths document and show how it maps onto staging_events, then count
the objects found at each source location. Fails if a source holds no objects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunCheck(newPipelineConfig(cmd))
	},
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the number of rows in every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunCounts(newPipelineConfig(cmd))
	},
}

func init() {
	checkCmd.SilenceUsage = true
	countsCmd.SilenceUsage = true
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(countsCmd)
}
