package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drop, create, load and transform the star schema",
	Long: `Rebuild the warehouse from scratch by running every stage in order:

1. drop the staging, fact and dimension tables
2. create them again
3. bulk load staging_events and staging_songs from the source locations
4. populate songplays, users, songs, artists and time

The run stops at the first statement that fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunPipeline(newPipelineConfig(cmd))
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk load the staging tables",
	Long: `Bulk load staging_events using the JSONPaths document and staging_songs by
matching JSON keys to column names. The tables must exist already.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunLoad(newPipelineConfig(cmd))
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Populate the fact and dimension tables from the staging tables",
	Long: `Populate songplays, users, songs, artists and time from the staging tables.
Rows are appended to songplays, so running this more than once without a drop
duplicates the facts. Use 'run' to rebuild everything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunTransform(newPipelineConfig(cmd))
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, loadCmd, transformCmd} {
		c.SilenceUsage = true // avoid dumping command help when a SQL error occurs.
		rootCmd.AddCommand(c)
	}
}
