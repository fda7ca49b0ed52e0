package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
)

const queryArgsDefinitionTxt string = "<SQL-optionally-quoted>"

var queryCmd = &cobra.Command{
	Use:   "query " + queryArgsDefinitionTxt,
	Short: "Run a SQL query against the warehouse",
	Long: `Execute a query by supplying the SQL as plain arguments. 
It's only necessary to wrap the statement in quotes if it contains special characters 
that will be interpreted by your shell. You can use a dry-run to check formatting.
Results are returned as CSV lines, optionally enclosed by quotes '"'`,

	Args: getQueryFromArgsFunc(&queryCfg.Query, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg := newPipelineConfig(cmd)
		queryCfg.PipelineConfig = *cfg
		return actions.RunQuery(ctx, &queryCfg)
	},
}

var queryCfg = actions.QueryConfig{
	Query:       "",
	DryRun:      false,
	PrintHeader: false,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().SortFlags = false
	queryCmd.SilenceUsage = true // avoid dumping command help when a SQL syntax error occurs.
	switches.addFlag(queryCmd.Flags(), &queryCfg.DryRun, "dry-run", "false", "")
	switches.addFlag(queryCmd.Flags(), &queryCfg.PrintHeader, "print-header", "false", "")
}
