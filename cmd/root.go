package cmd

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/relloyd/starpipe/actions"
	"github.com/relloyd/starpipe/config"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2020-11-01T03:04+0000"
	stackDumpOnPanic bool
	configFile       string
	flagSettings     = &config.Pipeline{} // values supplied on the command line
	settings         *config.Pipeline     // effective values, see resolveSettings
)

var rootCmd = &cobra.Command{
	Use: "starpipe",
	Long: `
starpipe builds a star schema of song plays in a cloud data warehouse.

It bulk loads the raw event logs and song metadata from S3 into staging tables and
transforms them into the songplays fact table and the users, songs, artists and time
dimensions. Settings are read from the config file, then overridden by flags.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		settings, err = resolveSettings()
		return err
	},
}

func init() {
	// General setup.
	cobra.EnableCommandSorting = false
	// Global flags.
	pf := rootCmd.PersistentFlags()
	pf.SortFlags = false
	pf.BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
	pf.StringVarP(&configFile, "config", "c", "", "Config `<file>` (default ~/"+config.MainDir+"/"+config.MainFileFullName+")")
	addSettingsFlags(pf, flagSettings)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode { // if we should handle lambda execution...
			lambda.Start(func(ctx context.Context) error { return execute12FactorMode(ctx, actions.ActionFuncs) })
		} else {
			if err := execute12FactorMode(context.Background(), actions.ActionFuncs); err != nil {
				// execute12FactorMode prints the error.
				os.Exit(1)
			}
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.ExecuteContext(context.Background()); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}

// resolveSettings applies the defaults, then the config file, then the command-line flags.
func resolveSettings() (*config.Pipeline, error) {
	f, err := getConfigFile()
	if err != nil {
		return nil, err
	}
	fileSettings := &config.Pipeline{}
	if err = f.Decode(fileSettings); err != nil {
		return nil, err
	}
	p := config.NewPipeline()
	p.Merge(fileSettings)
	p.Merge(flagSettings)
	return p, nil
}

func getConfigFile() (*config.File, error) {
	if configFile != "" {
		return config.NewConfigFileFromPath(configFile), nil
	}
	return config.NewConfigFile()
}

// newPipelineConfig returns the action config for the effective settings.
func newPipelineConfig(cmd *cobra.Command) (context.Context, *actions.PipelineConfig) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, &actions.PipelineConfig{Settings: settings, StackDumpOnPanic: stackDumpOnPanic, Out: cmd.OutOrStdout()}
}
