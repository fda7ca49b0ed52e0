package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/relloyd/starpipe/config"
	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/helper"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	// Settings
	"dialect": cliFlag{name: "dialect", shortHand: "D",
		desc: fmt.Sprintf("Warehouse dialect, one of %v", strings.Join(dialect.Names(), " | "))},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Warehouse connection string, for example:\n" +
			"redshift://<user>:<password>@<host>:5439/<database>\n" +
			"snowflake://<user>:<password>@<account>/<database>/<schema>?warehouse=<warehouse>\n" +
			"duckdb:<file> (omit the file to use an in-memory database)"},
	"iam-role-arn": cliFlag{name: "iam-role-arn", shortHand: "r",
		desc: "ARN of the IAM role Redshift assumes to read the source bucket"},
	"song-data": cliFlag{name: "song-data", shortHand: "s",
		desc: "Location of the song metadata JSON files: s3://<bucket>/<prefix> or a local path"},
	"log-data": cliFlag{name: "log-data", shortHand: "e",
		desc: "Location of the event log JSON files: s3://<bucket>/<prefix> or a local path"},
	"log-jsonpath": cliFlag{name: "log-jsonpath", shortHand: "j",
		desc: "Location of the JSONPaths document that maps event log fields to staging_events columns"},
	"region": cliFlag{name: "region", shortHand: "R",
		desc: "AWS region of the source bucket"},
	"stage": cliFlag{name: "stage", shortHand: "t",
		desc: "The external Snowflake stage pointing at the root of the source bucket. Only required \n" +
			"when the dialect is Snowflake"},
	"pushgateway": cliFlag{name: "pushgateway", shortHand: "g",
		desc: "URL of a Prometheus push gateway to publish run statistics to (omit to disable)"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\" where only step stats are \n" +
			"output at using \"warn\""},
	// Command specific
	"stages": cliFlag{name: "stages", shortHand: "p",
		desc: fmt.Sprintf("CSV of the stages to print, from: %v", strings.Join([]string{constants.StageDrop, constants.StageCreate, constants.StageLoad, constants.StageTransform}, ","))},
	"dry-run": cliFlag{name: "dry-run", shortHand: "n",
		desc: "Print the SQL query without executing it"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a header for SQL query results"},
	"execute-ddl": cliFlag{name: "execute-ddl", shortHand: "E",
		desc: "Execute the generated DDL against the warehouse (otherwise it's printed only)"},
	"s3-url": cliFlag{name: "s3-url", shortHand: "u",
		desc: "AWS S3 bucket URL to be added to a new STAGE object. Use format: s3://<bucket>[/<prefix>/]"},
	"s3-key": cliFlag{name: "s3-key", shortHand: "K",
		desc: "AWS IAM user key that can access the bucket (or set AWS_ACCESS_KEY_ID)"},
	"s3-secret": cliFlag{name: "s3-secret", shortHand: "S",
		desc: "AWS IAM user secret that can access the bucket (or set AWS_SECRET_ACCESS_KEY)"},
	"storage-integration": cliFlag{name: "storage-integration", shortHand: "I",
		desc: "Snowflake storage integration to use instead of an AWS key pair"},
	"force": cliFlag{name: "force", shortHand: "f",
		desc: "Overwrite an existing config file"},
}

// addFlag adds a flag to FlagSet fs, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used, and no flag is registered.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(fs *pflag.FlagSet, targetVar interface{}, name string, defaultValue string, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			fs.StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
		}
	case *bool:
		defaultBool := false
		if b, err := strconv.ParseBool(sw.val); err == nil {
			defaultBool = b
		}
		if twelveFactorMode {
			*p = defaultBool
		} else {
			fs.BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
}

// addSettingsFlags registers one flag per config.Pipeline setting.
// Flags default to empty so that only values supplied by the user take precedence over the
// config file; the real defaults are applied by resolveSettings.
func addSettingsFlags(fs *pflag.FlagSet, p *config.Pipeline) {
	v := reflect.ValueOf(p).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ { // for each setting...
		key := t.Field(i).Tag.Get("mapstructure")
		desc2 := ""
		if d := reflect.ValueOf(config.NewPipeline()).Elem().Field(i).String(); d != "" { // if there is a default...
			desc2 = fmt.Sprintf(" (default %q)", d)
		}
		switches.addFlag(fs, v.Field(i).Addr().Interface(), key, "", desc2)
	}
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	s.val = defaultValue
	if twelveFactorMode { // if we should read env vars...
		_ = helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val)
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return helper.GetEnvVarName(name)
}

// getQueryFromArgsFunc concatenates all args into a string.
// Returns an error if there are no args.
func getQueryFromArgsFunc(query *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 { // if we are missing arguments...
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			}
			return errors.New("please supply a SQL query")
		}
		*query = strings.Join(args, " ")
		return nil
	}
}

// getStagesFromCsv splits a CSV of stage names.
func getStagesFromCsv(s string) []string {
	retval := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			retval = append(retval, v)
		}
	}
	return retval
}
