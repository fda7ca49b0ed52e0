package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/relloyd/starpipe/actions"
	"github.com/relloyd/starpipe/config"
	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/logger"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set such that other init() functions that configure
// Cobra can do the job of processing all environment variables that would contain equivalent of the CLI flag
// structures used by starpipe's actions.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		lambdaMode = strings.ToLower(mode) == "lambda"
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
)

var (
	twelveFactorMode          bool                 // true if os env var envVarTwelveFactorMode is set
	lambdaMode                bool                 // true if os env var envVarTwelveFactorMode is "lambda"
	twelveFactorVarsSensitive = map[string]string{ // used to flag variables whose values must not be logged.
		helper.GetEnvVarName("dsn"): "",
	}
)

// settingsFromEnv reads every setting from its environment variable, e.g. log-jsonpath from SP_LOG_JSONPATH.
// Unset variables leave the defaults in place.
func settingsFromEnv() (*config.Pipeline, map[string]string, error) {
	vars := make(map[string]string)
	m := make(map[string]interface{})
	for _, k := range config.Keys() { // for each setting...
		var v string
		name := helper.GetEnvVarName(k)
		if err := helper.ReadValueFromEnv(name, &v); err == nil { // if the variable is set...
			m[k] = v
		}
		vars[name] = v
	}
	env := &config.Pipeline{}
	if err := mapstructure.Decode(m, env); err != nil {
		return nil, nil, err
	}
	p := config.NewPipeline()
	p.Merge(env)
	return p, vars, nil
}

func execute12FactorMode(ctx context.Context, acts map[string]actions.Action) (err error) {
	p, vars, err := settingsFromEnv()
	if err != nil {
		fmt.Println("Error: ", err)
		return err
	}
	stackDump := stackDumpOnPanic || os.Getenv(envVarStackDump) != ""
	runID := logger.NewRunID()
	log := logger.NewRunLogger(c.ServiceName, p.LogLevel, stackDump, runID)
	log.Info("starpipe is running in 12 Factor mode...")
	for k, v := range vars { // for each env variable that we read...
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive { // if the env variable does not contain sensitive values...
			log.Debug(k, "=", v)
		} else { // else output obfuscated value...
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	command := os.Getenv(envVarCommand)
	a, ok := acts[command]
	if !ok {
		err = fmt.Errorf("invalid command %q in %v, expected one of %v", command, envVarCommand, actions.ActionNames())
		log.Error(err.Error())
		return
	}
	cfg := &actions.PipelineConfig{Settings: p, StackDumpOnPanic: stackDump, RunID: runID, Log: log}
	if err = a.FnAction(ctx, cfg); err != nil {
		log.Error("Error: ", err)
	}
	return err
}
