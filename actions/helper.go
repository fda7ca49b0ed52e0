package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/relloyd/starpipe/config"
	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/jsonpaths"
	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/pipeline"
	"github.com/relloyd/starpipe/queries"
	td "github.com/relloyd/starpipe/table-definition"
)

type connectionSettings struct {
	Dialect string `errorTxt:"dialect" mandatory:"yes"`
	Dsn     string `errorTxt:"dsn" mandatory:"yes"`
}

type loadSettings struct {
	SongData    string `errorTxt:"song-data" mandatory:"yes"`
	LogData     string `errorTxt:"log-data" mandatory:"yes"`
	LogJsonPath string `errorTxt:"log-jsonpath" mandatory:"yes"`
}

type redshiftLoadSettings struct {
	loadSettings
	IamRoleArn string `errorTxt:"iam-role-arn" mandatory:"yes"`
	Region     string `errorTxt:"region" mandatory:"yes"`
}

type snowflakeLoadSettings struct {
	loadSettings
	Stage string `errorTxt:"stage" mandatory:"yes"`
}

// validateConnection checks the settings needed to reach the warehouse.
func validateConnection(p *config.Pipeline) error {
	if err := helper.ValidateStructIsPopulated(connectionSettings{Dialect: p.Dialect, Dsn: p.Dsn}); err != nil {
		return err
	}
	return p.DsnConnectionDetails().Parse()
}

// validateLoad checks the settings the dialect needs to bulk load the staging tables.
func validateLoad(p *config.Pipeline, d dialect.Dialect) error {
	ls := loadSettings{SongData: p.SongData, LogData: p.LogData, LogJsonPath: p.LogJsonPath}
	var s interface{}
	switch d.Name() {
	case c.DialectRedshift:
		s = redshiftLoadSettings{loadSettings: ls, IamRoleArn: p.IamRoleArn, Region: p.Region}
	case c.DialectSnowflake:
		s = snowflakeLoadSettings{loadSettings: ls, Stage: p.Stage}
	default:
		s = ls
	}
	return helper.ValidateStructIsPopulated(s)
}

func loadConfig(p *config.Pipeline) *queries.LoadConfig {
	return &queries.LoadConfig{
		SongData:    p.SongData,
		LogData:     p.LogData,
		LogJsonPath: p.LogJsonPath,
		IamRoleArn:  p.IamRoleArn,
		Region:      p.Region,
		Stage:       p.Stage,
	}
}

func includesStage(stages []string, stage string) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

// buildSteps validates the settings needed by stages and returns their statements.
// The JSONPaths document is only fetched when the dialect cannot read it itself.
func buildSteps(ctx context.Context, cfg *PipelineConfig, d dialect.Dialect, stages []string) ([]pipeline.Step, error) {
	var lc *queries.LoadConfig
	var paths *jsonpaths.Mapping
	if includesStage(stages, c.StageLoad) {
		if err := validateLoad(cfg.Settings, d); err != nil {
			return nil, err
		}
		lc = loadConfig(cfg.Settings)
		if d.NeedsResolvedPaths() {
			var err error
			cfg.Log.Info("resolving JSONPaths document ", lc.LogJsonPath)
			paths, err = cfg.JsonPaths.Resolve(ctx, lc.LogJsonPath, td.StagingEvents)
			if err != nil {
				return nil, err
			}
		}
	}
	plan, err := pipeline.NewPlan(d, lc, paths)
	if err != nil {
		return nil, err
	}
	return plan.Steps(stages...)
}

func getDialect(p *config.Pipeline) (dialect.Dialect, error) {
	d, err := dialect.Get(p.Dialect)
	if err != nil {
		return nil, errors.Wrap(err, "error reading dialect")
	}
	return d, nil
}

func execFn(printLogFn func(msg string), fn func() error) error {
	printLogFn("Executing SQL...")
	if err := fn(); err != nil {
		return err
	}
	printLogFn("SQL succeeded without error.")
	return nil
}

// getPrintLogFunc returns a func that writes to w, or to the logger if w is nil.
func getPrintLogFunc(log logger.Logger, w io.Writer) func(msg string) {
	return func(msg string) {
		if w != nil {
			_, _ = fmt.Fprintln(w, msg)
		} else {
			log.Info(msg)
		}
	}
}
