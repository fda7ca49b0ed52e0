package actions

import (
	"context"
	"io"
	"os"

	"github.com/relloyd/starpipe/aws/s3"
	"github.com/relloyd/starpipe/config"
	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/jsonpaths"
	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms"
	"github.com/relloyd/starpipe/rdbms/shared"
)

// ConnectionOpener opens the warehouse connection used by an action.
type ConnectionOpener func(ctx context.Context, log logger.Logger, d shared.DsnConnectionDetails) (shared.Connector, error)

// PipelineConfig is shared by every action that builds or inspects the star schema.
// Only Settings is required; the remaining fields default to the real implementations.
type PipelineConfig struct {
	Settings         *config.Pipeline
	StackDumpOnPanic bool
	RunID            string
	Stages           []string // used by RunPrint
	Log              logger.Logger
	OpenConnection   ConnectionOpener
	JsonPaths        *jsonpaths.Loader
	NewS3Client      s3.ClientFactory
	Out              io.Writer
}

func (cfg *PipelineConfig) setDefaults() {
	if cfg.Settings == nil {
		cfg.Settings = config.NewPipeline()
	}
	if cfg.Settings.LogLevel == "" {
		cfg.Settings.LogLevel = c.DefaultLogLevel
	}
	if cfg.RunID == "" {
		cfg.RunID = logger.NewRunID()
	}
	if cfg.Log == nil {
		cfg.Log = logger.NewRunLogger(c.ServiceName, cfg.Settings.LogLevel, cfg.StackDumpOnPanic, cfg.RunID)
	}
	if cfg.OpenConnection == nil {
		cfg.OpenConnection = rdbms.OpenDbConnection
	}
	if cfg.NewS3Client == nil {
		cfg.NewS3Client = s3.NewBasicClient
	}
	if cfg.JsonPaths == nil {
		cfg.JsonPaths = &jsonpaths.Loader{Region: cfg.Settings.Region, NewClient: cfg.NewS3Client}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
}
