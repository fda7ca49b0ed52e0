package actions

import (
	"fmt"
	"os"

	"golang.org/x/net/context"

	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/rdbms"
)

type CreateStageConfig struct {
	PipelineConfig
	StageName          string `errorTxt:"Snowflake stage" mandatory:"yes"`
	S3Url              string
	S3Key              string
	S3Secret           string
	StorageIntegration string
	ExecuteDDL         bool
	Drop               bool
}

// RunCreateStage prints the DDL of the Snowflake external stage that the load reads from,
// or executes it when cfg.ExecuteDDL is set.
func RunCreateStage(ctx context.Context, cfg *CreateStageConfig) error {
	cfg.setDefaults()
	log := cfg.Log
	// Get AWS variables from env.
	if value := os.Getenv("AWS_ACCESS_KEY_ID"); cfg.S3Key == "" && value != "" { // if the CLI didn't supply a key and there is one we can get from the env...
		cfg.S3Key = value
	}
	if value := os.Getenv("AWS_SECRET_ACCESS_KEY"); cfg.S3Secret == "" && value != "" { // if the CLI didn't supply a secret and there is one we can get from the env...
		cfg.S3Secret = value
	}
	if cfg.StageName == "" {
		cfg.StageName = cfg.Settings.Stage
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if !cfg.Drop && cfg.S3Url == "" {
		return fmt.Errorf("please supply values for AWS S3 URL")
	}
	var stmts []string
	var err error
	if cfg.Drop {
		stmts, err = dialect.DropStageDDL(cfg.StageName)
	} else {
		stmts, err = dialect.StageDDL(dialect.Stage{
			Name:               cfg.StageName,
			URL:                cfg.S3Url,
			StorageIntegration: cfg.StorageIntegration,
			KeyID:              cfg.S3Key,
			Secret:             cfg.S3Secret,
		})
	}
	if err != nil {
		return err
	}
	if !cfg.ExecuteDDL {
		printLogFn := getPrintLogFunc(log, cfg.Out)
		for _, stmt := range stmts {
			printLogFn(helper.Terminate(stmt))
		}
		return nil
	}
	d, err := getDialect(cfg.Settings)
	if err != nil {
		return err
	}
	if d.Name() != c.DialectSnowflake {
		return fmt.Errorf("stages are only supported by dialect %v", c.DialectSnowflake)
	}
	if err = validateConnection(cfg.Settings); err != nil {
		return err
	}
	db, err := cfg.OpenConnection(ctx, log, cfg.Settings.DsnConnectionDetails())
	if err != nil {
		return err
	}
	defer db.Close()
	printLogFn := getPrintLogFunc(log, nil) // use logger if we're executing DDL.
	for _, stmt := range stmts {
		printLogFn(stmt)
		err = execFn(printLogFn, func() error {
			_, err := rdbms.SqlExec(ctx, log, db, stmt)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
