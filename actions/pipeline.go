package actions

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/pipeline"
	"github.com/relloyd/starpipe/stats"
)

// RunPipeline drops and recreates every table, loads the staging tables and builds the star schema.
func RunPipeline(ctx context.Context, cfg *PipelineConfig) error {
	return runStages(ctx, cfg, pipeline.Stages...)
}

// RunCreateTables creates any missing tables.
func RunCreateTables(ctx context.Context, cfg *PipelineConfig) error {
	return runStages(ctx, cfg, c.StageCreate)
}

// RunDropTables drops every table that exists.
func RunDropTables(ctx context.Context, cfg *PipelineConfig) error {
	return runStages(ctx, cfg, c.StageDrop)
}

// RunLoad bulk loads the staging tables.
func RunLoad(ctx context.Context, cfg *PipelineConfig) error {
	return runStages(ctx, cfg, c.StageLoad)
}

// RunTransform populates the fact and dimension tables from the staging tables.
// The fact table is appended to, so repeated runs without a drop duplicate songplays.
func RunTransform(ctx context.Context, cfg *PipelineConfig) error {
	return runStages(ctx, cfg, c.StageTransform)
}

func runStages(ctx context.Context, cfg *PipelineConfig, stages ...string) (err error) {
	cfg.setDefaults()
	log := cfg.Log
	if err = validateConnection(cfg.Settings); err != nil {
		return err
	}
	d, err := getDialect(cfg.Settings)
	if err != nil {
		return err
	}
	steps, err := buildSteps(ctx, cfg, d, stages)
	if err != nil {
		return err
	}
	// Stop between statements on interrupt.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	db, err := cfg.OpenConnection(ctx, log, cfg.Settings.DsnConnectionDetails())
	if err != nil {
		return err
	}
	defer db.Close()
	sm := stats.NewRunStats(log)
	defer func() {
		sm.Dump()
		pushStats(cfg, sm.GetStats(), err == nil)
	}()
	log.Info("running stages ", stages, " using dialect ", d.Name())
	return pipeline.NewExecutor(log, db, sm).Run(ctx, steps)
}

// pushStats publishes the run statistics if a push gateway is configured.
// Failure to push does not fail the run.
func pushStats(cfg *PipelineConfig, s []stats.Stats, success bool) {
	if cfg.Settings.PushGateway == "" {
		return
	}
	p := &stats.Pusher{URL: cfg.Settings.PushGateway, Job: c.PushGatewayJobName, RunID: cfg.RunID}
	if err := p.Push(s, success); err != nil {
		cfg.Log.Warn(err)
	}
}
