package actions

import (
	"context"
	"fmt"

	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/pipeline"
)

// RunPrint writes the statements of cfg.Stages, or of a full run, to cfg.Out without
// connecting to the warehouse.
func RunPrint(ctx context.Context, cfg *PipelineConfig) error {
	cfg.setDefaults()
	d, err := getDialect(cfg.Settings)
	if err != nil {
		return err
	}
	stages := cfg.Stages
	if len(stages) == 0 {
		stages = pipeline.Stages
	}
	steps, err := buildSteps(ctx, cfg, d, stages)
	if err != nil {
		return err
	}
	for _, s := range steps {
		if _, err = fmt.Fprintf(cfg.Out, "-- %v: %v\n%v\n\n", s.Stage, s.Name, helper.Terminate(s.SQL)); err != nil {
			return err
		}
	}
	return nil
}
