// Package pipeline assembles and executes the ordered statements of a warehouse build.
package pipeline

import (
	"fmt"

	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/jsonpaths"
	"github.com/relloyd/starpipe/queries"
	td "github.com/relloyd/starpipe/table-definition"
)

// Step is one statement of a stage.
type Step struct {
	Stage string
	Name  string
	SQL   string
}

// Plan holds the statements of each stage in execution order.
type Plan struct {
	Drop      []Step
	Create    []Step
	Load      []Step
	Transform []Step
}

// Stages lists the stages of a full run in execution order.
var Stages = []string{c.StageDrop, c.StageCreate, c.StageLoad, c.StageTransform}

func toSteps(stage string, stmts []queries.Statement) []Step {
	retval := make([]Step, 0, len(stmts))
	for _, s := range stmts {
		retval = append(retval, Step{Stage: stage, Name: s.Name, SQL: s.SQL})
	}
	return retval
}

// NewPlan builds the statements for dialect d.
// The load stage is only built when cfg is supplied; paths must be supplied if the dialect
// needs the resolved JSONPaths document.
func NewPlan(d dialect.Dialect, cfg *queries.LoadConfig, paths *jsonpaths.Mapping) (*Plan, error) {
	r := td.NewRegistry()
	p := &Plan{
		Drop:      toSteps(c.StageDrop, queries.DropTableStatements(d, r)),
		Create:    toSteps(c.StageCreate, queries.CreateTableStatements(d, r)),
		Transform: toSteps(c.StageTransform, queries.TransformStatements(d)),
	}
	if cfg != nil {
		stmts, err := queries.CopyStatements(d, *cfg, paths)
		if err != nil {
			return nil, err
		}
		p.Load = toSteps(c.StageLoad, stmts)
	}
	return p, nil
}

// Steps concatenates the steps of the named stages in the order given.
func (p *Plan) Steps(stages ...string) ([]Step, error) {
	retval := make([]Step, 0)
	for _, s := range stages {
		switch s {
		case c.StageDrop:
			retval = append(retval, p.Drop...)
		case c.StageCreate:
			retval = append(retval, p.Create...)
		case c.StageLoad:
			if p.Load == nil {
				return nil, fmt.Errorf("the %v stage requires source locations", c.StageLoad)
			}
			retval = append(retval, p.Load...)
		case c.StageTransform:
			retval = append(retval, p.Transform...)
		default:
			return nil, fmt.Errorf("unknown stage %q, expected one of %v", s, Stages)
		}
	}
	return retval, nil
}
