package actions

import (
	"context"
	"fmt"
	"sort"
)

// Action is a command that can be launched by name.
type Action struct {
	FnAction    func(ctx context.Context, cfg *PipelineConfig) error
	Description string
}

// ActionFuncs is a register of the actions that can be launched without the CLI,
// e.g. in twelve-factor mode where the command name is read from the environment.
var ActionFuncs = map[string]Action{
	"run":           {FnAction: RunPipeline, Description: "drop, create, load and transform the star schema"},
	"create-tables": {FnAction: RunCreateTables, Description: "create the staging and star schema tables"},
	"drop-tables":   {FnAction: RunDropTables, Description: "drop the staging and star schema tables"},
	"load":          {FnAction: RunLoad, Description: "bulk load the staging tables"},
	"transform":     {FnAction: RunTransform, Description: "populate the fact and dimension tables from staging"},
	"print":         {FnAction: RunPrint, Description: "print the SQL statements of a run"},
	"check":         {FnAction: RunCheck, Description: "check the JSONPaths document and source locations"},
	"counts":        {FnAction: RunCounts, Description: "print row counts of every table"},
}

// ActionNames returns the registered action names in sorted order.
func ActionNames() []string {
	retval := make([]string, 0, len(ActionFuncs))
	for k := range ActionFuncs {
		retval = append(retval, k)
	}
	sort.Strings(retval)
	return retval
}

// ActionLauncher finds the action registered under name and runs it with cfg.
func ActionLauncher(ctx context.Context, cfg *PipelineConfig, name string) error {
	if cfg == nil {
		return fmt.Errorf("expected pointer to config in variable cfg to be supplied to ActionLauncher")
	}
	a, ok := ActionFuncs[name]
	if !ok {
		return fmt.Errorf("unsupported action %q, expected one of %v", name, ActionNames())
	}
	return a.FnAction(ctx, cfg)
}
